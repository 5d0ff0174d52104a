package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カテゴリのHTTP。閲覧は公開、変更はスタッフのみ。
type CategoryHandler struct {
	uc  *usecase.CategoryUsecase
	cfg config.Config
}

func NewCategoryHandler(uc *usecase.CategoryUsecase, cfg config.Config) *CategoryHandler {
	return &CategoryHandler{uc: uc, cfg: cfg}
}

type CreateCategoryRequest struct {
	Name   string `json:"name"`
	Parent int64  `json:"parent"`
}

type UpdateCategoryParentRequest struct {
	Parent int64 `json:"parent"`
}

func (h *CategoryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/categories", h.list)
	e.GET("/categories/:id/children", h.children)

	g := e.Group("/staff/categories")
	g.Use(middleware.AuthJWT(h.cfg))
	g.Use(middleware.StaffRoleGuard())
	g.POST("", h.create)
	g.PATCH("/:id/parent", h.updateParent)
	g.DELETE("/:id", h.delete)
}

func (h *CategoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) children(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Children(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateCategoryInput{
		Name:   req.Name,
		Parent: req.Parent,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CategoryHandler) updateParent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCategoryParentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateParent(c.Request().Context(), id, req.Parent); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "parent updated"})
}

func (h *CategoryHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "category deleted"})
}
