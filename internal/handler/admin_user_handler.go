package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ユーザー管理のHTTP。adminのみ。
type AdminUserHandler struct {
	uc  *usecase.AdminUserUsecase
	cfg config.Config
}

func NewAdminUserHandler(uc *usecase.AdminUserUsecase, cfg config.Config) *AdminUserHandler {
	return &AdminUserHandler{uc: uc, cfg: cfg}
}

type AdminUpdateUserRequest struct {
	Email    string `json:"email"`
	DayBirth string `json:"day_birth"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
	IsAdmin  bool   `json:"is_admin"`
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/admin/users")
	g.Use(middleware.AuthJWT(h.cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *AdminUserHandler) list(c echo.Context) error {
	page, ok := parsePageQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}

	out, err := h.uc.ListUsers(c.Request().Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetUser(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateUser(c.Request().Context(), id, usecase.AdminUpdateUserInput{
		Email:    req.Email,
		DayBirth: req.DayBirth,
		IsActive: req.IsActive,
		IsStaff:  req.IsStaff,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	force := c.QueryParam("force") == "true"

	if err := h.uc.DeleteUser(c.Request().Context(), id, force); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}
