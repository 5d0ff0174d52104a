package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 店舗のHTTP。閲覧は公開、変更はスタッフのみ。
type ShopHandler struct {
	uc  *usecase.ShopUsecase
	cfg config.Config
}

func NewShopHandler(uc *usecase.ShopUsecase, cfg config.Config) *ShopHandler {
	return &ShopHandler{uc: uc, cfg: cfg}
}

type SaveShopRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (h *ShopHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/shops", h.list)
	e.GET("/shops/:id", h.get)

	g := e.Group("/staff/shops")
	g.Use(middleware.AuthJWT(h.cfg))
	g.Use(middleware.StaffRoleGuard())
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.deactivate)
}

func (h *ShopHandler) list(c echo.Context) error {
	out, err := h.uc.ListShops(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShopHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetShop(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShopHandler) create(c echo.Context) error {
	var req SaveShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateShop(c.Request().Context(), usecase.SaveShopInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ShopHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaveShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.UpdateShop(c.Request().Context(), id, usecase.SaveShopInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "shop updated"})
}

func (h *ShopHandler) deactivate(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeactivateShop(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "shop deactivated"})
}
