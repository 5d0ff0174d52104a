package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, h Handlers) {
	//死活監視用
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e)
	h.Category.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Shop.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.AdminUser.RegisterRoutes(e)
}
