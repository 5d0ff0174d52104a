package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth      *handler.AuthHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Shop      *handler.ShopHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	AdminUser *handler.AdminUserHandler
}

// New はechoを組み立てて返す。起動は呼び出し側。
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.GoEnv != "prod"

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	registerRoutes(e, h)

	return e
}
