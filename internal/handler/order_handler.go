package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文のHTTP。チェックアウトと履歴はログイン必須、
// 注文検索と受け渡しはスタッフのみ。
type OrderHandler struct {
	uc  *usecase.OrderUsecase
	cfg config.Config
}

func NewOrderHandler(uc *usecase.OrderUsecase, cfg config.Config) *OrderHandler {
	return &OrderHandler{uc: uc, cfg: cfg}
}

type CheckoutRequest struct {
	ShopID  int64 `json:"shop_id"`
	Payment struct {
		Name         string `json:"name"`
		CardNumber   string `json:"card_number"`
		ExpiryDate   string `json:"expiry_date"`
		SecurityCode string `json:"security_code"`
	} `json:"payment"`
}

type SetFulfilledRequest struct {
	ProductID int64 `json:"product_id"`
	Fulfilled bool  `json:"fulfilled"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(h.cfg))
	g.POST("", h.checkout)
	g.GET("", h.listOrders)

	s := e.Group("/staff/orders")
	s.Use(middleware.AuthJWT(h.cfg))
	s.Use(middleware.StaffRoleGuard())
	s.GET("/:number", h.findOrder)
	s.PATCH("/:number/fulfilled", h.setFulfilled)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), userID, usecase.CheckoutInput{
		ShopID: req.ShopID,
		Payment: usecase.PaymentInput{
			Name:         req.Payment.Name,
			CardNumber:   req.Payment.CardNumber,
			ExpiryDate:   req.Payment.ExpiryDate,
			SecurityCode: req.Payment.SecurityCode,
		},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, ok := parsePageQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}

	//?number= で1件に絞り込める
	var numberFilter *int64
	if raw := c.QueryParam("number"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid number"})
		}
		numberFilter = &n
	}

	out, err := h.uc.ListOrders(c.Request().Context(), userID, numberFilter, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) findOrder(c echo.Context) error {
	number, err := parseIDParam(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order number"})
	}

	out, err := h.uc.FindOrder(c.Request().Context(), number)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) setFulfilled(c echo.Context) error {
	number, err := parseIDParam(c, "number")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order number"})
	}

	var req SetFulfilledRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetLineFulfilled(c.Request().Context(), number, req.ProductID, req.Fulfilled); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "fulfilled updated"})
}
