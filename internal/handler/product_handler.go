package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 商品のHTTP。一覧と詳細は公開、変更はスタッフのみ。
type ProductHandler struct {
	uc  *usecase.ProductUsecase
	cfg config.Config
}

func NewProductHandler(uc *usecase.ProductUsecase, cfg config.Config) *ProductHandler {
	return &ProductHandler{uc: uc, cfg: cfg}
}

type SaveProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ItemNumber  string  `json:"item_number"`
	Price       float64 `json:"price"`
	Count       int64   `json:"count"`
	CategoryID  int64   `json:"category"`
	OnPromotion bool    `json:"on_promotion"`
}

type SetStockRequest struct {
	Count  int64  `json:"count"`
	Reason string `json:"reason"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.listPublic)
	e.GET("/products/:id", h.detail)

	g := e.Group("/staff/products")
	g.Use(middleware.AuthJWT(h.cfg))
	g.Use(middleware.StaffRoleGuard())
	g.GET("", h.listAll)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/image", h.updateImage)
	g.PUT("/:id/stock", h.setStock)

	//削除はadminのみ（?force=trueで履歴ごと消す）
	a := e.Group("/admin/products")
	a.Use(middleware.AuthJWT(h.cfg))
	a.Use(middleware.AdminRoleGuard())
	a.DELETE("/:id", h.delete)
}

func (h *ProductHandler) listPublic(c echo.Context) error {
	in, ok := parseListInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) listAll(c echo.Context) error {
	in, ok := parseListInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}

	out, err := h.uc.ListAllProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// page/limit/q/category/promotionのクエリをDTOへ。
// pageとlimitは未指定ならデフォルトを入れる。
func parseListInput(c echo.Context) (usecase.ListProductsInput, bool) {
	in := usecase.ListProductsInput{
		Page:       1,
		Limit:      20,
		Q:          c.QueryParam("q"),
		CategoryID: model.NoParent,
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.ListProductsInput{}, false
		}
		in.Page = page
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.ListProductsInput{}, false
		}
		in.Limit = limit
	}
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return usecase.ListProductsInput{}, false
		}
		in.CategoryID = id
	}
	if raw := c.QueryParam("promotion"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return usecase.ListProductsInput{}, false
		}
		in.Promotion = &b
	}

	return in, true
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), toSaveInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SaveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateProduct(c.Request().Context(), id, toSaveInput(req)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product updated"})
}

func (h *ProductHandler) updateImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	imageRef, err := h.uc.UpdateProductImage(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"image_ref": imageRef})
}

func (h *ProductHandler) setStock(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetStock(c.Request().Context(), userID, id, req.Count, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "stock updated"})
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	force := c.QueryParam("force") == "true"

	if err := h.uc.DeleteProduct(c.Request().Context(), id, force); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "product deleted"})
}

func toSaveInput(req SaveProductRequest) usecase.SaveProductInput {
	return usecase.SaveProductInput{
		Name:        req.Name,
		Description: req.Description,
		ItemNumber:  req.ItemNumber,
		Price:       req.Price,
		Count:       req.Count,
		CategoryID:  req.CategoryID,
		OnPromotion: req.OnPromotion,
	}
}
