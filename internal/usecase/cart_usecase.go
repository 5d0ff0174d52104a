package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細はセッションストアに置き、在庫は追加時に引き当て・削除時に戻す。
// 在庫チェックと減算はrepo側の条件付きUPDATEで1文にまとめている（check-then-commit）。
type CartUsecase struct {
	cartStore     repo.CartSessionStore
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
}

func NewCartUsecase(
	cartStore repo.CartSessionStore,
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
) *CartUsecase {
	return &CartUsecase{
		cartStore:     cartStore,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
	}
}

type CartResponse struct {
	Items []model.CartLine `json:"items"`
	Total float64          `json:"total"`
	//カート未作成（空カートとは区別する）
	Empty bool `json:"empty"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得。エントリが無ければ空のまま返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, ok := u.cartStore.Lines(userID)
	if !ok {
		return CartResponse{Items: []model.CartLine{}, Empty: true}, nil
	}

	return buildCartResponse(lines), nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 在庫が足りなければ何も変えずに現在数を添えて返す。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if p.Count-in.Quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("insufficient stock: %d available", p.Count))
	}

	//チェックと減算を1文で。0行更新なら他のリクエストに先を越されている
	ok, err := u.inventoryRepo.DecreaseCountIfEnough(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		current, err := u.productRepo.FindByID(ctx, in.ProductID)
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return CartResponse{}, NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("insufficient stock: %d available", current.Count))
	}

	lines, _ := u.cartStore.Lines(userID)

	merged := false
	for i := range lines {
		if lines[i].ProductID == in.ProductID {
			lines[i].Quantity += in.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, model.CartLine{
			LineNumber: int64(len(lines)),
			ProductID:  p.ID,
			Name:       p.Name,
			Price:      p.Price,
			Quantity:   in.Quantity,
		})
	}

	u.cartStore.Put(userID, lines)
	return buildCartResponse(lines), nil
}

// RemoveLine は明細を外して在庫を戻す。最後の明細ならエントリごと消す。
func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, lineNumber int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, ok := u.cartStore.Lines(userID)
	if !ok {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart is empty")
	}

	index := -1
	for i := range lines {
		if lines[i].LineNumber == lineNumber {
			index = i
			break
		}
	}
	if index < 0 {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "cart line not found")
	}

	removed := lines[index]

	//在庫戻し。is_activeもrepo側でtrueに戻る
	if err := u.inventoryRepo.IncreaseCount(ctx, removed.ProductID, removed.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines = append(lines[:index], lines[index+1:]...)

	if len(lines) == 0 {
		u.cartStore.Delete(userID)
		return CartResponse{Items: []model.CartLine{}, Empty: true}, nil
	}

	u.cartStore.Put(userID, lines)
	return buildCartResponse(lines), nil
}

func buildCartResponse(lines []model.CartLine) CartResponse {
	var total float64 = 0
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return CartResponse{Items: lines, Total: total}
}
