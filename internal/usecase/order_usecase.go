package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	"app/internal/pagination"
	repo "app/internal/repository"
)

// 注文履歴の1ページあたりの件数。
const ordersPageSize = 4

// OrderUsecase はチェックアウトと注文履歴です。
// 注文番号の払い出しと台帳への追記は1トランザクションで行う。
type OrderUsecase struct {
	tx           repo.TransactionManager
	cartStore    repo.CartSessionStore
	shopRepo     repo.ShopRepository
	purchaseRepo repo.PurchaseRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	cartStore repo.CartSessionStore,
	shopRepo repo.ShopRepository,
	purchaseRepo repo.PurchaseRepository,
) *OrderUsecase {
	return &OrderUsecase{
		tx:           tx,
		cartStore:    cartStore,
		shopRepo:     shopRepo,
		purchaseRepo: purchaseRepo,
	}
}

// 決済フォーム。形だけ検証して決済はしない。
type PaymentInput struct {
	Name         string
	CardNumber   string
	ExpiryDate   string
	SecurityCode string
}

type CheckoutInput struct {
	ShopID  int64
	Payment PaymentInput
}

type CheckoutOutput struct {
	OrderNumber int64   `json:"order_number"`
	Total       float64 `json:"total"`
	Message     string  `json:"message"`
}

type OrderLineView struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Fulfilled bool  `json:"fulfilled"`
}

type OrderView struct {
	Number int64           `json:"number"`
	ShopID int64           `json:"shop_id"`
	UserID int64           `json:"user_id"`
	Lines  []OrderLineView `json:"lines"`
}

type OrdersPage struct {
	Orders     []OrderView `json:"orders"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

// Checkout はカートの全明細を1つの注文番号で台帳に書き、カートを空にする。
// 在庫はカート追加時に引き当て済みなのでここでは触らない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ShopID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "choose a shop")
	}
	if err := validatePayment(in.Payment); err != nil {
		return CheckoutOutput{}, err
	}

	//店舗の存在と営業中チェック
	shop, err := u.shopRepo.FindByID(ctx, in.ShopID)
	if errors.Is(err, repo.ErrNotFound) {
		return CheckoutOutput{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !shop.IsActive {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "shop is closed")
	}

	lines, ok := u.cartStore.Lines(userID)
	if !ok || len(lines) == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	var out CheckoutOutput

	//番号払い出しと明細の追記は全てコミットか全て破棄
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderNumber, err := r.Purchases().AllocateOrderNumber(ctx)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		purchases := make([]model.Purchase, 0, len(lines))
		var total float64 = 0
		for _, line := range lines {
			purchases = append(purchases, model.Purchase{
				UserID:      userID,
				ProductID:   line.ProductID,
				OrderNumber: orderNumber,
				ShopID:      in.ShopID,
				Quantity:    line.Quantity,
				IsFulfilled: false,
			})
			total += line.Price * float64(line.Quantity)
		}

		if err := r.Purchases().CreateBulk(ctx, purchases); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = CheckoutOutput{
			OrderNumber: orderNumber,
			Total:       total,
			Message:     fmt.Sprintf("thank you for your purchase. order number: %d", orderNumber),
		}
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	//コミット後にだけカートを消す
	u.cartStore.Delete(userID)
	return out, nil
}

// ListOrders はユーザーの注文を番号の降順で返す。numberFilterで1件に絞れる。
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64, numberFilter *int64, page int) (OrdersPage, error) {
	if userID <= 0 {
		return OrdersPage{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var purchases []model.Purchase
	var err error

	if numberFilter != nil {
		purchases, err = u.purchaseRepo.ListByOrderNumber(ctx, *numberFilter)
		if err != nil {
			return OrdersPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他人の注文は見せない
		if len(purchases) > 0 && purchases[0].UserID != userID {
			purchases = []model.Purchase{}
		}
	} else {
		purchases, err = u.purchaseRepo.ListByUserID(ctx, userID)
		if err != nil {
			return OrdersPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	orders := groupOrders(purchases)
	paged, totalPages := pagination.Paginate(orders, page, ordersPageSize)

	return OrdersPage{Orders: paged, Page: page, TotalPages: totalPages}, nil
}

// FindOrder はスタッフ用の注文検索。
func (u *OrderUsecase) FindOrder(ctx context.Context, orderNumber int64) (OrderView, error) {
	if orderNumber <= 0 {
		return OrderView{}, NewHTTPError(http.StatusBadRequest, "invalid order number")
	}

	purchases, err := u.purchaseRepo.ListByOrderNumber(ctx, orderNumber)
	if err != nil {
		return OrderView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(purchases) == 0 {
		return OrderView{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	return groupOrders(purchases)[0], nil
}

// SetLineFulfilled は受け渡し済みフラグの更新（スタッフ操作）。
func (u *OrderUsecase) SetLineFulfilled(ctx context.Context, orderNumber int64, productID int64, fulfilled bool) error {
	if orderNumber <= 0 || productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.purchaseRepo.SetFulfilled(ctx, orderNumber, productID, fulfilled)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order line not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 台帳の行を注文番号ごとにまとめる。入力順（番号降順）を保つ。
func groupOrders(purchases []model.Purchase) []OrderView {
	orders := []OrderView{}
	index := map[int64]int{}

	for _, p := range purchases {
		i, seen := index[p.OrderNumber]
		if !seen {
			orders = append(orders, OrderView{
				Number: p.OrderNumber,
				ShopID: p.ShopID,
				UserID: p.UserID,
				Lines:  []OrderLineView{},
			})
			i = len(orders) - 1
			index[p.OrderNumber] = i
		}
		orders[i].Lines = append(orders[i].Lines, OrderLineView{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Fulfilled: p.IsFulfilled,
		})
	}
	return orders
}

func validatePayment(p PaymentInput) error {
	if strings.TrimSpace(p.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "cardholder name is required")
	}
	if strings.TrimSpace(p.CardNumber) == "" {
		return NewHTTPError(http.StatusBadRequest, "card number is required")
	}
	if strings.TrimSpace(p.ExpiryDate) == "" {
		return NewHTTPError(http.StatusBadRequest, "expiry date is required")
	}
	if strings.TrimSpace(p.SecurityCode) == "" {
		return NewHTTPError(http.StatusBadRequest, "security code is required")
	}
	return nil
}
