package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/session"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type OrderShopRepoMock struct{ mock.Mock }

func (m *OrderShopRepoMock) ListActive(ctx context.Context) ([]model.Shop, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderShopRepoMock) FindByID(ctx context.Context, id int64) (model.Shop, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *OrderShopRepoMock) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderShopRepoMock) Update(ctx context.Context, s model.Shop) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderShopRepoMock) Deactivate(ctx context.Context, id int64) error {
	panic("not used in OrderUsecase tests")
}

type OrderPurchaseRepoMock struct{ mock.Mock }

func (m *OrderPurchaseRepoMock) AllocateOrderNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderPurchaseRepoMock) CreateBulk(ctx context.Context, purchases []model.Purchase) error {
	args := m.Called(ctx, purchases)
	return args.Error(0)
}

func (m *OrderPurchaseRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Purchase)
	return items, args.Error(1)
}

func (m *OrderPurchaseRepoMock) ListByOrderNumber(ctx context.Context, orderNumber int64) ([]model.Purchase, error) {
	args := m.Called(ctx, orderNumber)
	items, _ := args.Get(0).([]model.Purchase)
	return items, args.Error(1)
}

func (m *OrderPurchaseRepoMock) SetFulfilled(ctx context.Context, orderNumber int64, productID int64, fulfilled bool) error {
	args := m.Called(ctx, orderNumber, productID, fulfilled)
	return args.Error(0)
}

func (m *OrderPurchaseRepoMock) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderPurchaseRepoMock) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrderPurchaseRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrderPurchaseRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	panic("not used in OrderUsecase tests")
}

// WithinTxを素通しするテスト用TxManager。
type OrderTxManagerFake struct {
	repos OrderTxReposFake
	// fnがエラーで抜けた回数
	rolledBack int
}

func (f *OrderTxManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := fn(&f.repos); err != nil {
		f.rolledBack++
		return err
	}
	return nil
}

type OrderTxReposFake struct {
	purchases repo.PurchaseRepository
}

func (f *OrderTxReposFake) Categories() repo.CategoryRepository { return nil }
func (f *OrderTxReposFake) Products() repo.ProductRepository    { return nil }
func (f *OrderTxReposFake) Shops() repo.ShopRepository          { return nil }
func (f *OrderTxReposFake) Users() repo.UserRepository          { return nil }
func (f *OrderTxReposFake) Purchases() repo.PurchaseRepository  { return f.purchases }
func (f *OrderTxReposFake) Inventory() repo.InventoryRepository { return nil }

func validPayment() usecase.PaymentInput {
	return usecase.PaymentInput{
		Name:         "TARO YAMADA",
		CardNumber:   "4111111111111111",
		ExpiryDate:   "12/30",
		SecurityCode: "123",
	}
}

// =====================
// Tests
// =====================

func TestCheckout_FirstOrderGetsNumberOne(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	store.Put(1, []model.CartLine{
		{LineNumber: 0, ProductID: 10, Name: "mouse", Price: 1000, Quantity: 2},
		{LineNumber: 1, ProductID: 11, Name: "keyboard", Price: 3000, Quantity: 1},
	})

	shopRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Shop{ID: 7, Name: "shibuya", IsActive: true}, nil)
	purchaseRepo.On("AllocateOrderNumber", mock.Anything).Return(int64(1), nil)

	var written []model.Purchase
	purchaseRepo.On("CreateBulk", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = args.Get(1).([]model.Purchase)
		}).
		Return(nil)

	out, err := uc.Checkout(context.Background(), 1, usecase.CheckoutInput{
		ShopID:  7,
		Payment: validPayment(),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.OrderNumber)
	assert.Equal(t, float64(5000), out.Total)

	//全明細が同じ注文番号・同じ店舗で台帳に載る
	assert.Len(t, written, 2)
	for _, p := range written {
		assert.Equal(t, int64(1), p.OrderNumber)
		assert.Equal(t, int64(7), p.ShopID)
		assert.Equal(t, int64(1), p.UserID)
		assert.False(t, p.IsFulfilled)
	}

	//コミット後にカートは消える
	_, exists := store.Lines(1)
	assert.False(t, exists)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	shopRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Shop{ID: 7, Name: "shibuya", IsActive: true}, nil)

	_, err := uc.Checkout(context.Background(), 1, usecase.CheckoutInput{
		ShopID:  7,
		Payment: validPayment(),
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	purchaseRepo.AssertNotCalled(t, "AllocateOrderNumber")
}

func TestCheckout_ClosedShopRejected(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	store.Put(1, []model.CartLine{
		{LineNumber: 0, ProductID: 10, Name: "mouse", Price: 1000, Quantity: 1},
	})
	shopRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Shop{ID: 7, Name: "shibuya", IsActive: false}, nil)

	_, err := uc.Checkout(context.Background(), 1, usecase.CheckoutInput{
		ShopID:  7,
		Payment: validPayment(),
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Contains(t, he.Message, "closed")

	//カートは残る
	_, exists := store.Lines(1)
	assert.True(t, exists)
}

func TestCheckout_PaymentFormRequired(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	payment := validPayment()
	payment.CardNumber = ""

	_, err := uc.Checkout(context.Background(), 1, usecase.CheckoutInput{
		ShopID:  7,
		Payment: payment,
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	shopRepo.AssertNotCalled(t, "FindByID")
}

func TestCheckout_AllocationFailureKeepsCart(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	store.Put(1, []model.CartLine{
		{LineNumber: 0, ProductID: 10, Name: "mouse", Price: 1000, Quantity: 1},
	})
	shopRepo.On("FindByID", mock.Anything, int64(7)).
		Return(model.Shop{ID: 7, Name: "shibuya", IsActive: true}, nil)
	purchaseRepo.On("AllocateOrderNumber", mock.Anything).
		Return(int64(0), assert.AnError)

	_, err := uc.Checkout(context.Background(), 1, usecase.CheckoutInput{
		ShopID:  7,
		Payment: validPayment(),
	})

	assert.Error(t, err)
	assert.Equal(t, 1, tx.rolledBack)

	//失敗時はカートを消さない
	_, exists := store.Lines(1)
	assert.True(t, exists)
}

func TestListOrders_GroupsByNumberDesc(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	//repoは注文番号の降順で返す
	purchaseRepo.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Purchase{
		{UserID: 1, ProductID: 10, OrderNumber: 3, ShopID: 7, Quantity: 2},
		{UserID: 1, ProductID: 11, OrderNumber: 3, ShopID: 7, Quantity: 1},
		{UserID: 1, ProductID: 10, OrderNumber: 1, ShopID: 8, Quantity: 1},
	}, nil)

	out, err := uc.ListOrders(context.Background(), 1, nil, 0)

	assert.NoError(t, err)
	assert.Len(t, out.Orders, 2)
	assert.Equal(t, int64(3), out.Orders[0].Number)
	assert.Len(t, out.Orders[0].Lines, 2)
	assert.Equal(t, int64(1), out.Orders[1].Number)
	assert.Equal(t, int64(8), out.Orders[1].ShopID)
}

func TestListOrders_NumberFilterHidesOthersOrders(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	//注文番号3は他人（user 99）のもの
	purchaseRepo.On("ListByOrderNumber", mock.Anything, int64(3)).Return([]model.Purchase{
		{UserID: 99, ProductID: 10, OrderNumber: 3, ShopID: 7, Quantity: 2},
	}, nil)

	number := int64(3)
	out, err := uc.ListOrders(context.Background(), 1, &number, 0)

	assert.NoError(t, err)
	assert.Empty(t, out.Orders)
}

func TestFindOrder_NotFound(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	purchaseRepo.On("ListByOrderNumber", mock.Anything, int64(42)).
		Return([]model.Purchase{}, nil)

	_, err := uc.FindOrder(context.Background(), 42)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestSetLineFulfilled_NotFound(t *testing.T) {
	store := session.NewMemoryCartStore()
	shopRepo := &OrderShopRepoMock{}
	purchaseRepo := &OrderPurchaseRepoMock{}
	tx := &OrderTxManagerFake{repos: OrderTxReposFake{purchases: purchaseRepo}}
	uc := usecase.NewOrderUsecase(tx, store, shopRepo, purchaseRepo)

	purchaseRepo.On("SetFulfilled", mock.Anything, int64(42), int64(10), true).
		Return(repo.ErrNotFound)

	err := uc.SetLineFulfilled(context.Background(), 42, 10, true)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}
