package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) ListAll(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) UpdateImageRef(ctx context.Context, id int64, imageRef string) error {
	args := m.Called(ctx, id, imageRef)
	return args.Error(0)
}

func (m *ProdProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProdProductRepoMock) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	panic("not used in ProductUsecase tests")
}

type ProdCategoryRepoMock struct{ mock.Mock }

func (m *ProdCategoryRepoMock) ListAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

func (m *ProdCategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *ProdCategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdCategoryRepoMock) UpdateParent(ctx context.Context, id int64, parent int64) error {
	panic("not used in ProductUsecase tests")
}

func (m *ProdCategoryRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in ProductUsecase tests")
}

type ProdPurchaseRepoMock struct{ mock.Mock }

func (m *ProdPurchaseRepoMock) AllocateOrderNumber(ctx context.Context) (int64, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdPurchaseRepoMock) CreateBulk(ctx context.Context, purchases []model.Purchase) error {
	panic("not used in ProductUsecase tests")
}

func (m *ProdPurchaseRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdPurchaseRepoMock) ListByOrderNumber(ctx context.Context, orderNumber int64) ([]model.Purchase, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdPurchaseRepoMock) SetFulfilled(ctx context.Context, orderNumber int64, productID int64, fulfilled bool) error {
	panic("not used in ProductUsecase tests")
}

func (m *ProdPurchaseRepoMock) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *ProdPurchaseRepoMock) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdPurchaseRepoMock) DeleteByProductID(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *ProdPurchaseRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	panic("not used in ProductUsecase tests")
}

type ProdInventoryRepoMock struct{ mock.Mock }

func (m *ProdInventoryRepoMock) DecreaseCountIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	panic("not used in ProductUsecase tests")
}

func (m *ProdInventoryRepoMock) IncreaseCount(ctx context.Context, productID int64, qty int64) error {
	panic("not used in ProductUsecase tests")
}

func (m *ProdInventoryRepoMock) SetCount(ctx context.Context, productID int64, newCount int64) error {
	args := m.Called(ctx, productID, newCount)
	return args.Error(0)
}

func (m *ProdInventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type ProdTxManagerFake struct {
	repos ProdTxReposFake
}

func (f *ProdTxManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&f.repos)
}

type ProdTxReposFake struct {
	products  repo.ProductRepository
	purchases repo.PurchaseRepository
	inventory repo.InventoryRepository
}

func (f *ProdTxReposFake) Categories() repo.CategoryRepository { return nil }
func (f *ProdTxReposFake) Products() repo.ProductRepository    { return f.products }
func (f *ProdTxReposFake) Shops() repo.ShopRepository          { return nil }
func (f *ProdTxReposFake) Users() repo.UserRepository          { return nil }
func (f *ProdTxReposFake) Purchases() repo.PurchaseRepository  { return f.purchases }
func (f *ProdTxReposFake) Inventory() repo.InventoryRepository { return f.inventory }

type ProdIDGenStub struct{ id string }

func (g *ProdIDGenStub) NewID() string { return g.id }

func newProductUsecaseForTest(
	productRepo *ProdProductRepoMock,
	categoryRepo *ProdCategoryRepoMock,
	purchaseRepo *ProdPurchaseRepoMock,
	inventoryRepo *ProdInventoryRepoMock,
	idGen usecase.IDGenerator,
) *usecase.ProductUsecase {
	tx := &ProdTxManagerFake{repos: ProdTxReposFake{
		products:  productRepo,
		purchases: purchaseRepo,
		inventory: inventoryRepo,
	}}
	return usecase.NewProductUsecase(productRepo, categoryRepo, tx, idGen)
}

// =====================
// Tests
// =====================

func TestListPublicProducts_CategoryFilterUsesSubtree(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, &ProdInventoryRepoMock{}, &ProdIDGenStub{})

	categoryRepo.On("ListAll", mock.Anything).Return(sampleTree(), nil)

	var captured repo.ProductListQuery
	productRepo.On("ListPublic", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repo.ProductListQuery)
		}).
		Return([]model.Product{}, int64(0), nil)

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, CategoryID: 1,
	})

	assert.NoError(t, err)
	//Electronics配下のPhones・Androidも対象に入る
	assert.ElementsMatch(t, []int64{1, 2, 3}, captured.CategoryIDs)
}

func TestListPublicProducts_UnknownCategory(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, &ProdInventoryRepoMock{}, &ProdIDGenStub{})

	categoryRepo.On("ListAll", mock.Anything).Return(sampleTree(), nil)

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{
		Page: 1, Limit: 20, CategoryID: 99,
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	productRepo.AssertNotCalled(t, "ListPublic")
}

func TestGetProductDetail_IncludesCategoryLabel(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, &ProdInventoryRepoMock{}, &ProdIDGenStub{})

	productRepo.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Name: "pixel", CategoryID: 3}, nil)
	categoryRepo.On("ListAll", mock.Anything).Return(sampleTree(), nil)

	out, err := uc.GetProductDetail(context.Background(), 10)

	assert.NoError(t, err)
	assert.Equal(t, "Electronics / Phones / Android", out.CategoryLabel)
}

func TestCreateProduct_CategoryMustExist(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, &ProdInventoryRepoMock{}, &ProdIDGenStub{})

	categoryRepo.On("FindByID", mock.Anything, int64(99)).
		Return(model.Category{}, repo.ErrNotFound)

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name: "pixel", Price: 50000, Count: 3, CategoryID: 99,
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	productRepo.AssertNotCalled(t, "Create")
}

func TestUpdateProductImage_IssuesNewRef(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, &ProdInventoryRepoMock{}, &ProdIDGenStub{id: "abc-123"})

	productRepo.On("UpdateImageRef", mock.Anything, int64(10), "abc-123.png").Return(nil)

	imageRef, err := uc.UpdateProductImage(context.Background(), 10)

	assert.NoError(t, err)
	assert.Equal(t, "abc-123.png", imageRef)
	productRepo.AssertExpectations(t)
}

func TestDeleteProduct_BlockedByPurchases(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	purchaseRepo := &ProdPurchaseRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, purchaseRepo, &ProdInventoryRepoMock{}, &ProdIDGenStub{})

	productRepo.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Name: "pixel"}, nil)
	purchaseRepo.On("ExistsByProductID", mock.Anything, int64(10)).Return(true, nil)

	err := uc.DeleteProduct(context.Background(), 10, false)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	productRepo.AssertNotCalled(t, "Delete")
}

func TestDeleteProduct_ForceRemovesLedgerRows(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	purchaseRepo := &ProdPurchaseRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, purchaseRepo, &ProdInventoryRepoMock{}, &ProdIDGenStub{})

	productRepo.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Name: "pixel"}, nil)
	purchaseRepo.On("ExistsByProductID", mock.Anything, int64(10)).Return(true, nil)
	purchaseRepo.On("DeleteByProductID", mock.Anything, int64(10)).Return(nil)
	productRepo.On("Delete", mock.Anything, int64(10)).Return(nil)

	err := uc.DeleteProduct(context.Background(), 10, true)

	assert.NoError(t, err)
	purchaseRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestSetStock_RecordsAdjustmentDelta(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	inventoryRepo := &ProdInventoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, inventoryRepo, &ProdIDGenStub{})

	productRepo.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Name: "pixel", Count: 3}, nil)
	inventoryRepo.On("SetCount", mock.Anything, int64(10), int64(8)).Return(nil)

	var adj model.InventoryAdjustment
	inventoryRepo.On("CreateAdjustment", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			adj = args.Get(1).(model.InventoryAdjustment)
		}).
		Return(nil)

	err := uc.SetStock(context.Background(), 5, 10, 8, "restock")

	assert.NoError(t, err)
	assert.Equal(t, int64(5), adj.StaffUserID)
	assert.Equal(t, int64(5), adj.Delta)
	assert.Equal(t, "restock", adj.Reason)
	inventoryRepo.AssertExpectations(t)
}

func TestSetStock_NegativeCountRejected(t *testing.T) {
	productRepo := &ProdProductRepoMock{}
	categoryRepo := &ProdCategoryRepoMock{}
	inventoryRepo := &ProdInventoryRepoMock{}
	uc := newProductUsecaseForTest(productRepo, categoryRepo, &ProdPurchaseRepoMock{}, inventoryRepo, &ProdIDGenStub{})

	err := uc.SetStock(context.Background(), 5, 10, -1, "oops")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}
