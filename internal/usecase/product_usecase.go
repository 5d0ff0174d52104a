package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/category"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 画像参照などの識別子生成。
type IDGenerator interface {
	NewID() string
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	tx           repo.TransactionManager
	idGen        IDGenerator
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	tx repo.TransactionManager,
	idGen IDGenerator,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tx:           tx,
		idGen:        idGen,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page  int
	Limit int
	Q     string
	//-1で絞り込みなし。指定時は部分木ごと対象にする
	CategoryID int64
	Promotion  *bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProductDetailOutput struct {
	Product model.Product `json:"product"`
	//カテゴリのルートからの表記
	CategoryLabel string `json:"category_label"`
}

type SaveProductInput struct {
	Name        string
	Description string
	ItemNumber  string
	Price       float64
	Count       int64
	CategoryID  int64
	OnPromotion bool
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	q, err := u.buildListQuery(ctx, in)
	if err != nil {
		return ProductListOutput{}, err
	}

	items, total, err := u.productRepo.ListPublic(ctx, q)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// スタッフ用。在庫切れ（非公開）も含む。
func (u *ProductUsecase) ListAllProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	q, err := u.buildListQuery(ctx, in)
	if err != nil {
		return ProductListOutput{}, err
	}

	items, total, err := u.productRepo.ListAll(ctx, q)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *ProductUsecase) buildListQuery(ctx context.Context, in ListProductsInput) (repo.ProductListQuery, error) {
	if in.Page < 1 {
		return repo.ProductListQuery{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return repo.ProductListQuery{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return repo.ProductListQuery{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	q := repo.ProductListQuery{
		Page:      in.Page,
		Limit:     in.Limit,
		Q:         strings.TrimSpace(in.Q),
		Promotion: in.Promotion,
	}

	//カテゴリ指定時は部分木全体を対象にする
	if in.CategoryID != model.NoParent {
		categories, err := u.categoryRepo.ListAll(ctx)
		if err != nil {
			return repo.ProductListQuery{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if _, ok := category.Find(categories, in.CategoryID); !ok {
			return repo.ProductListQuery{}, NewHTTPError(http.StatusBadRequest, "category does not exist")
		}
		q.CategoryIDs = category.SubtreeIDs(categories, in.CategoryID)
	}

	return q, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductDetailOutput{
		Product:       p,
		CategoryLabel: category.AncestryLabel(categories, p.CategoryID),
	}, nil
}

// 商品の作成（スタッフ操作）。
func (u *ProductUsecase) CreateProduct(ctx context.Context, in SaveProductInput) (model.Product, error) {
	if err := u.validateSaveInput(ctx, in); err != nil {
		return model.Product{}, err
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ItemNumber:  in.ItemNumber,
		Price:       in.Price,
		Count:       in.Count,
		CategoryID:  in.CategoryID,
		OnPromotion: in.OnPromotion,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// 商品の更新（スタッフ操作）。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in SaveProductInput) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := u.validateSaveInput(ctx, in); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ItemNumber:  in.ItemNumber,
		Price:       in.Price,
		Count:       in.Count,
		CategoryID:  in.CategoryID,
		OnPromotion: in.OnPromotion,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) validateSaveInput(ctx context.Context, in SaveProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name must not be empty")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Count < 0 {
		return NewHTTPError(http.StatusBadRequest, "count must be >= 0")
	}

	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "category does not exist")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 商品画像の差し替え。リサイズ等は外部の仕事で、ここでは参照名の発行だけ。
func (u *ProductUsecase) UpdateProductImage(ctx context.Context, productID int64) (string, error) {
	if productID <= 0 {
		return "", NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	imageRef := u.idGen.NewID() + ".png"

	err := u.productRepo.UpdateImageRef(ctx, productID, imageRef)
	if errors.Is(err, repo.ErrNotFound) {
		return "", NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return imageRef, nil
}

// 商品削除。購入履歴があれば拒否し、adminのforce指定時だけ履歴ごと消す。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64, force bool) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		used, err := r.Purchases().ExistsByProductID(ctx, productID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if used && !force {
			return NewHTTPError(http.StatusConflict, "delete blocked: purchases reference this product")
		}
		if used {
			if err := r.Purchases().DeleteByProductID(ctx, productID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Products().Delete(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 在庫の直接設定（スタッフ操作）。調整履歴も同じTxで残す。
func (u *ProductUsecase) SetStock(ctx context.Context, staffUserID int64, productID int64, newCount int64, reason string) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newCount < 0 {
		return NewHTTPError(http.StatusBadRequest, "count must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason must not be empty")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().SetCount(ctx, productID, newCount); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		adj := model.InventoryAdjustment{
			ProductID:   productID,
			StaffUserID: staffUserID,
			Delta:       newCount - p.Count,
			Reason:      strings.TrimSpace(reason),
		}
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
