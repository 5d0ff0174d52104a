package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page        int
	Limit       int
	Q           string
	CategoryIDs []int64
	Promotion   *bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//公開（is_active=true）の商品一覧
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	//スタッフ用。非公開も含む一覧
	ListAll(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	UpdateImageRef(ctx context.Context, id int64, imageRef string) error
	Delete(ctx context.Context, id int64) error

	//カテゴリ削除前の依存チェックに使う
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
}
