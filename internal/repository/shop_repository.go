package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrShopNameTaken = errors.New("shop name already used")

// 店舗の保存・取得を約束。削除はis_active=falseへの更新。
type ShopRepository interface {
	ListActive(ctx context.Context) ([]model.Shop, error)
	FindByID(ctx context.Context, id int64) (model.Shop, error)

	Create(ctx context.Context, s model.Shop) (model.Shop, error)
	Update(ctx context.Context, s model.Shop) error
	Deactivate(ctx context.Context, id int64) error
}
