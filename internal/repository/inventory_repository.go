package repository

import (
	"app/internal/domain/model"
	"context"
)

// 在庫カウンタの更新。is_activeは常に count > 0 から再計算する。
type InventoryRepository interface {
	// 在庫が足りるときだけ減算。足りなければfalseで在庫は変わらない
	DecreaseCountIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（カートからの削除など）
	IncreaseCount(ctx context.Context, productID int64, qty int64) error

	// スタッフによる在庫の直接設定
	SetCount(ctx context.Context, productID int64, newCount int64) error

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
