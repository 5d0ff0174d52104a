package repository

import (
	"app/internal/domain/model"
	"context"
)

// 購入台帳の保存・取得を約束。行は追記専用でIsFulfilled以外更新しない。
type PurchaseRepository interface {
	//次の注文番号（max+1、台帳が空なら1）を払い出す。
	//同時チェックアウトが重複番号を取らないよう直列化する
	AllocateOrderNumber(ctx context.Context) (int64, error)

	//1回のチェックアウト分をまとめて追記
	CreateBulk(ctx context.Context, purchases []model.Purchase) error

	//ユーザーの購入行を注文番号の降順で返す
	ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error)
	ListByOrderNumber(ctx context.Context, orderNumber int64) ([]model.Purchase, error)

	//受け渡し済みフラグの更新
	SetFulfilled(ctx context.Context, orderNumber int64, productID int64, fulfilled bool) error

	//削除前の依存チェック
	ExistsByProductID(ctx context.Context, productID int64) (bool, error)
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)

	//admin専用の強制削除で使う
	DeleteByProductID(ctx context.Context, productID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
