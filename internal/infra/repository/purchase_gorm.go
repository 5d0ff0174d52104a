package repository

import (
	"context"
	"database/sql"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

// 注文番号払い出しを直列化するためのアドバイザリロックキー。
const orderNumberLockKey = 420061

type PurchaseGormRepository struct {
	db *gorm.DB
}

// DI
func NewPurchaseGormRepository(db *gorm.DB) *PurchaseGormRepository {
	return &PurchaseGormRepository{db: db}
}

// 次の注文番号を払い出す。台帳が空なら1、あればmax+1。
// pg_advisory_xact_lockでトランザクション終了まで他のチェックアウトを待たせるので、
// read-max-then-incrementでも番号は重複しない。
func (r *PurchaseGormRepository) AllocateOrderNumber(ctx context.Context) (int64, error) {
	if err := r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?)", orderNumberLockKey).Error; err != nil {
		return 0, err
	}

	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Select("MAX(order_number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}

	if !max.Valid {
		return 1, nil
	}
	return max.Int64 + 1, nil
}

// 1回のチェックアウト分をまとめて追記
func (r *PurchaseGormRepository) CreateBulk(ctx context.Context, purchases []model.Purchase) error {
	if len(purchases) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&purchases).Error
}

// ユーザーの購入行を注文番号の降順で返す
func (r *PurchaseGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error) {
	var purchases []model.Purchase

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_number desc").
		Order("id asc").
		Find(&purchases).Error; err != nil {
		return []model.Purchase{}, err
	}

	return purchases, nil
}

// 注文番号で購入行を取得
func (r *PurchaseGormRepository) ListByOrderNumber(ctx context.Context, orderNumber int64) ([]model.Purchase, error) {
	var purchases []model.Purchase

	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("id asc").
		Find(&purchases).Error; err != nil {
		return []model.Purchase{}, err
	}

	return purchases, nil
}

// 受け渡し済みフラグの更新
func (r *PurchaseGormRepository) SetFulfilled(ctx context.Context, orderNumber int64, productID int64, fulfilled bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("order_number = ? AND product_id = ?", orderNumber, productID).
		Update("is_fulfilled", fulfilled)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PurchaseGormRepository) ExistsByProductID(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PurchaseGormRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// admin専用の強制削除
func (r *PurchaseGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.Purchase{}).Error
}

func (r *PurchaseGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Purchase{}).Error
}
