package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ShopGormRepository struct {
	db *gorm.DB
}

// DI
func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

// 営業中の店舗一覧
func (r *ShopGormRepository) ListActive(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop

	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id asc").
		Find(&shops).Error; err != nil {
		return []model.Shop{}, err
	}

	return shops, nil
}

// IDで店舗を取得
func (r *ShopGormRepository) FindByID(ctx context.Context, id int64) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).First(&s, id).Error
	if isNotFound(err) {
		return model.Shop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Shop{}, err
	}
	return s, nil
}

// 店舗の作成。名前重複はErrShopNameTaken
func (r *ShopGormRepository) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Shop{}, repo.ErrShopNameTaken
		}
		return model.Shop{}, err
	}
	return s, nil
}

// 店舗の更新
func (r *ShopGormRepository) Update(ctx context.Context, s model.Shop) error {
	res := r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
		"name":     s.Name,
		"location": s.Location,
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return repo.ErrShopNameTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 行は消さずis_active=falseにする
func (r *ShopGormRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", id).
		Update("is_active", false)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
