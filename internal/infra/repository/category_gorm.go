package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// 全カテゴリをID順で返す
func (r *CategoryGormRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&categories).Error; err != nil {
		return []model.Category{}, err
	}

	return categories, nil
}

// IDでカテゴリを取得
func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if isNotFound(err) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// カテゴリの作成。名前重複はErrCategoryNameTaken
func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return model.Category{}, repo.ErrCategoryNameTaken
		}
		return model.Category{}, err
	}
	return c, nil
}

// 親の付け替え
func (r *CategoryGormRepository) UpdateParent(ctx context.Context, id int64, parent int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		Update("parent", parent)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カテゴリ削除。依存チェックはusecase側で済ませてから呼ぶ
func (r *CategoryGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
