package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// カテゴリ名の重複を統一
var ErrCategoryNameTaken = errors.New("category name already used")

// カテゴリの保存・取得を約束。
// 木構造の解決はdomain/categoryの純粋関数が担当する。
type CategoryRepository interface {
	//全カテゴリをID順で返す
	ListAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	//親の付け替えのみ。閉路チェックはusecase側で行う
	UpdateParent(ctx context.Context, id int64, parent int64) error
	Delete(ctx context.Context, id int64) error
}
