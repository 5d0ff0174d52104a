package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/category"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CategoryUsecase はカテゴリ木のCRUDです。
// 木の読み取りはdomain/categoryの純粋関数に任せ、ここでは鮮度のため毎回取り直す。
type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository, productRepo repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

type CategoryView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Parent int64  `json:"parent"`
	//ルートからの「親 / 子」表記
	Label string `json:"label"`
}

type CreateCategoryInput struct {
	Name   string
	Parent int64
}

// 全カテゴリをラベル付きで返す。
func (u *CategoryUsecase) List(ctx context.Context) ([]CategoryView, error) {
	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, CategoryView{
			ID:     c.ID,
			Name:   c.Name,
			Parent: c.Parent,
			Label:  category.AncestryLabel(categories, c.ID),
		})
	}
	return views, nil
}

// 指定カテゴリの直下の子を返す。
func (u *CategoryUsecase) Children(ctx context.Context, id int64) ([]CategoryView, error) {
	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, ok := category.Find(categories, id); !ok {
		return nil, NewHTTPError(http.StatusNotFound, "category not found")
	}

	children := category.ChildrenOf(categories, id)
	views := make([]CategoryView, 0, len(children))
	for _, c := range children {
		views = append(views, CategoryView{
			ID:     c.ID,
			Name:   c.Name,
			Parent: c.Parent,
			Label:  category.AncestryLabel(categories, c.ID),
		})
	}
	return views, nil
}

// カテゴリの作成。
func (u *CategoryUsecase) Create(ctx context.Context, in CreateCategoryInput) (CategoryView, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CategoryView{}, NewHTTPError(http.StatusBadRequest, "name must not be empty")
	}

	//親は番兵値か既存カテゴリのみ
	if in.Parent != model.NoParent {
		if _, err := u.categoryRepo.FindByID(ctx, in.Parent); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return CategoryView{}, NewHTTPError(http.StatusBadRequest, "parent category does not exist")
			}
			return CategoryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{Name: name, Parent: in.Parent})
	if err != nil {
		if errors.Is(err, repo.ErrCategoryNameTaken) {
			return CategoryView{}, NewHTTPError(http.StatusConflict, "category name already used")
		}
		return CategoryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return CategoryView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CategoryView{
		ID:     created.ID,
		Name:   created.Name,
		Parent: created.Parent,
		Label:  category.AncestryLabel(categories, created.ID),
	}, nil
}

// 親の付け替え。閉路を作る更新はここで拒否する。
func (u *CategoryUsecase) UpdateParent(ctx context.Context, id int64, parent int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, ok := category.Find(categories, id); !ok {
		return NewHTTPError(http.StatusNotFound, "category not found")
	}

	if parent != model.NoParent {
		if _, ok := category.Find(categories, parent); !ok {
			return NewHTTPError(http.StatusBadRequest, "parent category does not exist")
		}
		if category.WouldCycle(categories, id, parent) {
			return NewHTTPError(http.StatusBadRequest, "parent chain would form a cycle")
		}
	}

	if err := u.categoryRepo.UpdateParent(ctx, id, parent); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// カテゴリ削除。子カテゴリか所属商品がある間は拒否する。
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if _, ok := category.Find(categories, id); !ok {
		return NewHTTPError(http.StatusNotFound, "category not found")
	}

	children := category.ChildrenOf(categories, id)
	if len(children) > 0 {
		names := make([]string, 0, len(children))
		for _, c := range children {
			names = append(names, c.Name)
		}
		return NewHTTPError(http.StatusConflict,
			fmt.Sprintf("delete blocked: subcategories exist (%s)", strings.Join(names, ", ")))
	}

	productCount, err := u.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if productCount > 0 {
		return NewHTTPError(http.StatusConflict,
			fmt.Sprintf("delete blocked: %d products reference this category", productCount))
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "category not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
