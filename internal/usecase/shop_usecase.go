package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ShopUsecase struct {
	shopRepo repo.ShopRepository
}

func NewShopUsecase(shopRepo repo.ShopRepository) *ShopUsecase {
	return &ShopUsecase{shopRepo: shopRepo}
}

type SaveShopInput struct {
	Name     string
	Location string
}

// 営業中の店舗一覧。
func (u *ShopUsecase) ListShops(ctx context.Context) ([]model.Shop, error) {
	shops, err := u.shopRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return shops, nil
}

func (u *ShopUsecase) GetShop(ctx context.Context, shopID int64) (model.Shop, error) {
	if shopID <= 0 {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "invalid shop id")
	}

	s, err := u.shopRepo.FindByID(ctx, shopID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

// 店舗の作成（スタッフ操作）。
func (u *ShopUsecase) CreateShop(ctx context.Context, in SaveShopInput) (model.Shop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "name must not be empty")
	}

	created, err := u.shopRepo.Create(ctx, model.Shop{
		Name:     name,
		Location: in.Location,
		IsActive: true,
	})
	if errors.Is(err, repo.ErrShopNameTaken) {
		return model.Shop{}, NewHTTPError(http.StatusConflict, "shop name already used")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ShopUsecase) UpdateShop(ctx context.Context, shopID int64, in SaveShopInput) error {
	if shopID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid shop id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return NewHTTPError(http.StatusBadRequest, "name must not be empty")
	}

	err := u.shopRepo.Update(ctx, model.Shop{
		ID:       shopID,
		Name:     name,
		Location: in.Location,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if errors.Is(err, repo.ErrShopNameTaken) {
		return NewHTTPError(http.StatusConflict, "shop name already used")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 行は消さず非稼働にするだけ。購入台帳からの参照は残る。
func (u *ShopUsecase) DeactivateShop(ctx context.Context, shopID int64) error {
	if shopID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid shop id")
	}

	err := u.shopRepo.Deactivate(ctx, shopID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
