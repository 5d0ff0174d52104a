package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	shops      repo.ShopRepository
	users      repo.UserRepository
	purchases  repo.PurchaseRepository
	inventory  repo.InventoryRepository
}

func (r *txReposGorm) Categories() repo.CategoryRepository { return r.categories }
func (r *txReposGorm) Products() repo.ProductRepository    { return r.products }
func (r *txReposGorm) Shops() repo.ShopRepository          { return r.shops }
func (r *txReposGorm) Users() repo.UserRepository          { return r.users }
func (r *txReposGorm) Purchases() repo.PurchaseRepository  { return r.purchases }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			categories: NewCategoryGormRepository(tx),
			products:   NewProductGormRepository(tx),
			shops:      NewShopGormRepository(tx),
			users:      NewUserGormRepository(tx),
			purchases:  NewPurchaseGormRepository(tx),
			inventory:  NewInventoryGormRepository(tx),
		}
		return fn(r)
	})
}
