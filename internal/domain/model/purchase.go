package model

import "time"

// 購入台帳の1行。追記専用でIsFulfilled以外は書き換えない。
// 同じOrderNumberを持つ行の集合が1つの注文になる。
type Purchase struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	ProductID   int64     `gorm:"not null;index" json:"product_id"`
	OrderNumber int64     `gorm:"not null;index" json:"order_number"`
	ShopID      int64     `gorm:"not null" json:"shop_id"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	IsFulfilled bool      `gorm:"not null;default:false" json:"is_fulfilled"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
