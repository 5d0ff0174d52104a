package model

import "time"

// 商品。IsActiveは在庫数から導出する（count > 0）。
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ItemNumber  string    `gorm:"type:varchar(100)" json:"item_number"`
	Price       float64   `gorm:"not null" json:"price"`
	Count       int64     `gorm:"not null;default:0" json:"count"`
	IsActive    bool      `gorm:"not null;default:false" json:"is_active"`
	CategoryID  int64     `gorm:"not null;index" json:"category"`
	OnPromotion bool      `gorm:"not null;default:false" json:"on_promotion"`
	ImageRef    string    `gorm:"type:varchar(255)" json:"image_ref"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
