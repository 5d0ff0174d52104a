package model

// 受け取り店舗。削除は行削除ではなく is_active=false にする。
type Shop struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Location string `gorm:"type:varchar(255)" json:"location"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}
