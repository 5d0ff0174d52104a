package model

import "time"

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	DayBirth     time.Time  `gorm:"type:date" json:"day_birth"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"is_admin"`
	ResetToken   string     `gorm:"type:varchar(64);index" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
