package model

// 親カテゴリ無しを表す番兵値。
const NoParent int64 = -1

// 商品カテゴリ。Parentで自己参照の木構造を作る。
type Category struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Parent int64  `gorm:"not null;default:-1;index" json:"parent"`
}

// ルートカテゴリかどうか。
func (c Category) IsRoot() bool {
	return c.Parent == NoParent
}
