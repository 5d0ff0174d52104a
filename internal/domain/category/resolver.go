package category

import "app/internal/domain/model"

// カテゴリ木の読み取り専用ヘルパー。
// 引数のスナップショットに対する純粋関数で、鮮度は呼び出し側の責任。

// 指定IDを親に持つカテゴリを入力順のまま返す。
func ChildrenOf(categories []model.Category, id int64) []model.Category {
	result := []model.Category{}
	for _, c := range categories {
		if c.Parent == id {
			result = append(result, c)
		}
	}
	return result
}

// IDで最初に一致したカテゴリを返す。
func Find(categories []model.Category, id int64) (model.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// 親子関係を「親 / 子」の形で連結した文字列を返す。
// 番兵値や未知のIDは空文字。再帰の深さは木の深さまで。
func AncestryLabel(categories []model.Category, id int64) string {
	if id == model.NoParent {
		return ""
	}
	for _, c := range categories {
		if c.ID == id {
			if c.IsRoot() {
				return c.Name
			}
			return AncestryLabel(categories, c.Parent) + " / " + c.Name
		}
	}
	return ""
}

// 指定カテゴリ自身と子孫全てのIDを返す。商品一覧のカテゴリ絞り込みで使う。
func SubtreeIDs(categories []model.Category, id int64) []int64 {
	ids := []int64{id}
	for _, child := range ChildrenOf(categories, id) {
		ids = append(ids, SubtreeIDs(categories, child.ID)...)
	}
	return ids
}

// newParentを設定するとidを通る閉路ができるかどうか。
// 親の付け替え時に呼んで、閉路になる更新を拒否する。
func WouldCycle(categories []model.Category, id int64, newParent int64) bool {
	cur := newParent
	for cur != model.NoParent {
		if cur == id {
			return true
		}
		c, ok := Find(categories, cur)
		if !ok {
			return false
		}
		cur = c.Parent
	}
	return false
}
