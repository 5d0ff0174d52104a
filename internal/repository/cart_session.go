package repository

import "app/internal/domain/model"

// ユーザーIDをキーにしたカートの一時置き場。
// プロセス内メモリ実装を前提にした明示的なインターフェース。
// 行の組み替え（追加・併合・削除）はusecase側で行い、ここは置き換えるだけ。
type CartSessionStore interface {
	//2番目の戻り値はエントリ自体の有無。空カートと未作成を区別する
	Lines(userID int64) ([]model.CartLine, bool)
	Put(userID int64, lines []model.CartLine)
	Delete(userID int64)
}
