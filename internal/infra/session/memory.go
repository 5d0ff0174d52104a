package session

import (
	"sync"

	"app/internal/domain/model"
)

// プロセス内メモリのカート置き場。単一プロセス運用向け。
// 再起動でカートは消える。
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[int64][]model.CartLine
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: map[int64][]model.CartLine{}}
}

// エントリの有無も返して「カート無し」と「空カート」を区別する
func (s *MemoryCartStore) Lines(userID int64) ([]model.CartLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.carts[userID]
	if !ok {
		return nil, false
	}

	//呼び出し側の書き換えから守るためコピーを返す
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out, true
}

func (s *MemoryCartStore) Put(userID int64, lines []model.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]model.CartLine, len(lines))
	copy(stored, lines)
	s.carts[userID] = stored
}

func (s *MemoryCartStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}
