package pagination

// ページ番号は0始まり。範囲外は空ページを返す。
func Paginate[T any](items []T, page int, size int) ([]T, int) {
	if size < 1 {
		return []T{}, 0
	}

	totalPages := (len(items) + size - 1) / size

	if page < 0 || page >= totalPages {
		return []T{}, totalPages
	}

	start := page * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], totalPages
}
