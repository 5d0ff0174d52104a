package pagination_test

import (
	"testing"

	"app/internal/pagination"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_FullAndPartialPages(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page0, total := pagination.Paginate(items, 0, 3)
	assert.Equal(t, []int{1, 2, 3}, page0)
	assert.Equal(t, 3, total)

	page2, total := pagination.Paginate(items, 2, 3)
	assert.Equal(t, []int{7}, page2)
	assert.Equal(t, 3, total)
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := []int{1, 2, 3}

	out, total := pagination.Paginate(items, 5, 2)
	assert.Empty(t, out)
	assert.Equal(t, 2, total)

	out, total = pagination.Paginate(items, -1, 2)
	assert.Empty(t, out)
	assert.Equal(t, 2, total)
}

func TestPaginate_EmptyInput(t *testing.T) {
	out, total := pagination.Paginate([]int{}, 0, 4)
	assert.Empty(t, out)
	assert.Equal(t, 0, total)
}

func TestPaginate_InvalidSize(t *testing.T) {
	out, total := pagination.Paginate([]int{1, 2}, 0, 0)
	assert.Empty(t, out)
	assert.Equal(t, 0, total)
}
