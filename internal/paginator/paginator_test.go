package paginator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rowsOf(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		requested    int
		wantNumber   int
		wantCount    int
		wantItems    []int
		wantControls bool
	}{
		{name: "clamped to last page", total: 25, requested: 5, wantNumber: 3, wantCount: 3, wantItems: rowsOf(25)[20:25], wantControls: true},
		{name: "middle page", total: 25, requested: 2, wantNumber: 2, wantCount: 3, wantItems: rowsOf(25)[10:20], wantControls: true},
		{name: "clamped to first page", total: 25, requested: -1, wantNumber: 1, wantCount: 3, wantItems: rowsOf(25)[0:10], wantControls: true},
		{name: "exactly one page has no controls", total: 10, requested: 1, wantNumber: 1, wantCount: 1, wantItems: rowsOf(10), wantControls: false},
		{name: "one extra row shows controls", total: 11, requested: 2, wantNumber: 2, wantCount: 2, wantItems: []int{10}, wantControls: true},
		{name: "empty", total: 0, requested: 3, wantNumber: 1, wantCount: 1, wantItems: []int{}, wantControls: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(rowsOf(tt.total), DefaultPageSize, tt.requested)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantCount, page.Count)
			assert.Equal(t, tt.wantItems, page.Items)
			assert.Equal(t, tt.wantControls, page.Controls)
		})
	}
}

func TestPaginateNonPositivePageSize(t *testing.T) {
	page := Paginate(rowsOf(3), 0, 2)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, []int{1}, page.Items)
}

func TestNextPrev(t *testing.T) {
	assert.Equal(t, 2, Next(1, 3))
	assert.Equal(t, 3, Next(3, 3))
	assert.Equal(t, 1, Next(1, 1))

	assert.Equal(t, 2, Prev(3))
	assert.Equal(t, 1, Prev(1))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 3, PageCount(25, 10))
}
