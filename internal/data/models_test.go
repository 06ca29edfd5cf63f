package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haleyb/libcatalog/internal/validator"
)

func TestFiltersSortColumn(t *testing.T) {
	safeList := []string{"book_id", "title", "-book_id", "-title"}

	tests := []struct {
		name          string
		sort          string
		wantColumn    string
		wantDirection string
	}{
		{"plain column", "title", "title", "ASC"},
		{"descending column", "-title", "title", "DESC"},
		{"default column", "book_id", "book_id", "ASC"},
		{"unknown column falls back", "imprint", "book_id", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filters{Sort: tt.sort, SortSafeList: safeList}
			assert.Equal(t, tt.wantColumn, f.sortColumn())
			assert.Equal(t, tt.wantDirection, f.sortDirection())
		})
	}
}

func TestFiltersLimitOffset(t *testing.T) {
	f := Filters{Page: 3, PageSize: 10}
	assert.Equal(t, 10, f.limit())
	assert.Equal(t, 20, f.offset())

	first := Filters{Page: 1, PageSize: 50}
	assert.Equal(t, 0, first.offset())
}

func TestValidateFilters(t *testing.T) {
	valid := Filters{Page: 1, PageSize: 10, Sort: "book_id", SortSafeList: []string{"book_id"}}
	v := validator.New()
	ValidateFilters(v, valid)
	assert.True(t, v.Valid())

	bad := Filters{Page: 0, PageSize: 500, Sort: "drop table", SortSafeList: []string{"book_id"}}
	v = validator.New()
	ValidateFilters(v, bad)
	assert.Contains(t, v.Errors, "page")
	assert.Contains(t, v.Errors, "page_size")
	assert.Contains(t, v.Errors, "sort")
}

// Pagination arithmetic: 25 records at 10 per page is three pages, the
// last holding five.
func TestCalculateMetadata(t *testing.T) {
	meta := calculateMetadata(25, 1, 10)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.FirstPage)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 25, meta.TotalRecords)

	meta = calculateMetadata(25, 3, 10)
	assert.Equal(t, 3, meta.CurrentPage)
	assert.Equal(t, 3, meta.LastPage)

	// No records means empty metadata.
	assert.Equal(t, Metadata{}, calculateMetadata(0, 1, 10))
}
