package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, PerPage: 12}},
		{"explicit", "?page=2&per_page=6", Params{Page: 2, PerPage: 6}},
		{"negative page ignored", "?page=-1", Params{Page: 1, PerPage: 12}},
		{"zero per page ignored", "?per_page=0", Params{Page: 1, PerPage: 12}},
		{"per page over max ignored", "?per_page=500", Params{Page: 1, PerPage: 12}},
		{"garbage ignored", "?page=abc&per_page=x", Params{Page: 1, PerPage: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PerPage: 12}.Offset())
	assert.Equal(t, 24, Params{Page: 3, PerPage: 12}.Offset())
}

func TestNewResult(t *testing.T) {
	res := NewResult([]int{1, 2}, 25, Params{Page: 1, PerPage: 10})
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.False(t, res.HasPrev)

	res = NewResult([]int{1}, 21, Params{Page: 3, PerPage: 10})
	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResult_NilDataBecomesEmpty(t *testing.T) {
	res := NewResult[string](nil, 0, DefaultParams())
	assert.NotNil(t, res.Data)
	assert.Equal(t, 0, res.TotalPages)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	first := Paginate(items, Params{Page: 1, PerPage: 5})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, first.Data)
	assert.Equal(t, 12, first.TotalCount)
	assert.Equal(t, 3, first.TotalPages)

	last := Paginate(items, Params{Page: 3, PerPage: 5})
	assert.Equal(t, []int{11, 12}, last.Data)
	assert.False(t, last.HasNext)

	beyond := Paginate(items, Params{Page: 9, PerPage: 5})
	assert.Empty(t, beyond.Data)
	assert.NotNil(t, beyond.Data)
}
