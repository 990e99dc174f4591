// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/products?"+query, nil)

	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, defaultPageSize, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClampsOutOfRange(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{"negative page", "page=-3", 1, defaultPageSize, "desc"},
		{"zero limit", "limit=0", 1, defaultPageSize, "desc"},
		{"limit over cap", "limit=5000", 1, defaultPageSize, "desc"},
		{"garbage order", "order=sideways", 1, defaultPageSize, "desc"},
		{"valid everything", "page=3&limit=50&order=asc", 3, 50, "asc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := paramsForQuery(t, tc.query)
			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
			assert.Equal(t, tc.wantOrder, params.Order)
		})
	}
}

func TestCreatePaginationResultRounding(t *testing.T) {
	result := CreatePaginationResult(nil, 41, PaginationParams{Page: 2, Limit: 20})

	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Page)
}

func TestCreatePaginationResultZeroLimit(t *testing.T) {
	result := CreatePaginationResult(nil, 5, PaginationParams{Page: 1})

	assert.Equal(t, defaultPageSize, result.Limit)
	assert.Equal(t, 1, result.TotalPages)
}
