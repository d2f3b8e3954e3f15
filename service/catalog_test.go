package service

import (
	"net/url"
	"testing"

	"storefront/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductQueryEncode(t *testing.T) {
	min := 10.0
	max := 99.5
	q := ProductQuery{
		Search:      "laptop stand",
		CategoryIDs: []string{"1", "3"},
		MinPrice:    &min,
		MaxPrice:    &max,
		InStockOnly: true,
		Page:        2,
		Size:        12,
		SortBy:      "price",
		SortDir:     "desc",
	}

	values, err := url.ParseQuery(q.Encode())
	require.NoError(t, err)
	assert.Equal(t, "laptop stand", values.Get("search"))
	assert.Equal(t, []string{"1", "3"}, values["categoryIds"])
	assert.Equal(t, "10", values.Get("minPrice"))
	assert.Equal(t, "99.5", values.Get("maxPrice"))
	assert.Equal(t, "true", values.Get("inStockOnly"))
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "12", values.Get("size"))
	assert.Equal(t, "price", values.Get("sortBy"))
	assert.Equal(t, "desc", values.Get("sortDir"))
	assert.NotContains(t, values, "minRating")
}

func TestProductQueryEncodeOmitsEmpty(t *testing.T) {
	values, err := url.ParseQuery(ProductQuery{Page: 0, Size: 12}.Encode())
	require.NoError(t, err)
	assert.NotContains(t, values, "search")
	assert.NotContains(t, values, "categoryIds")
	assert.NotContains(t, values, "minPrice")
	assert.NotContains(t, values, "inStockOnly")
	assert.Equal(t, "0", values.Get("page"))
}

func TestMapSortKey(t *testing.T) {
	tests := []struct {
		key  string
		want model.Sort
	}{
		{"price_asc", model.Sort{By: "price", Direction: "asc"}},
		{"price_desc", model.Sort{By: "price", Direction: "desc"}},
		{"name_asc", model.Sort{By: "name", Direction: "asc"}},
		{"name_desc", model.Sort{By: "name", Direction: "desc"}},
		{"newest", model.Sort{By: "id", Direction: "desc"}},
		{"bogus", model.Sort{By: "name", Direction: "asc"}},
		{"", model.Sort{By: "name", Direction: "asc"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapSortKey(tt.key), "key %q", tt.key)
	}
}
