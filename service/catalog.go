package service

import (
	"context"
	"net/url"
	"strconv"

	"storefront/internal/httpclient"
	"storefront/model"
)

// Catalog wraps the /catalog endpoints.
type Catalog struct {
	client *httpclient.Client
}

func NewCatalog(client *httpclient.Client) *Catalog {
	return &Catalog{client: client}
}

// ProductQuery carries the filter/sort/pagination state of one product
// listing request.
type ProductQuery struct {
	Search      string
	CategoryIDs []string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	InStockOnly bool
	Page        int
	Size        int
	SortBy      string
	SortDir     string
}

// Encode builds the query string. Empty values are omitted; categoryIds is
// repeated per value.
func (q ProductQuery) Encode() string {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	for _, id := range q.CategoryIDs {
		values.Add("categoryIds", id)
	}
	if q.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.MinRating != nil {
		values.Set("minRating", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	if q.InStockOnly {
		values.Set("inStockOnly", "true")
	}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("size", strconv.Itoa(q.Size))
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortDir != "" {
		values.Set("sortDir", q.SortDir)
	}
	return values.Encode()
}

// MapSortKey maps a UI-level sort key onto a field/direction pair. Unknown
// keys fall back to name ascending. "newest" sorts by id descending since
// ids are time-ordered.
func MapSortKey(key string) model.Sort {
	switch key {
	case "price_asc":
		return model.Sort{By: "price", Direction: "asc"}
	case "price_desc":
		return model.Sort{By: "price", Direction: "desc"}
	case "name_asc":
		return model.Sort{By: "name", Direction: "asc"}
	case "name_desc":
		return model.Sort{By: "name", Direction: "desc"}
	case "newest":
		return model.Sort{By: "id", Direction: "desc"}
	default:
		return model.Sort{By: "name", Direction: "asc"}
	}
}

func (s *Catalog) GetProducts(ctx context.Context, q ProductQuery) (*model.Page[model.Product], error) {
	endpoint := "/catalog/products"
	if qs := q.Encode(); qs != "" {
		endpoint += "?" + qs
	}
	var resp model.Envelope[model.Page[model.Product]]
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Catalog) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var resp model.Envelope[model.Product]
	if err := s.client.Get(ctx, "/catalog/products/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (s *Catalog) TopLevelCategories(ctx context.Context) ([]model.Category, error) {
	var resp model.Envelope[[]model.Category]
	if err := s.client.Get(ctx, "/catalog/categories/top-level", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
