package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront/config"
	"storefront/model"
	"storefront/pkg/errors"
	"storefront/service"
	"storefront/store/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogAPI serves deterministic pages and can hold a response open
// until released, to exercise out-of-order completion.
type fakeCatalogAPI struct {
	mu      sync.Mutex
	queries []service.ProductQuery
	err     error
	hold    chan struct{} // when set, the next GetProducts blocks on it
}

func (f *fakeCatalogAPI) GetProducts(_ context.Context, q service.ProductQuery) (*model.Page[model.Product], error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	n := len(f.queries)
	hold := f.hold
	f.hold = nil
	err := f.err
	f.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if err != nil {
		return nil, err
	}
	// One synthetic product per request, tagged with the request ordinal so
	// tests can tell which response landed.
	return &model.Page[model.Product]{
		Content:       []model.Product{{ID: fmt.Sprintf("p-%d", n), Name: fmt.Sprintf("Result %d", n), Price: 10}},
		Number:        q.Page,
		Size:          q.Size,
		TotalElements: 100,
		TotalPages:    100 / q.Size,
		Last:          false,
	}, nil
}

func (f *fakeCatalogAPI) GetProduct(_ context.Context, id string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Product{ID: id, Name: "Product " + id}, nil
}

func (f *fakeCatalogAPI) TopLevelCategories(_ context.Context) ([]model.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.Category{{ID: "c1", Name: "Electronics"}, {ID: "c2", Name: "Books"}}, nil
}

func (f *fakeCatalogAPI) lastQuery() service.ProductQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

var testCfg = config.CatalogConfig{PageSize: 12}

func newTestStore() (*Store, *fakeCatalogAPI, *notify.Recorder) {
	api := &fakeCatalogAPI{}
	rec := notify.NewRecorder()
	return New(testCfg, api, rec), api, rec
}

func TestFetchProductsAppliesPage(t *testing.T) {
	s, api, _ := newTestStore()

	require.NoError(t, s.FetchProducts(context.Background()))

	st := s.State()
	require.Len(t, st.Products, 1)
	assert.Equal(t, "p-1", st.Products[0].ID)
	assert.False(t, st.IsLoading)
	assert.Equal(t, 12, st.Pagination.Size)
	assert.Equal(t, int64(100), st.Pagination.TotalElements)

	q := api.lastQuery()
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, 12, q.Size)
	assert.Equal(t, "name", q.SortBy, "default sort is name ascending")
	assert.Equal(t, "asc", q.SortDir)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	s, api, _ := newTestStore()

	release := make(chan struct{})
	api.hold = release

	// First fetch blocks inside the API; second completes immediately.
	done := make(chan error, 1)
	go func() { done <- s.FetchProducts(context.Background()) }()

	// Wait until the first request is registered before issuing the second.
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.queries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.FetchProducts(context.Background()))
	assert.Equal(t, "p-2", s.State().Products[0].ID)

	// Now the slow first response lands; it must not clobber the newer one.
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "p-2", s.State().Products[0].ID, "stale response must be discarded")
	assert.False(t, s.State().IsLoading)
}

func TestUpdateFiltersResetsPage(t *testing.T) {
	s, api, _ := newTestStore()

	require.NoError(t, s.SetPage(context.Background(), 3))
	assert.Equal(t, 3, api.lastQuery().Page)

	search := "widget"
	require.NoError(t, s.UpdateFilters(context.Background(), FilterPatch{Search: &search}))

	q := api.lastQuery()
	assert.Equal(t, 0, q.Page, "filter change must reset to the first page")
	assert.Equal(t, "widget", q.Search)
}

func TestUpdateFiltersMergesPatch(t *testing.T) {
	s, api, _ := newTestStore()

	search := "widget"
	require.NoError(t, s.UpdateFilters(context.Background(), FilterPatch{Search: &search}))
	minPrice := 5.0
	require.NoError(t, s.UpdateFilters(context.Background(), FilterPatch{MinPrice: &minPrice, CategoryIDs: []string{"c1"}}))

	q := api.lastQuery()
	assert.Equal(t, "widget", q.Search, "earlier filters survive later patches")
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 5.0, *q.MinPrice)
	assert.Equal(t, []string{"c1"}, q.CategoryIDs)
}

func TestClearFilters(t *testing.T) {
	s, api, _ := newTestStore()

	search := "widget"
	inStock := true
	minRating := 4.0
	require.NoError(t, s.UpdateFilters(context.Background(), FilterPatch{
		Search: &search, InStockOnly: &inStock, MinRating: &minRating, CategoryIDs: []string{"c1"},
	}))
	assert.True(t, s.HasActiveFilters())

	require.NoError(t, s.ClearFilters(context.Background()))
	assert.False(t, s.HasActiveFilters())

	q := api.lastQuery()
	assert.Empty(t, q.Search)
	assert.Empty(t, q.CategoryIDs)
	assert.Nil(t, q.MinRating)
	assert.False(t, q.InStockOnly)
	assert.Equal(t, 0, q.Page)
}

func TestHasActiveFiltersIgnoresRatingAndStock(t *testing.T) {
	s, _, _ := newTestStore()

	inStock := true
	minRating := 4.0
	require.NoError(t, s.UpdateFilters(context.Background(), FilterPatch{InStockOnly: &inStock, MinRating: &minRating}))
	assert.False(t, s.HasActiveFilters(), "rating and stock filters do not light the filter badge")

	minPrice := 1.0
	require.NoError(t, s.UpdateFilters(context.Background(), FilterPatch{MinPrice: &minPrice}))
	assert.True(t, s.HasActiveFilters())
}

func TestUpdateSortResetsPageAndMapsKey(t *testing.T) {
	s, api, _ := newTestStore()
	require.NoError(t, s.SetPage(context.Background(), 2))

	require.NoError(t, s.UpdateSort(context.Background(), "price_desc"))
	q := api.lastQuery()
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, "price", q.SortBy)
	assert.Equal(t, "desc", q.SortDir)
}

func TestSetPageSizeResetsPage(t *testing.T) {
	s, api, _ := newTestStore()
	require.NoError(t, s.SetPage(context.Background(), 4))

	require.NoError(t, s.SetPageSize(context.Background(), 24))
	q := api.lastQuery()
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, 24, q.Size)
}

func TestFetchProductsErrorSurfaces(t *testing.T) {
	s, api, rec := newTestStore()
	api.err = errors.Network(nil)

	err := s.FetchProducts(context.Background())
	require.Error(t, err)

	st := s.State()
	assert.False(t, st.IsLoading)
	assert.Equal(t, errors.MsgNetwork, st.Err)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Failed to load products", last.Message)
}

func TestFetchProductRecordsSelection(t *testing.T) {
	s, _, _ := newTestStore()

	p, err := s.FetchProduct(context.Background(), "p7")
	require.NoError(t, err)
	assert.Equal(t, "p7", p.ID)
	require.NotNil(t, s.State().Selected)
	assert.Equal(t, "p7", s.State().Selected.ID)
}

func TestFetchCategories(t *testing.T) {
	s, _, _ := newTestStore()
	require.NoError(t, s.FetchCategories(context.Background()))
	assert.Len(t, s.State().Categories, 2)
}
