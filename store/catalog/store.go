/*
Package catalog holds the product browsing store: filters, sort, pagination
and the product page they select. Concurrent fetches are sequenced so a
slow response can never overwrite a newer one.
*/
package catalog

import (
	"context"
	"sync"

	"storefront/config"
	"storefront/model"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
	"storefront/service"
	"storefront/store/notify"

	"go.uber.org/zap"
)

// API is the slice of the catalog REST surface the store needs.
type API interface {
	GetProducts(ctx context.Context, q service.ProductQuery) (*model.Page[model.Product], error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	TopLevelCategories(ctx context.Context) ([]model.Category, error)
}

// Filters is the active filter set.
type Filters struct {
	Search      string
	CategoryIDs []string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	InStockOnly bool
}

// FilterPatch is a partial filter update. Nil fields are left unchanged;
// ResetPrice and ResetRating clear the corresponding bounds.
type FilterPatch struct {
	Search      *string
	CategoryIDs []string // nil leaves unchanged, empty non-nil clears
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	InStockOnly *bool
	ResetPrice  bool
	ResetRating bool
}

// State is the externally visible catalog state.
type State struct {
	Products   []model.Product
	Selected   *model.Product
	Categories []model.Category
	Filters    Filters
	SortKey    string
	Pagination model.Pagination
	IsLoading  bool
	Err        string
}

// Store owns the catalog state slice.
type Store struct {
	cfg      config.CatalogConfig
	api      API
	notifier notify.Notifier
	log      *zap.Logger

	mu    sync.Mutex
	state State

	// fetchSeq tags each product fetch; appliedSeq records the newest one
	// whose result has been applied. A response carrying an older tag is
	// discarded, so out-of-order completions cannot surface stale pages.
	fetchSeq   uint64
	appliedSeq uint64
}

func New(cfg config.CatalogConfig, api API, notifier notify.Notifier) *Store {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 12
	}
	return &Store{
		cfg:      cfg,
		api:      api,
		notifier: notifier,
		log:      logger.WithStore("catalog"),
		state: State{
			Products:   []model.Product{},
			Pagination: model.Pagination{Size: cfg.PageSize},
		},
	}
}

func (s *Store) buildQueryLocked() service.ProductQuery {
	f := s.state.Filters
	sort := service.MapSortKey(s.state.SortKey)
	return service.ProductQuery{
		Search:      f.Search,
		CategoryIDs: append([]string(nil), f.CategoryIDs...),
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		MinRating:   f.MinRating,
		InStockOnly: f.InStockOnly,
		Page:        s.state.Pagination.Page,
		Size:        s.state.Pagination.Size,
		SortBy:      sort.By,
		SortDir:     sort.Direction,
	}
}

// FetchProducts loads the product page for the current filters, sort and
// pagination. Safe to call concurrently: only the newest fetch wins.
func (s *Store) FetchProducts(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	q := s.buildQueryLocked()
	s.state.IsLoading = true
	s.mu.Unlock()

	page, err := s.api.GetProducts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		// A newer fetch already landed; this result is stale.
		s.log.Debug("discarding stale product page",
			zap.Uint64("seq", seq), zap.Uint64("applied", s.appliedSeq))
		return nil
	}
	s.appliedSeq = seq

	if err != nil {
		s.state.IsLoading = false
		s.state.Err = errors.UserMessage(err)
		notify.Push(s.notifier, "Failed to load products", notify.Error)
		return err
	}

	s.state.Products = page.Content
	if s.state.Products == nil {
		s.state.Products = []model.Product{}
	}
	s.state.Pagination = model.Pagination{
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		IsLast:        page.Last,
	}
	if s.state.Pagination.Size <= 0 {
		s.state.Pagination.Size = s.cfg.PageSize
	}
	s.state.IsLoading = false
	s.state.Err = ""
	return nil
}

// FetchProduct loads one product and records it as the selection.
func (s *Store) FetchProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		notify.Push(s.notifier, "Failed to load product", notify.Error)
		return nil, err
	}
	s.mu.Lock()
	s.state.Selected = p
	s.mu.Unlock()
	return p, nil
}

// FetchCategories loads the top-level categories.
func (s *Store) FetchCategories(ctx context.Context) error {
	cats, err := s.api.TopLevelCategories(ctx)
	if err != nil {
		notify.Push(s.notifier, "Failed to load categories", notify.Error)
		return err
	}
	s.mu.Lock()
	s.state.Categories = cats
	s.mu.Unlock()
	return nil
}

// UpdateFilters merges a partial filter update and resets pagination to the
// first page: the old page index is meaningless against a new result set.
func (s *Store) UpdateFilters(ctx context.Context, patch FilterPatch) error {
	s.mu.Lock()
	f := &s.state.Filters
	if patch.Search != nil {
		f.Search = *patch.Search
	}
	if patch.CategoryIDs != nil {
		f.CategoryIDs = append([]string(nil), patch.CategoryIDs...)
	}
	if patch.ResetPrice {
		f.MinPrice, f.MaxPrice = nil, nil
	}
	if patch.MinPrice != nil {
		f.MinPrice = patch.MinPrice
	}
	if patch.MaxPrice != nil {
		f.MaxPrice = patch.MaxPrice
	}
	if patch.ResetRating {
		f.MinRating = nil
	}
	if patch.MinRating != nil {
		f.MinRating = patch.MinRating
	}
	if patch.InStockOnly != nil {
		f.InStockOnly = *patch.InStockOnly
	}
	s.state.Pagination.Page = 0
	s.mu.Unlock()

	return s.FetchProducts(ctx)
}

// ClearFilters drops every filter and reloads from the first page.
func (s *Store) ClearFilters(ctx context.Context) error {
	s.mu.Lock()
	s.state.Filters = Filters{}
	s.state.Pagination.Page = 0
	s.mu.Unlock()
	return s.FetchProducts(ctx)
}

// UpdateSort changes the sort key and reloads from the first page.
func (s *Store) UpdateSort(ctx context.Context, key string) error {
	s.mu.Lock()
	s.state.SortKey = key
	s.state.Pagination.Page = 0
	s.mu.Unlock()
	return s.FetchProducts(ctx)
}

// SetPage navigates to a page of the current result set.
func (s *Store) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	s.mu.Lock()
	s.state.Pagination.Page = page
	s.mu.Unlock()
	return s.FetchProducts(ctx)
}

// SetPageSize changes the page size and resets to the first page.
func (s *Store) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		size = s.cfg.PageSize
	}
	s.mu.Lock()
	s.state.Pagination.Size = size
	s.state.Pagination.Page = 0
	s.mu.Unlock()
	return s.FetchProducts(ctx)
}

// HasActiveFilters reports whether a user-visible filter is set. Rating and
// stock filters deliberately do not count: the filter badge in the UI only
// reflects search, category and price.
func (s *Store) HasActiveFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.state.Filters
	return f.Search != "" || len(f.CategoryIDs) > 0 || f.MinPrice != nil || f.MaxPrice != nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Products = append([]model.Product(nil), s.state.Products...)
	st.Categories = append([]model.Category(nil), s.state.Categories...)
	st.Filters.CategoryIDs = append([]string(nil), s.state.Filters.CategoryIDs...)
	if s.state.Selected != nil {
		p := *s.state.Selected
		st.Selected = &p
	}
	return st
}
