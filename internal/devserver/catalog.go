package devserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"storefront/model"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 12

// handleListProducts applies search, filters, sort and pagination over the
// seeded catalog.
func (s *Server) handleListProducts(c *gin.Context) {
	s.mu.Lock()
	products := append([]model.Product{}, s.products...)
	s.mu.Unlock()

	products = filterProducts(products, c)
	sortProducts(products, c.Query("sortBy"), c.Query("sortDir"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}

	total := len(products)
	totalPages := (total + size - 1) / size
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	respondOK(c, model.Page[model.Product]{
		Content:       products[start:end],
		Number:        page,
		Size:          size,
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Last:          page >= totalPages-1,
	}, "")
}

func filterProducts(products []model.Product, c *gin.Context) []model.Product {
	search := strings.ToLower(c.Query("search"))
	categoryIDs := c.QueryArray("categoryIds")
	minPrice, hasMinPrice := queryFloat(c, "minPrice")
	maxPrice, hasMaxPrice := queryFloat(c, "maxPrice")
	minRating, hasMinRating := queryFloat(c, "minRating")
	inStockOnly := c.Query("inStockOnly") == "true"

	out := products[:0]
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if len(categoryIDs) > 0 {
			if p.Category == nil || !contains(categoryIDs, p.Category.ID) {
				continue
			}
		}
		if hasMinPrice && p.Price < minPrice {
			continue
		}
		if hasMaxPrice && p.Price > maxPrice {
			continue
		}
		if hasMinRating && p.Rating < minRating {
			continue
		}
		if inStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProducts(products []model.Product, by, dir string) {
	desc := dir == "desc"
	less := func(a, b model.Product) bool { return a.Name < b.Name }
	switch by {
	case "price":
		less = func(a, b model.Product) bool { return a.Price < b.Price }
	case "id":
		less = func(a, b model.Product) bool { return a.ID < b.ID }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func queryFloat(c *gin.Context, key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			respondOK(c, p, "")
			return
		}
	}
	respondError(c, http.StatusNotFound, "Product not found")
}

func (s *Server) handleTopLevelCategories(c *gin.Context) {
	s.mu.Lock()
	categories := append([]model.Category{}, s.categories...)
	s.mu.Unlock()
	respondOK(c, categories, "")
}
