package devserver

import (
	"net/http"
	"strconv"

	"storefront/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) handleGetCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}
	respondOK(c, cartSnapshot(acct), "")
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	var product *model.Product
	for i := range s.products {
		if s.products[i].ID == req.ProductID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if !product.InStock {
		respondError(c, http.StatusConflict, "Product is out of stock")
		return
	}

	merged := false
	for i := range acct.cart {
		if acct.cart[i].ProductID == req.ProductID {
			acct.cart[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		acct.cart = append(acct.cart, model.CartEntry{
			ID:           uuid.NewString(),
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.ImageURL,
			Price:        product.Price,
			Quantity:     req.Quantity,
		})
	}
	respondOK(c, cartSnapshot(acct), "Item added")
}

func (s *Server) handleUpdateCartItem(c *gin.Context) {
	productID := c.Param("productId")
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "quantity is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	found := false
	items := acct.cart[:0]
	for _, e := range acct.cart {
		if e.ProductID == productID {
			found = true
			e.Quantity = quantity
		}
		if e.Quantity > 0 {
			items = append(items, e)
		}
	}
	acct.cart = items
	if !found {
		respondError(c, http.StatusNotFound, "Item not in cart")
		return
	}
	respondOK(c, cartSnapshot(acct), "Item updated")
}

func (s *Server) handleRemoveCartItem(c *gin.Context) {
	productID := c.Param("productId")

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	items := acct.cart[:0]
	for _, e := range acct.cart {
		if e.ProductID != productID {
			items = append(items, e)
		}
	}
	acct.cart = items
	respondOK(c, cartSnapshot(acct), "Item removed")
}

func (s *Server) handleClearCart(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}
	acct.cart = nil
	respondOK(c, cartSnapshot(acct), "Cart cleared")
}
