package devserver

import (
	"net/http"
	"time"

	"storefront/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(c, http.StatusBadRequest, "Order must contain at least one item")
		return
	}
	if req.ShippingAddress == nil {
		respondError(c, http.StatusBadRequest, "Shipping address is required")
		return
	}

	// The server recomputes the total; the client's figure is not trusted.
	var total float64
	for _, line := range req.Items {
		total += line.Price * float64(line.Quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	now := time.Now().UTC()
	order := model.Order{
		ID:              uuid.NewString(),
		Items:           req.Items,
		Total:           total,
		Status:          model.OrderPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	acct.orders = append([]model.Order{order}, acct.orders...)
	// Checkout consumes the server-side cart.
	acct.cart = nil

	s.log.Info("order created", zap.String("orderId", order.ID), zap.Float64("total", total))
	respondCreated(c, order, "Order created")
}

func (s *Server) handleListOrders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	content := append([]model.Order{}, acct.orders...)
	respondOK(c, model.Page[model.Order]{
		Content:       content,
		Number:        0,
		Size:          len(content),
		TotalElements: int64(len(content)),
		TotalPages:    1,
		Last:          true,
	}, "")
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}
	for _, o := range acct.orders {
		if o.ID == id {
			respondOK(c, o, "")
			return
		}
	}
	respondError(c, http.StatusNotFound, "Order not found")
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	for i := range acct.orders {
		if acct.orders[i].ID != id {
			continue
		}
		if !acct.orders[i].Status.CanCancel() {
			respondError(c, http.StatusUnprocessableEntity, "Order can no longer be cancelled")
			return
		}
		acct.orders[i].Status = model.OrderCancelled
		acct.orders[i].UpdatedAt = time.Now().UTC()
		respondOK(c, acct.orders[i], "Order cancelled")
		return
	}
	respondError(c, http.StatusNotFound, "Order not found")
}
