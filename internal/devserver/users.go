package devserver

import (
	"net/http"
	"strconv"

	"storefront/model"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetProfile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}
	respondOK(c, acct.profile, "")
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req model.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	// Identity fields stay server-controlled.
	acct.profile.FirstName = req.FirstName
	acct.profile.LastName = req.LastName
	acct.profile.Phone = req.Phone
	respondOK(c, acct.profile, "Profile updated")
}

func (s *Server) handleListAddresses(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}
	respondOK(c, append([]model.Address{}, acct.addresses...), "")
}

func (s *Server) handleAddAddress(c *gin.Context) {
	var req model.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Street == "" || req.City == "" || req.Country == "" {
		respondError(c, http.StatusBadRequest, "Street, city and country are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.findAccount(currentUser(c))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unknown account")
		return
	}

	req.ID = "addr-" + strconv.Itoa(len(acct.addresses)+1)
	if len(acct.addresses) == 0 {
		req.IsDefault = true
	}
	acct.addresses = append(acct.addresses, req)
	respondCreated(c, req, "Address saved")
}
