package devserver

import (
	"net/http"
	"strconv"

	"storefront/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.findAccount(req.Email)
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		s.log.Warn("login rejected", zap.String("email", req.Email))
		respondError(c, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := s.issueToken(req.Email, acct.profile.Roles)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondOK(c, model.AuthResponse{
		AccessToken: token,
		Email:       acct.profile.Email,
		Roles:       acct.profile.Roles,
	}, "Login successful")
}

func (s *Server) handleRegister(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		respondError(c, http.StatusConflict, "Email already registered")
		return
	}
	s.nextID++
	acct := &account{
		password: req.Password,
		profile: model.Profile{
			ID:        "u-" + strconv.Itoa(s.nextID),
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Roles:     []string{"CUSTOMER"},
		},
		addresses: []model.Address{},
	}
	s.accounts[req.Email] = acct
	s.mu.Unlock()

	token, err := s.issueToken(req.Email, acct.profile.Roles)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.log.Info("account registered", zap.String("email", req.Email))
	respondCreated(c, model.AuthResponse{
		AccessToken: token,
		Email:       acct.profile.Email,
		Roles:       acct.profile.Roles,
	}, "Registration successful")
}

// handleLogout is stateless: tokens are not tracked server side, the
// client discards its copy.
func (s *Server) handleLogout(c *gin.Context) {
	respondOK(c, nil, "Logged out")
}
