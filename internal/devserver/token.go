package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "user_email"

type sessionClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// issueToken signs a session token for the account.
func (s *Server) issueToken(email string, roles []string) (string, error) {
	claims := sessionClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// verifyToken parses and validates a session token, returning the account
// email.
func (s *Server) verifyToken(raw string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// authRequired gates a route group behind a valid bearer token.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		email, err := s.verifyToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(userKey, email)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	email, _ := c.Get(userKey)
	s, _ := email.(string)
	return s
}
