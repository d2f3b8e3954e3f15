package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey context key for request id propagation
const requestIDKey = "request_id"

// envelope is the response envelope every endpoint uses. Failures carry the
// user-visible message; the payload always travels under data.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	if id, exists := c.Get(requestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

func respondOK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, &envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: requestID(c),
	})
}

func respondCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, &envelope{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: requestID(c),
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, &envelope{
		Success:   false,
		Message:   message,
		Code:      status,
		RequestID: requestID(c),
	})
}
