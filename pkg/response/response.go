package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope written by every handler.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope with the given payload.
func Success[T any](c *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: c.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes a failure envelope; details is optional structured
// error context such as field validation messages.
func Error(c *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: c.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     details,
	})
}

// AbortError writes a failure envelope and aborts the handler chain.
// Used by middleware.
func AbortError(c *gin.Context, status int, message string, details interface{}) {
	Error(c, status, message, details)
	c.Abort()
}
