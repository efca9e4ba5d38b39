package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError echoes the request id (set by the logger middleware) so a failed call can be
// matched to its log line.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:    false,
		Message:   err.Error(),
		RequestID: c.GetString("request_id"),
	})
}
