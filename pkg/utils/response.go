package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every answer. Status repeats the HTTP status.
type Response struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Message: message,
		Status:  status,
		Data:    data,
	})
}

// FieldsResponse answers with message and status plus extra top-level fields.
func FieldsResponse(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{
		"message": message,
		"status":  status,
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Message: message,
		Status:  status,
	})
}
