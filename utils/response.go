package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ServiceError is a domain error carrying the HTTP status it should surface as.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError builds a ServiceError for the given status code and message.
func NewServiceError(code int, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}, message string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(http.StatusOK, Envelope{Status: true, Message: message, Data: data})
}

// Error writes an error envelope with the given status code.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: false, Message: message, Data: gin.H{}})
}

// RespondError maps a service error to the envelope. Typed domain errors keep
// their status and message; anything else is logged and surfaces as a generic
// 500 so internal detail never leaks to clients.
func RespondError(c *gin.Context, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		Error(c, svcErr.Code, svcErr.Message)
		return
	}
	GetLogger().Error("unexpected service error", zap.String("path", c.FullPath()), zap.Error(err))
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
					Status:  false,
					Message: "Internal server error",
					Data:    gin.H{},
				})
			}
		}()
		c.Next()
	}
}
