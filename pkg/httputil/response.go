package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/retention-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps err onto a status code and sends an error response.
// Storage and unexpected failures get a generic message.
func RespondWithError(c *gin.Context, err error) {
	status, message := StatusFor(err)
	RespondWithStatus(c, status, message, nil)
}

// RespondWithStatus aborts the request with an explicit status.
func RespondWithStatus(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    status,
			Message: message,
			Details: details,
		},
	})
}

func StatusFor(err error) (int, string) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch appErr.Code {
	case errors.ErrValidation, errors.ErrBadRequest:
		return http.StatusBadRequest, appErr.Message
	case errors.ErrNotFound:
		return http.StatusNotFound, appErr.Message
	case errors.ErrUnsupportedRuleType:
		return http.StatusUnprocessableEntity, appErr.Message
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized, appErr.Message
	case errors.ErrForbidden:
		return http.StatusForbidden, appErr.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
