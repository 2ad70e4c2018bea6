package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

const (
	CodeValidation        = "validation_error"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeAlreadyInState    = "already_in_state"
	CodeConflict          = "conflict"
	CodeOutsideWindow     = "outside_window"
	CodeUnauthorized      = "unauthorized"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal_error"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// StatusFor maps an error kind to its HTTP status and machine code.
func StatusFor(err error) (int, string) {
	var te *apperr.TransitionError
	switch {
	case errors.As(err, &te):
		if te.AlreadyInState() {
			return http.StatusConflict, CodeAlreadyInState
		}
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, apperr.ErrOutsideWindow):
		return http.StatusConflict, CodeOutsideWindow
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrSessionAlreadyActive):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func RespondError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("request failed", "method", c.Request.Method, "path", c.FullPath())
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeValidation})
}

func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Code: CodeUnauthorized})
}
