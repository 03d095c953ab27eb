package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"expense_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgNoToken         = "Not authorized, no token"
	msgTokenFailed     = "Not authorized, token failed"
	msgUserExists      = "User already exists"
	msgInvalidLogin    = "Invalid email or password"
	msgNotOwner        = "User not authorized"
	msgExpenseNotFound = "Expense not found"
	msgInternalError   = "internal server error"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string `json:"message" example:"Expense not found"`
	Trace   string `json:"trace,omitempty"`
}

// statusFor maps a service error to its HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, msgUserExists
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidLogin
	case errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, msgTokenFailed
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusUnauthorized, msgNotOwner
	case errors.Is(err, service.ErrExpenseNotFound):
		return http.StatusNotFound, msgExpenseNotFound
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// fail logs err under logKey and aborts with the mapped status. Server
// errors carry the error chain as trace unless running in production.
func (h *Handler) fail(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, msg := statusFor(err)

	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}

	resp := errorResponse{Message: msg}
	if code >= http.StatusInternalServerError && !h.production {
		resp.Trace = err.Error()
	}
	c.AbortWithStatusJSON(code, resp)
}

// badRequest wraps a binding or parsing error as a validation failure.
func (h *Handler) badRequest(c *gin.Context, logKey string, err error) {
	h.fail(c, fmt.Errorf("%w: %s", service.ErrValidation, err.Error()), logKey)
}

// recoverPanic turns a panic into the regular 500 body.
func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	if h.log != nil {
		h.log.Errorw("http_panic_recovered", "panic", recovered, "path", c.Request.URL.Path)
	}
	resp := errorResponse{Message: msgInternalError}
	if !h.production {
		resp.Trace = fmt.Sprint(recovered)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}
