package handlers

import (
	"net/http"
	"strings"
	"time"

	"expense_tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"

	userCtx   = "user"
	userIDCtx = "userId"
)

// userIdMiddleware resolves the bearer token into a user. Every request ends
// in exactly one of: the next handler, or an aborted 401.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	scheme, token, _ := strings.Cut(c.GetHeader(authorizationHeader), " ")
	if scheme != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgNoToken})
		return
	}

	user, err := h.services.ResolveUser(c.Request.Context(), strings.TrimSpace(token))
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "err", err, "path", c.Request.URL.Path)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgTokenFailed})
		return
	}

	// store in Gin context
	c.Set(userCtx, user)
	c.Set(userIDCtx, user.ID)
	c.Next()
}

// currentUser returns the user stored by userIdMiddleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userCtx)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// userID returns the caller id or aborts with 401 when the gate did not run.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDCtx)
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgNoToken})
		return "", false
	}
	return id, true
}

// requestLogger tags each request with an id and logs it once it completes.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	reqID := c.GetHeader(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Header(requestIDHeader, reqID)

	c.Next()

	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"request_id", reqID,
		"method", c.Request.Method,
		"path", requestPath(c),
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"client_ip", c.ClientIP(),
	)
}

// requestPath is the matched route pattern, or the raw path when no route matched.
func requestPath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}
