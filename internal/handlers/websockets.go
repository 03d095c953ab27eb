package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"expense_tracker/internal/analytics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000 // 60s in ms

	wsTypeDashboard = "dashboard"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // bearer header is required anyway
}

// @Summary      Dashboard stream
// @Description  WebSocket pushing {"type":"dashboard","data":...} immediately and then every interval.
// @Tags         analytics
// @Param        interval     query  string  false  "Go duration, e.g. 10s (max 60s)"
// @Param        interval_ms  query  int     false  "Interval in ms (max 60000)"
// @Param        month        query  int     false  "Month 1-12"
// @Param        year         query  int     false  "Year"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  errorResponse
// @Router       /ws/dashboard [get]
// @Security     BearerAuth
func (h *Handler) wsDashboard(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	f, err := parseMonthFilter(c)
	if err != nil {
		h.badRequest(c, "ws_bad_query", err)
		return
	}
	if f.Month != 0 && !f.Valid() {
		h.badRequest(c, "ws_bad_query", errors.New("month must be 1..12"))
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()

	// Send the first dashboard immediately.
	if err := h.sendDashboard(ctx, conn, uid, f); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "user_id", uid)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendDashboard(ctx, conn, uid, f); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "user_id", uid)
				}
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: sendDashboard recomputes the dashboard from a fresh snapshot and
// writes it with a write deadline.
func (h *Handler) sendDashboard(ctx context.Context, conn *websocket.Conn, uid string, f analytics.MonthFilter) error {
	d, err := h.services.Analytics.Dashboard(ctx, uid, f, 1, 0)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_dashboard_failed", "err", err, "user_id", uid)
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: msgInternalError})
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: wsTypeDashboard, Data: d})
}
