package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"controlling_motor/internal/service"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	minInterval      = 50 * time.Millisecond
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Message types on the stream.
const (
	wsTypeStatus  = "status"
	wsTypeSamples = "samples"
	wsTypeEvents  = "events"
)

type wsEnvelope struct {
	Type   string      `json:"type"`
	Data   interface{} `json:"data,omitempty"`
	SeqEnd uint64      `json:"seq_end,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// wsCursors are the server-held positions of one connection.
type wsCursors struct {
	samples uint64
	events  uint64
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Live stream
// @Description  Status snapshots plus new samples and events since the connection's cursors
// @Tags         telemetry
// @Param        interval       query  string  false  "Push interval, e.g. 500ms (max 10s)"
// @Param        interval_ms    query  int     false  "Push interval in ms"
// @Param        samples_since  query  int     false  "Starting sample cursor"
// @Param        events_since   query  int     false  "Starting event cursor"
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	cur := wsCursors{
		samples: parseCursorParam(c, "samples_since"),
		events:  parseCursorParam(c, "events_since"),
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()
	if h.log != nil {
		h.log.Infow("ws_connected", "remote", c.ClientIP(), "interval", interval)
		defer h.log.Infow("ws_disconnected", "remote", c.ClientIP())
	}

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := h.push(conn, &cur); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
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
			if err := h.push(conn, &cur); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return max(time.Duration(v)*time.Millisecond, minInterval)
		}
	}

	return defaultInterval
}

func parseCursorParam(c *gin.Context, key string) uint64 {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// startReader drains incoming messages to handle control frames and detect closure.
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

// push writes the status and whatever the logs gained since the cursors.
// Empty batches are not sent.
func (h *Handler) push(conn *websocket.Conn, cur *wsCursors) error {
	if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeStatus, Data: h.services.GetStatus()}); err != nil {
		return err
	}

	samples := h.services.Samples(cur.samples, service.MaxPageSize)
	if len(samples.Items) > 0 {
		if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeSamples, Data: samples.Items, SeqEnd: samples.SeqEnd}); err != nil {
			return err
		}
		cur.samples = samples.SeqEnd
	}

	events := h.services.Events(cur.events, service.MaxPageSize)
	if len(events.Items) > 0 {
		if err := writeEnvelope(conn, wsEnvelope{Type: wsTypeEvents, Data: events.Items, SeqEnd: events.SeqEnd}); err != nil {
			return err
		}
		cur.events = events.SeqEnd
	}
	return nil
}

func writeEnvelope(conn *websocket.Conn, env wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
