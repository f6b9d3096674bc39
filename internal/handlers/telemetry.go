package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"controlling_motor/internal/service"
)

// cursorQuery holds ?since=<seq>&max=<n>. An absent max is the default page
// size; an explicit one is clamped by the service.
type cursorQuery struct {
	since uint64
	max   int
}

func (h *Handler) parseCursor(c *gin.Context) (cursorQuery, bool) {
	q := cursorQuery{max: service.DefaultPageSize}
	if s := c.Query("since"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since; expected a sequence number"})
			return q, false
		}
		q.since = v
	}
	if s := c.Query("max"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max; expected an integer"})
			return q, false
		}
		q.max = v
	}
	return q, true
}

// @Summary      Samples after a cursor
// @Tags         telemetry
// @Produce      json
// @Param        since  query  int  false  "Last seen sample seq"
// @Param        max    query  int  false  "Page size, 1..200 (default 50)"
// @Success      200  {object}  map[string]interface{}  "samples, seq_end"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	q, ok := h.parseCursor(c)
	if !ok {
		return
	}
	b := h.services.Samples(q.since, q.max)
	c.JSON(http.StatusOK, gin.H{"samples": b.Items, "seq_end": b.SeqEnd})
}

// @Summary      Events after a cursor
// @Tags         telemetry
// @Produce      json
// @Param        since  query  int  false  "Last seen event seq"
// @Param        max    query  int  false  "Page size, 1..200 (default 50)"
// @Success      200  {object}  map[string]interface{}  "events, seq_end"
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	q, ok := h.parseCursor(c)
	if !ok {
		return
	}
	b := h.services.Events(q.since, q.max)
	c.JSON(http.StatusOK, gin.H{"events": b.Items, "seq_end": b.SeqEnd})
}

// @Summary      Finalized sessions
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  service.SessionHistory
// @Router       /api/v1/sessions [get]
func (h *Handler) getSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.ListSessions())
}
