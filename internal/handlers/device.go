package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/service"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInvalidBodyPref = "invalid body: "
	errCommandFailed   = "command failed"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Device identity
// @Tags         device
// @Produce      json
// @Success      200  {object}  models.DeviceInfo
// @Router       /api/v1/info [get]
func (h *Handler) getInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Info())
}

// @Summary      Current status snapshot
// @Tags         device
// @Produce      json
// @Success      200  {object}  models.Status
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.GetStatus())
}

// @Summary      Control action
// @Description  start, stop, relay_on, relay_off or clear_fault
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        body  body  service.ControlRequest  true  "Action"
// @Success      200  {object}  map[string]interface{}  "status, action, state"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/control [post]
// @Security     BearerAuth
func (h *Handler) control(c *gin.Context) {
	var req service.ControlRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.Command(c.Request.Context(), req.Action)
	if err != nil {
		if errors.Is(err, controller.ErrUnknownAction) {
			h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "control_rejected", err, "action", req.Action)
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCommandFailed, "control_failed", err, "action", req.Action)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "action": req.Action, "state": st})
}

// @Summary      Run for a fixed time
// @Description  Seconds above run_max_s are clamped; zero or negative is ignored
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        body  body  service.RunTimerRequest  true  "Duration"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/run_timer [post]
// @Security     BearerAuth
func (h *Handler) runTimer(c *gin.Context) {
	var req service.RunTimerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st := h.services.RunTimer(c.Request.Context(), req.Seconds)
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "run_remaining_s": st.RunRemainingS, "state": st})
}

// @Summary      Set wall clock
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        body  body  service.EpochRequest  true  "Unix seconds"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/rtc [post]
// @Security     BearerAuth
func (h *Handler) setRTC(c *gin.Context) {
	var req service.EpochRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	st, err := h.services.SetEpoch(c.Request.Context(), req.Epoch)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), "rtc_rejected", err, "epoch", req.Epoch)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "epoch": st.Epoch, "rtc_calibrated": st.RtcCalibrated})
}
