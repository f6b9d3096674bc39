package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"controlling_motor/internal/controller"
	"controlling_motor/internal/service"
)

// @Summary      Device configuration
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.DeviceConfig
// @Router       /api/v1/config [get]
func (h *Handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.GetConfig())
}

// @Summary      Update configuration
// @Description  Partial update; omitted fields keep their value. ovc_mode accepts "latch", "auto", 0 or 1.
// @Description  Values that cannot be converted are skipped and listed in "ignored"; the other fields still apply.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  models.DeviceConfig  true  "Fields to change"
// @Success      200  {object}  service.ConfigUpdate
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/config [post]
// @Security     BearerAuth
func (h *Handler) setConfig(c *gin.Context) {
	var body map[string]any
	if ok := h.bindJSONOrBadRequest(c, &body); !ok {
		return
	}
	patch, ignored := service.ParseConfigPatch(body)
	if len(ignored) > 0 && h.log != nil {
		h.log.Infow("config_fields_ignored", "keys", ignored)
	}
	cfg := h.services.UpdateConfig(c.Request.Context(), patch)
	c.JSON(http.StatusOK, service.ConfigUpdate{DeviceConfig: cfg, Ignored: ignored})
}

// @Summary      Current-sensor calibration
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Calibration
// @Router       /api/v1/calibration [get]
func (h *Handler) getCalibration(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.GetCalibration())
}

// @Summary      Calibrate current sensor
// @Description  current_zero captures the resting voltage; current_sensitivity updates zero_mv, sens_mv_a, input_scale
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  service.CalibrateRequest  true  "Calibration action"
// @Success      200  {object}  service.CalibrationUpdate
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/calibrate [post]
// @Security     BearerAuth
func (h *Handler) calibrate(c *gin.Context) {
	var body map[string]any
	if ok := h.bindJSONOrBadRequest(c, &body); !ok {
		return
	}
	req, ignored := service.ParseCalibrateRequest(body)
	cal, err := h.services.Calibrate(c.Request.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrUnknownCalibration) || errors.Is(err, controller.ErrZeroUnsupported) {
			code = http.StatusBadRequest
		}
		h.logAndJSONError(c, code, err.Error(), "calibrate_failed", err, "action", req.Action)
		return
	}
	c.JSON(http.StatusOK, service.CalibrationUpdate{Calibration: cal, Ignored: ignored})
}
