package api

import (
	"time"

	"github.com/labstack/echo/v4"

	xhttp "AgroPulse/pkg/http"
)

// Health reports liveness and whether the farm state is seeded.
func (h *FarmHandler) Health(c echo.Context) error {
	_, err := h.sim.Snapshot()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":      "ok",
		"initialized": err == nil,
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *FarmHandler) Farm(c echo.Context) error {
	snap, err := h.sim.Snapshot()
	if err != nil {
		return h.fail(c, "farm", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, snap)
}

func (h *FarmHandler) Alerts(c echo.Context) error {
	snap, err := h.sim.Snapshot()
	if err != nil {
		return h.fail(c, "alerts", err)
	}
	return xhttp.SuccessResponse(c, h.alerts.Evaluate(snap))
}

func (h *FarmHandler) Dashboard(c echo.Context) error {
	res, err := h.dashboard.Get(c.Request().Context(), queryLang(c))
	if err != nil {
		return h.fail(c, "dashboard", err)
	}
	return xhttp.SuccessResponse(c, res)
}
