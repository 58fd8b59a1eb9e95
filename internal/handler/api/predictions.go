package api

import (
	"time"

	"github.com/labstack/echo/v4"

	xhttp "AgroPulse/pkg/http"
)

// Predictions returns the recompute state. With ?lang= the bundle cached for that language
// is served when one exists.
func (h *FarmHandler) Predictions(c echo.Context) error {
	st := h.recompute.StateFor(c.Request().Context(), queryLang(c))
	enabled, every := h.recompute.Polling()
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"state": st,
		"polling": map[string]interface{}{
			"enabled":          enabled,
			"interval_seconds": int(every / time.Second),
		},
	})
}

// RefreshPredictions recomputes and waits for the result. A request replaced by a newer one
// gets 409.
func (h *FarmHandler) RefreshPredictions(c echo.Context) error {
	locale, verr := lang(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	b, err := h.recompute.Request(c.Request().Context(), locale)
	if err != nil {
		return h.fail(c, "recompute", err)
	}
	return xhttp.SuccessResponse(c, b)
}

func (h *FarmHandler) SetPolling(c echo.Context) error {
	req := &PollingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	every := time.Duration(req.IntervalSeconds) * time.Second
	if err := h.recompute.SetPolling(*req.Enabled, every); err != nil {
		return h.fail(c, "polling", xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"enabled":          *req.Enabled,
		"interval_seconds": req.IntervalSeconds,
	})
}
