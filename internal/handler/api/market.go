package api

import (
	"github.com/labstack/echo/v4"

	xhttp "AgroPulse/pkg/http"
)

func (h *FarmHandler) Market(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.market.State())
}

func (h *FarmHandler) RefreshMarket(c echo.Context) error {
	prices, err := h.market.Refresh(c.Request().Context())
	if err != nil {
		return h.fail(c, "market refresh", err)
	}
	return xhttp.SuccessResponse(c, prices)
}
