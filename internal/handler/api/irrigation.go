package api

import (
	"github.com/labstack/echo/v4"

	"AgroPulse/internal/domain/models"
	xhttp "AgroPulse/pkg/http"
)

func (h *FarmHandler) Irrigation(c echo.Context) error {
	st, err := h.irrigation.Status()
	if err != nil {
		return h.fail(c, "irrigation", err)
	}
	return xhttp.SuccessResponse(c, st)
}

func (h *FarmHandler) UpdateIrrigation(c echo.Context) error {
	req := &models.IrrigationSettings{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.irrigation.UpdateSettings(*req); err != nil {
		return h.fail(c, "irrigation settings", xhttp.BadRequestError(err.Error()))
	}
	return h.Irrigation(c)
}

func (h *FarmHandler) ManualIrrigation(c echo.Context) error {
	req := &ManualIrrigationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	st, err := h.irrigation.SetManual(*req.On)
	if err != nil {
		return h.fail(c, "manual irrigation", err)
	}
	return xhttp.SuccessResponse(c, st)
}
