package api

import (
	"context"
	"errors"

	"AgroPulse/internal/domain/models"
	xhttp "AgroPulse/pkg/http"
)

// toAppError maps domain errors onto the HTTP error envelope.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, models.ErrNoData):
		return xhttp.ServiceUnavailableError("ERR_NO_DATA", "farm data is not available yet").WithError(err)
	case errors.Is(err, models.ErrRecomputeFailed):
		return xhttp.BadGatewayError("ERR_RECOMPUTE", models.RecomputeErrorMessage()).WithError(err)
	case errors.Is(err, models.ErrSuperseded):
		return xhttp.ConflictError("request superseded by a newer one").WithError(err)
	case errors.Is(err, models.ErrInvalidImage):
		return xhttp.BadRequestError("invalid image").WithError(err)
	case errors.Is(err, models.ErrIrrigationRefused):
		return xhttp.ConflictError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrCameraUnavailable):
		return xhttp.ServiceUnavailableError("ERR_CAMERA", "camera unavailable").WithError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xhttp.ServiceUnavailableError("ERR_CANCELED", "request canceled").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
