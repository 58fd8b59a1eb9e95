package models

import "errors"

var (
	// ErrNoData is returned when a snapshot is requested before the simulator is initialized.
	ErrNoData = errors.New("no farm data available")

	// ErrRecomputeFailed wraps any failure of the prediction provider.
	ErrRecomputeFailed = errors.New("recompute failed")

	// ErrSuperseded is returned to a request that a newer request of the same kind replaced.
	ErrSuperseded = errors.New("request superseded by a newer one")

	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrInvalidImage      = errors.New("invalid image")
	ErrIrrigationRefused = errors.New("manual irrigation refused")
	ErrUnknownCommand    = errors.New("unknown command")
)
