package api

// LangRequest carries the optional dashboard language.
type LangRequest struct {
	Lang string `json:"lang" query:"lang" default:"en" validate:"max=16"`
}

// PollingRequest toggles prediction polling.
type PollingRequest struct {
	Enabled         *bool `json:"enabled" validate:"required"`
	IntervalSeconds int   `json:"interval_seconds" default:"65" validate:"min=1,max=86400"`
}

// ManualIrrigationRequest starts or stops the pump in manual mode.
type ManualIrrigationRequest struct {
	On *bool `json:"on" validate:"required"`
}
