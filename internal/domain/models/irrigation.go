package models

import "time"

type IrrigationMode string

const (
	IrrigationOff       IrrigationMode = "off"
	IrrigationAutomatic IrrigationMode = "automatic"
	IrrigationManual    IrrigationMode = "manual"
)

type IrrigationStatus string

const (
	StatusOff        IrrigationStatus = "Off"
	StatusInactive   IrrigationStatus = "Inactive"
	StatusSuspended  IrrigationStatus = "Suspended"
	StatusIrrigating IrrigationStatus = "Irrigating"
)

const (
	SuspendedRain      = "rain"
	SuspendedSaturated = "saturated"
)

// SaturationThreshold is the soil moisture above which irrigation is suspended.
const SaturationThreshold = 70.0

type IrrigationSettings struct {
	Mode  IrrigationMode `json:"mode" validate:"required,oneof=off automatic manual"`
	Start string         `json:"start" validate:"required,datetime=15:04"`
	End   string         `json:"end" validate:"required,datetime=15:04"`
}

type IrrigationState struct {
	Settings    IrrigationSettings `json:"settings"`
	ManualOn    bool               `json:"manualOn"`
	Status      IrrigationStatus   `json:"status"`
	Reason      string             `json:"reason,omitempty"`
	EvaluatedAt time.Time          `json:"evaluatedAt"`
}
