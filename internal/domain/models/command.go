package models

import "time"

type CommandType string

const (
	CommandRecompute     CommandType = "recompute"
	CommandRefreshMarket CommandType = "refresh_market"
	CommandIrrigation    CommandType = "irrigation"
)

// Command is a control message received on the command topic.
type Command struct {
	ID         string              `json:"id"`
	Type       CommandType         `json:"type" validate:"required,oneof=recompute refresh_market irrigation"`
	Locale     string              `json:"lang,omitempty"`
	Irrigation *IrrigationSettings `json:"irrigation,omitempty"`
	ManualOn   *bool               `json:"manualOn,omitempty"`
	IssuedAt   time.Time           `json:"issuedAt"`
}

// TelemetryEvent is what gets published for every applied tick.
type TelemetryEvent struct {
	Farm   FarmState   `json:"farm"`
	Alerts AlertReport `json:"alerts"`
}
