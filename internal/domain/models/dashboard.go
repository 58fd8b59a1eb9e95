package models

// Dashboard aggregates every panel of the farm dashboard. Parts that failed are left empty and
// their error is reported under the part name in Errors.
type Dashboard struct {
	Farm        *FarmState        `json:"farm,omitempty"`
	Alerts      *AlertReport      `json:"alerts,omitempty"`
	Predictions RecomputeState    `json:"predictions"`
	Market      MarketState       `json:"market"`
	Irrigation  *IrrigationState  `json:"irrigation,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}
