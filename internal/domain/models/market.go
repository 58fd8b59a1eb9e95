package models

import "time"

const PriceUnit = "perQuintal"

type MarketPrice struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

type MarketState struct {
	Prices    []MarketPrice `json:"prices"`
	Pending   bool          `json:"pending"`
	Error     string        `json:"error,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
