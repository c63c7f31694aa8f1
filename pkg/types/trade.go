package types

import "math"

// BaseSlot is a candidate time-windowed energy offer for one hourly slot.
// Base slots are immutable for a given plan generation; a forecast refresh
// regenerates the whole list.
type BaseSlot struct {
	ID          string  `json:"id"`
	TimeRange   string  `json:"timeRange"` // display form, e.g. "10:00 AM – 11:00 AM"
	QuantityKWH float64 `json:"kwh"`
	Price       float64 `json:"rate"` // ₹ per kWh
	Battery     bool    `json:"battery"`
}

// Earnings returns the rounded earnings for the slot (₹).
func (s BaseSlot) Earnings() float64 {
	return math.Round(s.QuantityKWH * s.Price)
}

// PlannedTrade is an active (non-excluded) slot annotated with its computed
// earnings. It is the shape persisted on publish.
type PlannedTrade struct {
	ID          string  `json:"id"`
	TimeRange   string  `json:"timeRange"`
	QuantityKWH float64 `json:"kwh"`
	Price       float64 `json:"rate"`
	Battery     bool    `json:"battery"`
	EarningsINR float64 `json:"earnings"`
}

// NewPlannedTrade annotates a base slot with its earnings.
func NewPlannedTrade(s BaseSlot) PlannedTrade {
	return PlannedTrade{
		ID:          s.ID,
		TimeRange:   s.TimeRange,
		QuantityKWH: s.QuantityKWH,
		Price:       s.Price,
		Battery:     s.Battery,
		EarningsINR: s.Earnings(),
	}
}

// ConfirmedTrade is a planned trade matched by the backend, carrying the
// buyer and the realized earnings.
type ConfirmedTrade struct {
	PlannedTrade
	Buyer               string  `json:"buyer"`
	RealizedEarningsINR float64 `json:"realizedEarnings"`
}

// TradeSubmission is the wire-shaped projection of a planned trade sent to
// the trade-acceptance endpoint. Start and end are UTC instants; the end is
// always start + 1 hour (slots have a fixed duration).
//
// The mixed key casing (startTime vs end_time) is what the backend accepts.
type TradeSubmission struct {
	Date      string  `json:"date"` // yyyy-MM-dd, IST civil date
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"end_time"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
}

// SubmissionRequest is the payload POSTed to the trade-acceptance endpoint.
type SubmissionRequest struct {
	Trades   []TradeSubmission `json:"trades"`
	UserID   string            `json:"userId,omitempty"`
	DeviceID string            `json:"deviceId,omitempty"`
}

// SubmissionSummary is returned by the trade-acceptance endpoint on success.
type SubmissionSummary struct {
	TradesCount   int     `json:"tradesCount"`
	TotalQuantity float64 `json:"totalQuantity"`
	TotalValue    float64 `json:"totalValue"`
	SubmittedAt   string  `json:"submittedAt"`
}
