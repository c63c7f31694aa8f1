package forecast

import (
	"context"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
)

// Source provides the candidate base slots for a civil date.
type Source interface {
	Slots(ctx context.Context, date string) ([]types.BaseSlot, error)
}

// FixtureSource serves the fixed slot catalogue. Used when no forecast
// service is configured.
type FixtureSource struct{}

// Slots returns the built-in catalogue regardless of date.
func (FixtureSource) Slots(ctx context.Context, date string) ([]types.BaseSlot, error) {
	return types.DefaultBaseSlots(), nil
}

// ClientSource adapts Client to the Source interface.
type ClientSource struct {
	Client *Client
}

// Slots fetches the forecast for date.
func (s ClientSource) Slots(ctx context.Context, date string) ([]types.BaseSlot, error) {
	return s.Client.FetchSlots(ctx, date)
}
