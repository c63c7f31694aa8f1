package forecast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Client is an HTTP client for the forecast service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new forecast client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type forecastRequest struct {
	Date string `json:"date"` // yyyy-MM-dd
}

type forecastResponse struct {
	ForecastWindows []forecastWindow `json:"forecast_windows"`
}

// forecastWindow is one hourly window in the forecast response. Fields the
// service omits default to zero values; defaulting happens here at the
// boundary, not at call sites.
type forecastWindow struct {
	StartTime      string  `json:"start_time"` // "HH:MM", 24-hour
	PriceINR       float64 `json:"price"`
	QuantityKWH    float64 `json:"quantity_kwh"`
	BatterySourced bool    `json:"battery_sourced"`
}

// FetchSlots requests the forecast for the given civil date and maps the
// returned windows onto catalogue base slots.
func (c *Client) FetchSlots(ctx context.Context, date string) ([]types.BaseSlot, error) {
	payload, err := json.Marshal(forecastRequest{Date: date})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching-forecast",
		zap.String("url", c.baseURL),
		zap.String("date", date))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		FetchErrorsTotal.Inc()
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		FetchErrorsTotal.Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var fr forecastResponse
	err = json.Unmarshal(body, &fr)
	if err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	FetchesTotal.Inc()

	slots := make([]types.BaseSlot, 0, len(fr.ForecastWindows))
	for _, w := range fr.ForecastWindows {
		slot, convErr := windowToSlot(w)
		if convErr != nil {
			c.logger.Warn("forecast-window-skipped",
				zap.String("start-time", w.StartTime),
				zap.Error(convErr))
			continue
		}
		slots = append(slots, slot)
	}

	c.logger.Info("forecast-fetched",
		zap.String("date", date),
		zap.Int("windows", len(fr.ForecastWindows)),
		zap.Int("slots", len(slots)))

	return slots, nil
}

// windowToSlot maps a forecast window onto a catalogue slot with a display
// time range. Hours outside the catalogue get a generated id.
func windowToSlot(w forecastWindow) (types.BaseSlot, error) {
	start, err := time.Parse("15:04", w.StartTime)
	if err != nil {
		return types.BaseSlot{}, fmt.Errorf("parse start time %q: %w", w.StartTime, err)
	}

	hour := start.Hour()
	id, ok := types.SlotIDForHour[hour]
	if !ok {
		id = fmt.Sprintf("slot-%02d", hour)
	}

	return types.BaseSlot{
		ID:          id,
		TimeRange:   displayRange(start),
		QuantityKWH: w.QuantityKWH,
		Price:       w.PriceINR,
		Battery:     w.BatterySourced,
	}, nil
}

func displayRange(start time.Time) string {
	end := start.Add(time.Hour)
	return fmt.Sprintf("%s – %s", start.Format("3:04 PM"), end.Format("3:04 PM"))
}
