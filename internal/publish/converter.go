package publish

import (
	"fmt"
	"strings"
	"time"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
)

// IST is the fixed offset the planner treats all display times as. The
// product serves a single market; wall-clock times are always Indian
// Standard Time and never cross a DST boundary.
var IST = time.FixedZone("IST", 5*3600+30*60)

// slotDuration is fixed for every trade. The display range's end token is
// never consulted.
const slotDuration = time.Hour

const utcISOFormat = "2006-01-02T15:04:05.000Z07:00"

// ParseDisplayStart parses the start token of a display time range
// ("10:00 AM – 11:00 AM") into a 24-hour hour and minute.
func ParseDisplayStart(timeRange string) (hour, minute int, err error) {
	token := timeRange
	for _, sep := range []string{"–", "-"} {
		if idx := strings.Index(token, sep); idx >= 0 {
			token = token[:idx]
			break
		}
	}
	token = strings.TrimSpace(token)

	parsed, err := time.Parse("3:04 PM", token)
	if err != nil {
		return 0, 0, fmt.Errorf("parse start token %q: %w", token, err)
	}

	return parsed.Hour(), parsed.Minute(), nil
}

// Tomorrow returns the IST civil date one day after now.
func Tomorrow(now time.Time) time.Time {
	return now.In(IST).AddDate(0, 0, 1)
}

// BuildSubmissions converts planned trades into the wire schema for the
// given IST civil target date. Each start instant is the trade's display
// start interpreted as IST wall-clock time on the target date, converted
// to UTC; the end is exactly one hour later.
//
// A malformed time range fails the whole batch; partial batches are never
// emitted.
func BuildSubmissions(trades []types.PlannedTrade, target time.Time) ([]types.TradeSubmission, error) {
	target = target.In(IST)
	year, month, day := target.Date()

	subs := make([]types.TradeSubmission, 0, len(trades))
	for _, tr := range trades {
		hour, minute, err := ParseDisplayStart(tr.TimeRange)
		if err != nil {
			return nil, fmt.Errorf("trade %s: %w", tr.ID, err)
		}

		start := time.Date(year, month, day, hour, minute, 0, 0, IST).UTC()
		end := start.Add(slotDuration)

		subs = append(subs, types.TradeSubmission{
			Date:      target.Format("2006-01-02"),
			StartTime: start.Format(utcISOFormat),
			EndTime:   end.Format(utcISOFormat),
			Quantity:  tr.QuantityKWH,
			Price:     tr.Price,
		})
	}

	return subs, nil
}
