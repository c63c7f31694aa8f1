package command

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pauseRule matches "pause all" / "stop all" and pauses the whole plan.
type pauseRule struct{}

func (pauseRule) Name() string { return "pause-all" }

func (pauseRule) Run(plan Plan, text string) (Result, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "pause all") && !strings.Contains(lower, "stop all") {
		return Result{}, false
	}

	plan.PauseAll()

	return Result{
		Reply: "Paused. No energy will be sold until you resume.",
	}, true
}

// resumeRule matches "resume" / "unpause". Unlike the manual resume
// operation it also clears individual exclusions; the two paths diverge on
// purpose and callers depend on the difference.
type resumeRule struct{}

func (resumeRule) Name() string { return "resume" }

func (resumeRule) Run(plan Plan, text string) (Result, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "resume") && !strings.Contains(lower, "unpause") {
		return Result{}, false
	}

	plan.ResumeAll()
	plan.ResetExclusions()

	return Result{
		Reply: "Resumed selling. Your full plan is active again.",
	}, true
}

var timeWindowPattern = regexp.MustCompile(
	`(?i)(?:don'?t|do not|no)\s+sell\s+(?:between\s+)?(\d{1,2})\s*(am|pm)?\s*(?:and|to|-)\s*(\d{1,2})\s*(am|pm)?`)

// timeWindowRule excludes every whole hour in [start, end) that maps to a
// catalogue slot. A PM marker on either bound promotes both bounds to
// PM-space before the range is computed.
type timeWindowRule struct {
	hours map[int]string
}

func (timeWindowRule) Name() string { return "time-window" }

func (r timeWindowRule) Run(plan Plan, text string) (Result, bool) {
	m := timeWindowPattern.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Result{}, false
	}
	end, err := strconv.Atoi(m[3])
	if err != nil {
		return Result{}, false
	}

	startPeriod := strings.ToLower(m[2])
	endPeriod := strings.ToLower(m[4])

	start = promoteHour(start, startPeriod, endPeriod)
	end = promoteHour(end, endPeriod, startPeriod)

	excluded := 0
	for h := start; h < end; h++ {
		id, ok := r.hours[h]
		if !ok {
			continue
		}
		plan.ExcludeSlot(id)
		excluded++
	}

	return Result{
		Reply: fmt.Sprintf("Okay, no selling between %s and %s. %d time slots excluded.",
			formatHour(start), formatHour(end), excluded),
		Excluded: excluded,
	}, true
}

// promoteHour converts an hour bound to 24-hour space. A bound without an
// explicit am/pm marker inherits the other bound's period, so a PM marker
// on either side promotes both unmarked bounds to PM-space. An explicit AM
// marker is never promoted.
func promoteHour(h int, period, other string) int {
	if h >= 12 {
		return h
	}
	if period == "pm" || (period == "" && other == "pm") {
		return h + 12
	}
	return h
}

func formatHour(h int) string {
	period := "AM"
	display := h
	switch {
	case h == 0:
		display = 12
	case h == 12:
		period = "PM"
	case h > 12:
		display = h - 12
		period = "PM"
	}
	return fmt.Sprintf("%d %s", display, period)
}

var priceThresholdPattern = regexp.MustCompile(`(?i)price\s*>\s*₹?\s*(\d+(?:\.\d+)?)`)

// priceThresholdRule excludes every base slot priced strictly below the
// threshold. Slots priced exactly at the threshold stay in the plan.
type priceThresholdRule struct{}

func (priceThresholdRule) Name() string { return "price-threshold" }

func (priceThresholdRule) Run(plan Plan, text string) (Result, bool) {
	m := priceThresholdPattern.FindStringSubmatch(text)
	if m == nil {
		return Result{}, false
	}

	threshold, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Result{}, false
	}

	excluded := 0
	for _, s := range plan.BaseSlots() {
		if s.Price < threshold {
			plan.ExcludeSlot(s.ID)
			excluded++
		}
	}

	return Result{
		Reply: fmt.Sprintf("Keeping only slots priced at ₹%.2f or above. %d slots excluded.",
			threshold, excluded),
		Excluded: excluded,
	}, true
}

// eveningRule frees up the fixed afternoon/evening slots when the user
// mentions guests or the evening.
type eveningRule struct {
	ids []string
}

func (eveningRule) Name() string { return "guest-evening" }

func (r eveningRule) Run(plan Plan, text string) (Result, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "guest") && !strings.Contains(lower, "evening") {
		return Result{}, false
	}

	for _, id := range r.ids {
		plan.ExcludeSlot(id)
	}

	return Result{
		Reply: fmt.Sprintf("Freed up the afternoon and evening for you. %d slots excluded.",
			len(r.ids)),
		Excluded: len(r.ids),
	}, true
}
