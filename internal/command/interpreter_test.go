package command

import (
	"strings"
	"testing"

	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

func newFixture(t *testing.T) (*Interpreter, *plan.Engine) {
	t.Helper()

	engine := plan.New(&plan.Config{
		BaseSlots: types.DefaultBaseSlots(),
		Logger:    zap.NewNop(),
	})

	interp := New(&Config{
		Plan:   engine,
		Logger: zap.NewNop(),
	})

	return interp, engine
}

func TestInterpret_PauseAll(t *testing.T) {
	tests := []string{
		"pause all trading",
		"please STOP ALL sales today",
	}

	for _, text := range tests {
		interp, engine := newFixture(t)

		res := interp.Interpret(text)

		if !res.Matched || res.Rule != "pause-all" {
			t.Errorf("%q: expected pause-all to fire, got rule %q", text, res.Rule)
		}
		if !engine.Paused() {
			t.Errorf("%q: expected plan to be paused", text)
		}
		if len(engine.ActivePlan()) != 0 {
			t.Errorf("%q: expected empty active plan", text)
		}
	}
}

// The parsed resume command clears exclusions; the manual resume operation
// does not. The two paths must observably differ on identical state.
func TestInterpret_ResumeAsymmetry(t *testing.T) {
	// Manual path: exclusions survive.
	_, manual := newFixture(t)
	manual.ExcludeSlot("slot-10")
	manual.ExcludeSlot("slot-11")
	manual.PauseAll()
	manual.ResumeAll()
	manualSize := len(manual.ActivePlan())

	// Command path: exclusions cleared.
	interp, commanded := newFixture(t)
	commanded.ExcludeSlot("slot-10")
	commanded.ExcludeSlot("slot-11")
	commanded.PauseAll()

	res := interp.Interpret("resume selling please")
	if !res.Matched || res.Rule != "resume" {
		t.Fatalf("expected resume rule, got %q", res.Rule)
	}
	commandSize := len(commanded.ActivePlan())

	if manualSize != 4 {
		t.Errorf("expected manual resume to keep exclusions (4 slots), got %d", manualSize)
	}
	if commandSize != 6 {
		t.Errorf("expected commanded resume to clear exclusions (6 slots), got %d", commandSize)
	}
	if manualSize == commandSize {
		t.Error("manual and commanded resume must differ")
	}
}

func TestInterpret_Unpause(t *testing.T) {
	interp, engine := newFixture(t)
	engine.PauseAll()

	interp.Interpret("unpause")

	if engine.Paused() {
		t.Error("expected plan to be unpaused")
	}
}

func TestInterpret_TimeWindow(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantExcluded int
		wantGone     []string
	}{
		{
			name:         "between-one-and-three-pm",
			text:         "don't sell between 1 and 3 PM",
			wantExcluded: 2,
			wantGone:     []string{"slot-13", "slot-14"},
		},
		{
			name:         "do-not-sell-to",
			text:         "do not sell 10am to 12pm",
			wantExcluded: 2,
			wantGone:     []string{"slot-10", "slot-11"},
		},
		{
			name:         "no-sell-dash",
			text:         "no sell 5pm - 6pm",
			wantExcluded: 1,
			wantGone:     []string{"slot-17"},
		},
		{
			name:         "pm-promotes-both-bounds",
			text:         "don't sell between 12 and 2 pm",
			wantExcluded: 2,
			wantGone:     []string{"slot-12", "slot-13"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp, engine := newFixture(t)

			res := interp.Interpret(tt.text)

			if !res.Matched || res.Rule != "time-window" {
				t.Fatalf("expected time-window rule, got %q", res.Rule)
			}
			if res.Excluded != tt.wantExcluded {
				t.Errorf("expected %d excluded, got %d", tt.wantExcluded, res.Excluded)
			}

			active := engine.ActivePlan()
			for _, tr := range active {
				for _, gone := range tt.wantGone {
					if tr.ID == gone {
						t.Errorf("expected %s to be excluded", gone)
					}
				}
			}
		})
	}
}

func TestInterpret_TimeWindowReplyCountsSlots(t *testing.T) {
	interp, _ := newFixture(t)

	res := interp.Interpret("don't sell between 1 and 3 PM")

	if !strings.Contains(res.Reply, "2 time slots excluded.") {
		t.Errorf("expected reply to report 2 time slots excluded, got %q", res.Reply)
	}
}

func TestInterpret_PriceThresholdStrict(t *testing.T) {
	interp, engine := newFixture(t)

	// Prices: 6.25, 6.20, 6.30, 6.35, 6.40, 6.50.
	// Strictly below 6.30: 6.25 and 6.20 only.
	res := interp.Interpret("only sell if price > 6.30")

	if !res.Matched || res.Rule != "price-threshold" {
		t.Fatalf("expected price-threshold rule, got %q", res.Rule)
	}
	if res.Excluded != 2 {
		t.Errorf("expected 2 excluded, got %d", res.Excluded)
	}

	for _, tr := range engine.ActivePlan() {
		if tr.Price < 6.30 {
			t.Errorf("slot %s priced %v should be excluded", tr.ID, tr.Price)
		}
	}
	if len(engine.ActivePlan()) != 4 {
		t.Errorf("expected 4 active slots, got %d", len(engine.ActivePlan()))
	}
}

func TestInterpret_PriceThresholdRupeeSign(t *testing.T) {
	interp, _ := newFixture(t)

	res := interp.Interpret("price > ₹6.35")

	if res.Rule != "price-threshold" {
		t.Fatalf("expected price-threshold rule, got %q", res.Rule)
	}
	if res.Excluded != 3 {
		t.Errorf("expected 3 excluded, got %d", res.Excluded)
	}
}

func TestInterpret_GuestEvening(t *testing.T) {
	interp, engine := newFixture(t)

	res := interp.Interpret("we have guests coming over")

	if res.Rule != "guest-evening" {
		t.Fatalf("expected guest-evening rule, got %q", res.Rule)
	}
	if res.Excluded != 4 {
		t.Errorf("expected 4 excluded, got %d", res.Excluded)
	}

	active := engine.ActivePlan()
	if len(active) != 2 {
		t.Fatalf("expected 2 active slots, got %d", len(active))
	}
	if active[0].ID != "slot-10" || active[1].ID != "slot-11" {
		t.Errorf("expected morning slots to survive, got %s, %s", active[0].ID, active[1].ID)
	}
}

func TestInterpret_Fallback(t *testing.T) {
	interp, engine := newFixture(t)

	res := interp.Interpret("what's the weather tomorrow?")

	if res.Matched {
		t.Error("expected no rule to match")
	}
	if res.Reply == "" {
		t.Error("expected generic acknowledgement")
	}
	if len(engine.ActivePlan()) != 6 {
		t.Error("expected no state mutation on fallback")
	}
}

// Earlier rules win when a message could match more than one pattern.
func TestInterpret_FirstMatchWins(t *testing.T) {
	interp, engine := newFixture(t)

	res := interp.Interpret("pause all, then resume tomorrow evening")

	if res.Rule != "pause-all" {
		t.Errorf("expected pause-all to take precedence, got %q", res.Rule)
	}
	if !engine.Paused() {
		t.Error("expected plan to be paused")
	}
	if engine.Snapshot().ExcludedCount != 0 {
		t.Error("expected later rules not to fire")
	}
}
