package plan

import (
	"math"
	"reflect"
	"testing"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

func newTestEngine() *Engine {
	return New(&Config{
		BaseSlots: types.DefaultBaseSlots(),
		Logger:    zap.NewNop(),
	})
}

func TestActivePlan_Idempotent(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-12")

	first := e.ActivePlan()
	second := e.ActivePlan()

	if !reflect.DeepEqual(first, second) {
		t.Error("expected structurally equal results from repeated ActivePlan calls")
	}
}

func TestActivePlan_PauseDominance(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-10")
	e.PauseAll()

	if got := e.ActivePlan(); len(got) != 0 {
		t.Errorf("expected empty plan while paused, got %d slots", len(got))
	}

	// Pause dominates even with an empty exclusion set.
	e.ResetExclusions()
	if got := e.ActivePlan(); len(got) != 0 {
		t.Errorf("expected empty plan while paused after reset, got %d slots", len(got))
	}
}

func TestResumeAll_PreservesExclusions(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-10")
	e.ExcludeSlot("slot-11")
	e.PauseAll()
	e.ResumeAll()

	got := e.ActivePlan()
	if len(got) != 4 {
		t.Errorf("expected 4 active slots after manual resume, got %d", len(got))
	}

	for _, tr := range got {
		if tr.ID == "slot-10" || tr.ID == "slot-11" {
			t.Errorf("expected %s to stay excluded after manual resume", tr.ID)
		}
	}
}

func TestExcludeSlot_UnknownIDHarmless(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-99")

	if got := e.ActivePlan(); len(got) != 6 {
		t.Errorf("expected full plan, got %d slots", len(got))
	}
}

func TestExcludeSlot_Idempotent(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-10")
	e.ExcludeSlot("slot-10")

	if got := e.Snapshot().ExcludedCount; got != 1 {
		t.Errorf("expected 1 exclusion, got %d", got)
	}
}

func TestIncludeSlot_RestoresSingleSlot(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-10")
	e.ExcludeSlot("slot-11")
	e.IncludeSlot("slot-10")

	got := e.ActivePlan()
	if len(got) != 5 {
		t.Fatalf("expected 5 active slots, got %d", len(got))
	}
	if got[0].ID != "slot-10" {
		t.Errorf("expected slot-10 restored first, got %s", got[0].ID)
	}
}

func TestResetExclusions_KeepsPauseFlag(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-10")
	e.PauseAll()
	e.ResetExclusions()

	if !e.Paused() {
		t.Error("expected pause flag to survive exclusion reset")
	}
	if got := e.Snapshot().ExcludedCount; got != 0 {
		t.Errorf("expected 0 exclusions after reset, got %d", got)
	}
}

func TestSnapshot_AggregateConsistency(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-13")

	snap := e.Snapshot()

	var units, earnings float64
	for _, tr := range snap.Slots {
		units += tr.QuantityKWH
		earnings += math.Round(tr.QuantityKWH * tr.Price)
	}

	if snap.TotalUnits != units {
		t.Errorf("total units %v diverged from fold %v", snap.TotalUnits, units)
	}
	if snap.TotalEarnings != earnings {
		t.Errorf("total earnings %v diverged from fold %v", snap.TotalEarnings, earnings)
	}
}

func TestSetBaseSlots_ReplacesWholesale(t *testing.T) {
	e := newTestEngine()
	e.ExcludeSlot("slot-10")

	e.SetBaseSlots([]types.BaseSlot{
		{ID: "slot-10", TimeRange: "10:00 AM – 11:00 AM", QuantityKWH: 2, Price: 7.10},
		{ID: "slot-11", TimeRange: "11:00 AM – 12:00 PM", QuantityKWH: 3, Price: 7.00},
	})

	got := e.ActivePlan()
	// Prior exclusion still applies to the regenerated catalogue.
	if len(got) != 1 {
		t.Fatalf("expected 1 active slot, got %d", len(got))
	}
	if got[0].ID != "slot-11" {
		t.Errorf("expected slot-11, got %s", got[0].ID)
	}
	if got[0].EarningsINR != math.Round(3*7.00) {
		t.Errorf("expected recomputed earnings, got %v", got[0].EarningsINR)
	}
}

func TestUpdates_SnapshotPerMutation(t *testing.T) {
	e := newTestEngine()

	e.ExcludeSlot("slot-10")

	select {
	case snap := <-e.Updates():
		if len(snap.Slots) != 5 {
			t.Errorf("expected 5 slots in update snapshot, got %d", len(snap.Slots))
		}
	default:
		t.Fatal("expected a snapshot on the updates channel")
	}
}

func TestNew_CopiesBaseSlots(t *testing.T) {
	slots := types.DefaultBaseSlots()
	e := New(&Config{
		BaseSlots: slots,
		Logger:    zap.NewNop(),
	})

	// Mutating the caller's slice must not leak into engine state.
	slots[0].QuantityKWH = 999
	slots[0].ID = "slot-99"

	got := e.ActivePlan()
	if got[0].ID != "slot-10" {
		t.Errorf("expected slot-10, got %s", got[0].ID)
	}
	if got[0].QuantityKWH == 999 {
		t.Error("caller mutation leaked into the engine's base slots")
	}
}
