package types

// SlotIDForHour maps a 24-hour start hour to the catalogue slot id used by
// the planner. Hours outside the selling window have no slot.
var SlotIDForHour = map[int]string{
	10: "slot-10",
	11: "slot-11",
	12: "slot-12",
	13: "slot-13",
	14: "slot-14",
	17: "slot-17",
}

// EveningSlotIDs are the afternoon/evening slots released by the
// guest/evening command.
var EveningSlotIDs = []string{"slot-12", "slot-13", "slot-14", "slot-17"}

// DefaultBaseSlots is the fixed candidate catalogue used when no forecast
// source is configured.
func DefaultBaseSlots() []BaseSlot {
	return []BaseSlot{
		{ID: "slot-10", TimeRange: "10:00 AM – 11:00 AM", QuantityKWH: 4, Price: 6.25},
		{ID: "slot-11", TimeRange: "11:00 AM – 12:00 PM", QuantityKWH: 5, Price: 6.20},
		{ID: "slot-12", TimeRange: "12:00 PM – 1:00 PM", QuantityKWH: 6, Price: 6.30},
		{ID: "slot-13", TimeRange: "1:00 PM – 2:00 PM", QuantityKWH: 5, Price: 6.35},
		{ID: "slot-14", TimeRange: "2:00 PM – 3:00 PM", QuantityKWH: 4, Price: 6.40},
		{ID: "slot-17", TimeRange: "5:00 PM – 6:00 PM", QuantityKWH: 3, Price: 6.50, Battery: true},
	}
}
