package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/harentsoaR/mediqueue-api/internal/models"
)

// slotLabelLayout renders one edge of a slot label in 12-hour clock form,
// e.g. "09:00 AM". A full label is two edges joined by a hyphen.
const slotLabelLayout = "03:04 PM"

// slotDuration is fixed; every bookable slot is one hour wide.
const slotDuration = 60

// Slot is a single bookable interval within a doctor's daily window.
type Slot struct {
	Time   string `json:"time"`
	IsFull bool   `json:"isFull"`
}

// parseClock parses a 24-hour "HH:MM" string into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %v", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	// The trailing edge of the last slot may pass midnight.
	h := (minutes / 60) % 24
	m := minutes % 60
	return time.Date(0, time.January, 1, h, m, 0, 0, time.UTC).Format(slotLabelLayout)
}

// GenerateSlots derives the ordered bookable slots for one availability
// window. Slots start at the window start and advance one hour at a time;
// the last slot is the one whose start is still before the window end, even
// when its own end runs past it. A window with start >= end yields nothing.
// Pure function of the window; all slots come back not-full.
func GenerateSlots(window models.AvailabilityWindow) ([]Slot, error) {
	start, err := parseClock(window.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(window.End)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for cur := start; cur < end; cur += slotDuration {
		label := formatClock(cur) + "-" + formatClock(cur+slotDuration)
		slots = append(slots, Slot{Time: label})
	}
	return slots, nil
}

// MarkOccupancy flags every slot whose appointment count for the day has
// reached capacity. Appointments are matched to slots by exact label.
func MarkOccupancy(slots []Slot, appointments []models.Appointment, capacity int) {
	counts := make(map[string]int, len(appointments))
	for _, apt := range appointments {
		counts[apt.TimeSlot]++
	}
	for i := range slots {
		if counts[slots[i].Time] >= capacity {
			slots[i].IsFull = true
		}
	}
}

// SlotStart parses the start time out of a slot label such as
// "09:00 AM-10:00 AM".
func SlotStart(label string) (time.Time, error) {
	start, _, found := strings.Cut(label, "-")
	if !found {
		return time.Time{}, fmt.Errorf("invalid time slot %q", label)
	}
	t, err := time.Parse(slotLabelLayout, strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: %v", label, err)
	}
	return t, nil
}
