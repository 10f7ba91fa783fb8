// Package interval implements the pure time-range math underneath the
// availability resolver and the conflict guard. All ranges are half-open:
// [start, end). Touching endpoints never count as overlap, so a booking
// ending at 10:00 and one starting at 10:00 coexist.
package interval

import (
	"sort"

	"roomsched/pkg/model"
)

// Overlaps reports whether two half-open ranges share strictly more than a
// boundary instant.
func Overlaps(a, b model.TimeSlot) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
}

// Clip trims s to window. The second return is false when nothing of s
// remains inside the window.
func Clip(s, window model.TimeSlot) (model.TimeSlot, bool) {
	start := s.StartTime
	if start.Before(window.StartTime) {
		start = window.StartTime
	}
	end := s.EndTime
	if end.After(window.EndTime) {
		end = window.EndTime
	}
	if !start.Before(end) {
		return model.TimeSlot{}, false
	}
	return model.TimeSlot{StartTime: start, EndTime: end}, true
}

// Merge sorts the given slots and coalesces overlapping or touching ones.
// The input is not modified.
func Merge(slots []model.TimeSlot) []model.TimeSlot {
	if len(slots) == 0 {
		return nil
	}

	sorted := make([]model.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	merged := []model.TimeSlot{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !s.StartTime.After(last.EndTime) {
			if s.EndTime.After(last.EndTime) {
				last.EndTime = s.EndTime
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Subtract returns the ordered gaps in window not covered by busy. Busy
// ranges are clipped to the window and merged first; the cursor then walks
// left to right emitting a gap whenever the next busy range starts after
// it. Zero-length gaps are never emitted.
func Subtract(window model.TimeSlot, busy []model.TimeSlot) []model.TimeSlot {
	if !window.IsValid() {
		return nil
	}

	clipped := make([]model.TimeSlot, 0, len(busy))
	for _, b := range busy {
		if c, ok := Clip(b, window); ok {
			clipped = append(clipped, c)
		}
	}

	var gaps []model.TimeSlot
	cursor := window.StartTime
	for _, b := range Merge(clipped) {
		if b.StartTime.After(cursor) {
			gaps = append(gaps, model.TimeSlot{StartTime: cursor, EndTime: b.StartTime})
		}
		if b.EndTime.After(cursor) {
			cursor = b.EndTime
		}
	}
	if cursor.Before(window.EndTime) {
		gaps = append(gaps, model.TimeSlot{StartTime: cursor, EndTime: window.EndTime})
	}
	return gaps
}
