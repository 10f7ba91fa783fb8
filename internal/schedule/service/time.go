package service

import (
	"regexp"
	"strconv"
	"time"

	apperrors "roomsched/pkg/errors"
)

const dateLayout = "2006-01-02"

// Wall-clock times travel as hyphen-delimited HH-MM-SS so they survive
// URL query strings without escaping.
var clockPattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{2})$`)

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidTimeFormat(value)
	}
	return day.UTC(), nil
}

// ParseClock parses an HH-MM-SS wall-clock time into an offset from
// midnight. Out-of-range components are rejected, not wrapped.
func ParseClock(value string) (time.Duration, error) {
	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, apperrors.InvalidTimeFormat(value)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, apperrors.InvalidTimeFormat(value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, nil
}
