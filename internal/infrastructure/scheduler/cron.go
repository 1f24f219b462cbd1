package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCronSchedule reads the minute, hour and day-of-month fields of a
// five-field cron expression. A "*" day yields 0, meaning every day. Month
// and day-of-week are not supported and must be "*".
// An empty expression yields the default of 02:00 on the 1st.
func ParseCronSchedule(expr string) (minute, hour, day int, err error) {
	minute, hour, day = 0, 2, 1
	parts := strings.Fields(expr)
	if len(parts) == 0 {
		return minute, hour, day, nil
	}
	if len(parts) != 5 {
		return 0, 0, 0, fmt.Errorf("cron expression must have 5 fields, got %d", len(parts))
	}
	if parts[3] != "*" || parts[4] != "*" {
		return 0, 0, 0, fmt.Errorf("month and day-of-week must be *, got %q %q", parts[3], parts[4])
	}

	fields := []struct {
		value    string
		target   *int
		name     string
		min, max int
	}{
		{parts[0], &minute, "minute", 0, 59},
		{parts[1], &hour, "hour", 0, 23},
		{parts[2], &day, "day", 1, 28},
	}
	for _, f := range fields {
		if f.value == "*" {
			if f.name != "day" {
				return 0, 0, 0, fmt.Errorf("%s must be a number", f.name)
			}
			*f.target = 0
			continue
		}
		v, convErr := strconv.Atoi(f.value)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("invalid %s %q: %w", f.name, f.value, convErr)
		}
		if v < f.min || v > f.max {
			return 0, 0, 0, fmt.Errorf("%s must be %d-%d, got %d", f.name, f.min, f.max, v)
		}
		*f.target = v
	}
	return minute, hour, day, nil
}
