package util

import (
    "fmt"
    "strconv"
    "strings"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// MonthDay formats t as "M/D" without zero padding, the label used by chart series.
func MonthDay(t time.Time) string {
    return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}

// DaysAgo returns the calendar day n days before now, keeping the wall clock.
func DaysAgo(now time.Time, n int) time.Time {
    return now.AddDate(0, 0, -n)
}

// ClockTime is a wall-clock time of day with minute precision.
type ClockTime struct {
    Hour   int
    Minute int
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (ClockTime, error) {
    parts := strings.Split(strings.TrimSpace(s), ":")
    if len(parts) != 2 {
        return ClockTime{}, fmt.Errorf("clock %q: want HH:MM", s)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil || h < 0 || h > 23 {
        return ClockTime{}, fmt.Errorf("clock %q: invalid hour", s)
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil || m < 0 || m > 59 {
        return ClockTime{}, fmt.Errorf("clock %q: invalid minute", s)
    }
    return ClockTime{Hour: h, Minute: m}, nil
}

// String renders HH:MM.
func (c ClockTime) String() string {
    return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

// InWindow reports whether t falls in [start, end). Windows that wrap midnight are supported.
func InWindow(t time.Time, start, end ClockTime) bool {
    cur := t.Hour()*60 + t.Minute()
    s, e := start.Minutes(), end.Minutes()
    if s <= e {
        return cur >= s && cur < e
    }
    return cur >= s || cur < e
}
