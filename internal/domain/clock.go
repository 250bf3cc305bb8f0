package domain

import "time"

// Clock is the formatted content of the clock widget.
type Clock struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

// FormatClock renders t for the given mode. Unknown modes use 24h.
func FormatClock(t time.Time, mode ClockMode) Clock {
	layout := "15:04"
	switch mode {
	case ClockMode12h:
		layout = "3:04 PM"
	case ClockModeSeconds:
		layout = "15:04:05"
	}
	return Clock{
		Time: t.Format(layout),
		Date: t.Format("Monday, January 2, 2006"),
	}
}
