package appointment

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display layouts used across channels, e.g. "10 April 2025" and "03:00 PM".
const (
	DateLayout = "02 January 2006"
	TimeLayout = "03:04 PM"
)

// FormatDate renders the calendar day of a visit for display.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders a visit-window boundary for display.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// Label returns the status display label, e.g. "Confirmed".
func (s Status) Label() string {
	return cases.Title(language.English).String(string(s))
}
