package ledger

import (
	"regexp"
	"time"
)

// dateLabelRe matches the column labels produced by TermDates, e.g. "08-Dec".
var dateLabelRe = regexp.MustCompile(`^\d{2}-(?i:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)$`)

// IsDateLabel reports whether s looks like a date-column label.
func IsDateLabel(s string) bool {
	return dateLabelRe.MatchString(s)
}

// TermDates enumerates every calendar day from start through end,
// skipping offDay (no classes that weekday), and returns the date-column
// labels in chronological order. The set is fixed when a ledger is
// created and never changes afterwards.
func TermDates(start, end time.Time, offDay time.Weekday) []string {
	var labels []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == offDay {
			continue
		}
		labels = append(labels, d.Format("02-Jan"))
	}
	return labels
}
