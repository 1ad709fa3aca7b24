package domain

import "time"

// PeriodKind selects how a PeriodFilter resolves to a concrete window
type PeriodKind string

const (
	PeriodDaily     PeriodKind = "daily"
	PeriodWeekly    PeriodKind = "weekly"
	PeriodMonthly   PeriodKind = "monthly"
	PeriodQuarterly PeriodKind = "quarterly"
	PeriodYearly    PeriodKind = "yearly"
	PeriodCustom    PeriodKind = "custom"
)

// ParsePeriodKind maps a user supplied label to a PeriodKind. The empty
// string selects the monthly default.
func ParsePeriodKind(s string) (PeriodKind, bool) {
	switch PeriodKind(s) {
	case "":
		return PeriodMonthly, true
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodCustom:
		return PeriodKind(s), true
	}
	return "", false
}

// Period is a half-open time interval [Start, End)
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period. Zero instants never match.
func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(p.Start) && t.Before(p.End)
}

// Overlaps reports whether the closed range [from, to] intersects the period.
// A zero to is treated as open-ended.
func (p Period) Overlaps(from, to time.Time) bool {
	if from.IsZero() || !from.Before(p.End) {
		return false
	}
	return to.IsZero() || !to.Before(p.Start)
}

// Duration returns the length of the period; reversed periods report zero.
func (p Period) Duration() time.Duration {
	if p.End.Before(p.Start) {
		return 0
	}
	return p.End.Sub(p.Start)
}

// PeriodFilter is the caller supplied description of the analytics window.
// Start and End are only consulted for PeriodCustom.
type PeriodFilter struct {
	Kind                PeriodKind
	Start               *time.Time
	End                 *time.Time
	PropertyID          string
	CompareWithPrevious bool
}
