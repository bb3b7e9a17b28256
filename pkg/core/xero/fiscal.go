package xero

import (
	"strings"
	"time"
)

// FiscalWindow holds the boundaries of the prior and current Australian
// fiscal years (July 1 – June 30). It is the single source of truth for
// period assignment across both ingestion paths.
type FiscalWindow struct {
	PriorStart   time.Time
	CurrentStart time.Time
	CurrentEnd   time.Time
}

// CurrentFiscalWindow derives the window from a reference time. The
// current FY starts July 1 of now's year when the UTC month is July or
// later, otherwise July 1 of the previous year.
func CurrentFiscalWindow(now time.Time) FiscalWindow {
	now = now.UTC()
	startYear := now.Year()
	if now.Month() < time.July {
		startYear--
	}
	currentStart := time.Date(startYear, time.July, 1, 0, 0, 0, 0, time.UTC)
	return FiscalWindow{
		PriorStart:   currentStart.AddDate(-1, 0, 0),
		CurrentStart: currentStart,
		CurrentEnd:   currentStart.AddDate(1, 0, -1),
	}
}

// Classify assigns a transaction date string to a fiscal period. Only
// the date portion is considered; the time component is ignored. Dates
// before the prior FY start, and unparseable dates, are excluded
// (ok=false) and must be counted by the caller.
func (w FiscalWindow) Classify(dateStr string) (Period, bool) {
	datePart := dateStr
	if idx := strings.IndexByte(datePart, 'T'); idx >= 0 {
		datePart = datePart[:idx]
	}
	d, err := time.ParseInLocation("2006-01-02", datePart, time.UTC)
	if err != nil {
		return "", false
	}
	if d.Before(w.PriorStart) {
		return "", false
	}
	if !d.Before(w.CurrentStart) {
		return PeriodCurrentFY, true
	}
	return PeriodPriorFY, true
}

// PriorRange returns the prior FY report range as date strings.
func (w FiscalWindow) PriorRange() (from, to string) {
	return w.PriorStart.Format("2006-01-02"), w.CurrentStart.AddDate(0, 0, -1).Format("2006-01-02")
}

// CurrentRange returns the current FY report range as date strings.
func (w FiscalWindow) CurrentRange() (from, to string) {
	return w.CurrentStart.Format("2006-01-02"), w.CurrentEnd.Format("2006-01-02")
}
