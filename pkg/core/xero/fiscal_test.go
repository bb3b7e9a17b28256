package xero

import (
	"testing"
	"time"
)

func TestCurrentFiscalWindow(t *testing.T) {
	cases := []struct {
		name         string
		now          time.Time
		currentStart string
		priorStart   string
		currentEnd   string
	}{
		{
			name:         "mid current FY",
			now:          time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC),
			currentStart: "2024-07-01",
			priorStart:   "2023-07-01",
			currentEnd:   "2025-06-30",
		},
		{
			name:         "July 1 rolls the window forward",
			now:          time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			currentStart: "2025-07-01",
			priorStart:   "2024-07-01",
			currentEnd:   "2026-06-30",
		},
		{
			name:         "June 30 still in the old window",
			now:          time.Date(2025, time.June, 30, 23, 59, 0, 0, time.UTC),
			currentStart: "2024-07-01",
			priorStart:   "2023-07-01",
			currentEnd:   "2025-06-30",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fw := CurrentFiscalWindow(tc.now)
			if got := fw.CurrentStart.Format("2006-01-02"); got != tc.currentStart {
				t.Errorf("CurrentStart = %s, want %s", got, tc.currentStart)
			}
			if got := fw.PriorStart.Format("2006-01-02"); got != tc.priorStart {
				t.Errorf("PriorStart = %s, want %s", got, tc.priorStart)
			}
			if got := fw.CurrentEnd.Format("2006-01-02"); got != tc.currentEnd {
				t.Errorf("CurrentEnd = %s, want %s", got, tc.currentEnd)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	fw := CurrentFiscalWindow(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	// Window: prior FY 2023-07-01..2024-06-30, current FY from 2024-07-01.

	cases := []struct {
		date   string
		period Period
		ok     bool
	}{
		{"2024-07-01", PeriodCurrentFY, true},
		{"2024-06-30", PeriodPriorFY, true},
		{"2023-07-01", PeriodPriorFY, true},
		{"2023-06-30", "", false},
		{"2025-01-15T14:30:00", PeriodCurrentFY, true},
		{"not-a-date", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		period, ok := fw.Classify(tc.date)
		if period != tc.period || ok != tc.ok {
			t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tc.date, period, ok, tc.period, tc.ok)
		}
	}
}

func TestReportRanges(t *testing.T) {
	fw := CurrentFiscalWindow(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))

	from, to := fw.PriorRange()
	if from != "2023-07-01" || to != "2024-06-30" {
		t.Errorf("PriorRange = %s..%s", from, to)
	}
	from, to = fw.CurrentRange()
	if from != "2024-07-01" || to != "2025-06-30" {
		t.Errorf("CurrentRange = %s..%s", from, to)
	}
}
