package vendors

import (
	"math"
	"sort"
	"time"
)

// Frequency is a vendor's detected billing cadence.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
	FrequencyAdHoc     Frequency = "ad-hoc"
)

// Confidence grades a frequency classification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DetectFrequency classifies a vendor's cadence from its transaction
// dates. The mean day-gap between consecutive transactions selects the
// bucket; the coefficient of variation of the gaps sets confidence.
func DetectFrequency(dates []time.Time) (Frequency, Confidence) {
	if len(dates) < 2 {
		return FrequencyAdHoc, ConfidenceLow
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Sub(sorted[i-1]).Hours() / 24
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return FrequencyAdHoc, ConfidenceLow
	}

	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))

	variance := 0.0
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gaps))
	cv := math.Sqrt(variance) / mean

	switch {
	case mean >= 25 && mean <= 35:
		switch {
		case cv < 0.2:
			return FrequencyMonthly, ConfidenceHigh
		case cv < 0.4:
			return FrequencyMonthly, ConfidenceMedium
		default:
			return FrequencyMonthly, ConfidenceLow
		}
	case mean >= 80 && mean <= 100:
		switch {
		case cv < 0.3:
			return FrequencyQuarterly, ConfidenceHigh
		case cv < 0.5:
			return FrequencyQuarterly, ConfidenceMedium
		default:
			return FrequencyQuarterly, ConfidenceLow
		}
	case mean >= 350 && mean <= 380:
		if cv < 0.1 {
			return FrequencyAnnual, ConfidenceHigh
		}
		return FrequencyAnnual, ConfidenceMedium
	}

	// Two widely spaced transactions still suggest an annual renewal.
	if len(sorted) <= 2 {
		span := sorted[len(sorted)-1].Sub(sorted[0]).Hours() / 24
		if span >= 300 && span <= 400 {
			return FrequencyAnnual, ConfidenceMedium
		}
	}
	return FrequencyAdHoc, ConfidenceLow
}

// SuggestMonthlyBudget converts a detected frequency and historical
// totals into a suggested monthly budget figure.
func SuggestMonthlyBudget(priorFYAmount, avgAmount float64, freq Frequency, monthsSpan int) float64 {
	switch freq {
	case FrequencyMonthly:
		return avgAmount
	case FrequencyQuarterly:
		return avgAmount / 3
	case FrequencyAnnual:
		if priorFYAmount > 0 {
			return priorFYAmount / 12
		}
		return avgAmount / 12
	default:
		base := avgAmount
		if priorFYAmount > 0 {
			base = priorFYAmount
		}
		months := monthsSpan
		if months < 12 {
			months = 12
		}
		return base / float64(months)
	}
}
