package domain

import "math"

// SynthesizeFeatures derives the population-relative, active-case, and
// daily-delta features for one country's date-ordered, already-filled series.
// Cross-country state never leaks: the first-case anchor and the delta
// baselines are local to the slice.
func SynthesizeFeatures(rows []Observation) {
	for i := range rows {
		o := &rows[i]
		o.Active = o.ConfirmedCases - o.ConfirmedDeaths - o.Recovered

		// Population 0 means no match from the provider; rates are
		// undefined rather than infinite.
		if o.Population > 0 {
			o.RelativeConfirmedCases = o.ConfirmedCases / o.Population
			o.RelativeConfirmedDeaths = o.ConfirmedDeaths / o.Population
			o.RelativeRecovered = o.Recovered / o.Population
			o.RelativeActive = o.Active / o.Population
		} else {
			o.RelativeConfirmedCases = math.NaN()
			o.RelativeConfirmedDeaths = math.NaN()
			o.RelativeRecovered = math.NaN()
			o.RelativeActive = math.NaN()
		}
	}

	// Daily deltas. The first recorded day has no prior value to diff
	// against and is defined as 0, which the zero-valued fields already are.
	for i := 1; i < len(rows); i++ {
		o, prev := &rows[i], &rows[i-1]
		o.DailyConfirmedCases = o.ConfirmedCases - prev.ConfirmedCases
		o.DailyConfirmedDeaths = o.ConfirmedDeaths - prev.ConfirmedDeaths
		o.DailyRecovered = o.Recovered - prev.Recovered
		o.DailyActive = o.Active - prev.Active
	}

	// Day offset from the country's first reported case. Rows before the
	// first case, and whole countries with no cases, stay at 0.
	var firstCase *Observation
	for i := range rows {
		if rows[i].ConfirmedCases > 0 {
			firstCase = &rows[i]
			break
		}
	}
	if firstCase == nil {
		return
	}
	for i := range rows {
		o := &rows[i]
		if o.ConfirmedCases > 0 && !o.Date.Before(firstCase.Date) {
			o.DaysCountFromFirstCase = int(o.Date.Sub(firstCase.Date).Hours() / 24)
		}
	}
}
