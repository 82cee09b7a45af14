package domain

// fillColumn replaces zero values with the most recent preceding non-zero
// value in the slice, in order. Leading zeros are left alone: there is
// nothing to carry forward. Returns the number of values replaced.
//
// Zero doubles as the missing-value sentinel in the source data, so a
// genuine zero reading mid-series is refilled too. That conflation is
// inherited from the upstream dataset and preserved deliberately.
func fillColumn(rows []Observation, get func(*Observation) float64, set func(*Observation, float64)) int {
	var last float64
	replaced := 0
	for i := range rows {
		v := get(&rows[i])
		if v == 0 {
			if last != 0 {
				set(&rows[i], last)
				replaced++
			}
			continue
		}
		last = v
	}
	return replaced
}

// FillContinuity repairs one country's date-ordered series and computes the
// composite mobility indices. It forward-fills zero gaps in S1..S9, the three
// case-count columns, and the published stringency index, then derives:
//
//	pt = mean(S1..S9)          Pt = cumsum(pt)
//	mt = 1 - pt                Mt = cumsum(mt)
//	st = StringencyIndex / 100 St = cumsum(st)
//
// After this step every row has defined values for all of the above. The
// operation is idempotent: filling an already-filled series changes nothing.
// Returns the number of gap values replaced.
func FillContinuity(rows []Observation) int {
	replaced := 0

	for _, ind := range Indicators() {
		idx := int(ind) - 1
		replaced += fillColumn(rows,
			func(o *Observation) float64 { return o.Severity[idx] },
			func(o *Observation, v float64) { o.Severity[idx] = v },
		)
	}
	replaced += fillColumn(rows,
		func(o *Observation) float64 { return o.ConfirmedCases },
		func(o *Observation, v float64) { o.ConfirmedCases = v },
	)
	replaced += fillColumn(rows,
		func(o *Observation) float64 { return o.ConfirmedDeaths },
		func(o *Observation, v float64) { o.ConfirmedDeaths = v },
	)
	replaced += fillColumn(rows,
		func(o *Observation) float64 { return o.Recovered },
		func(o *Observation, v float64) { o.Recovered = v },
	)
	replaced += fillColumn(rows,
		func(o *Observation) float64 { return o.StringencyIndex },
		func(o *Observation, v float64) { o.StringencyIndex = v },
	)

	var cumSeverity, cumMobility, cumStringency float64
	for i := range rows {
		o := &rows[i]

		var sum float64
		for _, s := range o.Severity {
			sum += s
		}
		o.PolicySeverity = sum / NumIndicators
		o.Mobility = 1 - o.PolicySeverity
		o.Stringency = o.StringencyIndex / 100

		cumSeverity += o.PolicySeverity
		cumMobility += o.Mobility
		cumStringency += o.Stringency
		o.CumulativeSeverity = cumSeverity
		o.CumulativeMobility = cumMobility
		o.CumulativeStringency = cumStringency
	}

	return replaced
}
