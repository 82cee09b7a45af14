// Package domain models the cross-country mobility feature table derived from
// OxCGRT-style policy-response data merged with epidemiological counts.
//
// # Data Source
//
// Rows follow the Oxford COVID-19 Government Response Tracker layout: one row
// per (country, date) carrying ordinal policy codes for nine measures, a
// published 0-100 stringency index, and cumulative case counts merged from a
// Johns Hopkins-style feed. Dates appear both as a sortable value and as a
// YYYY-MM-DD string.
//
// # Indicator Conventions
//
// Each policy indicator is an ordinal code in a small documented range:
//
//	C1 school closing                  0-3, with scope flag
//	C2 workplace closing               0-3, with scope flag
//	C3 cancel public events            0-2, with scope flag
//	C4 restrictions on gatherings      0-4, with scope flag
//	C5 close public transport          0-2, with scope flag
//	C6 stay at home requirements       0-3, with scope flag
//	C7 internal movement restrictions  0-2, with scope flag
//	C8 international travel controls   0-4, no flag
//	H1 public information campaigns    0-2, with scope flag (mapped to S9)
//
// The scope flag records whether a measure applies nationwide (1, "general")
// or only in targeted regions (0). [SeverityIndex] blends intensity and scope
// into a continuous value in [0,1].
//
// # Zero As Missing
//
// The source data reports gaps as zeros, indistinguishable from genuine
// "no measure" or "no cases" readings. [FillContinuity] forward-fills zeros
// from the last non-zero value per country, leaving leading zeros intact.
// A mid-series true zero therefore gets refilled as well; this is a known
// modeling approximation inherited from the dataset, not something the
// pipeline tries to correct.
//
// # Derived Indices
//
// pt is the arithmetic mean of S1..S9, a composite policy severity. mt = 1-pt
// estimates remaining population mobility. st is the published stringency
// index scaled to [0,1]. Pt, Mt, St are their per-country running sums in
// date order, and are non-decreasing along a country's series.
package domain
