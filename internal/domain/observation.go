package domain

import (
	"fmt"
	"sort"
	"time"
)

// DateFormat is the string form of observation dates, kept alongside the
// sortable time value for reporting and joins with date-keyed sources.
const DateFormat = "2006-01-02"

// PolicyCode holds one indicator's raw ordinal value and scope flag as
// reported upstream. Flag is meaningless for indicators without one (C8).
type PolicyCode struct {
	Value float64
	Flag  float64
}

// Observation is one (country, date) row of the mobility table: the raw
// policy and epidemiological inputs plus every derived feature. Values are
// float64 throughout, matching the source data where missing reports show up
// as zeros.
type Observation struct {
	CountryCode string
	CountryName string
	Date        time.Time
	DateString  string

	// Raw inputs. Policy is indexed by Indicator-1.
	Policy          [NumIndicators]PolicyCode
	ConfirmedCases  float64
	ConfirmedDeaths float64
	Recovered       float64
	StringencyIndex float64 // published composite, 0-100

	// Joined from the population provider; 0 means unknown.
	Population float64

	// Severity holds the continuous indices S1..S9, indexed by Indicator-1.
	Severity [NumIndicators]float64

	// Composite indices. PolicySeverity (pt) is the mean of S1..S9,
	// Mobility (mt) its complement; Stringency (st) is the published index
	// scaled to [0,1]. The Cumulative* fields are per-country running sums
	// in date order.
	PolicySeverity       float64
	CumulativeSeverity   float64
	Mobility             float64
	CumulativeMobility   float64
	Stringency           float64
	CumulativeStringency float64

	// Synthesized features.
	Active                  float64
	RelativeConfirmedCases  float64
	RelativeConfirmedDeaths float64
	RelativeRecovered       float64
	RelativeActive          float64
	DailyConfirmedCases     float64
	DailyConfirmedDeaths    float64
	DailyRecovered          float64
	DailyActive             float64
	DaysCountFromFirstCase  int
}

// SeverityAt returns the derived severity index for the given indicator.
func (o *Observation) SeverityAt(i Indicator) float64 {
	if !i.Valid() {
		return 0
	}
	return o.Severity[i-1]
}

// PolicyAt returns the raw policy code for the given indicator.
func (o *Observation) PolicyAt(i Indicator) PolicyCode {
	if !i.Valid() {
		return PolicyCode{}
	}
	return o.Policy[i-1]
}

// Table is the in-memory mobility table: one Observation per (country, date),
// exclusively owned by the pipeline while it is being enriched.
type Table struct {
	Rows        []Observation
	GeneratedAt time.Time
}

// NewTable wraps rows in a Table stamped with the current clock time.
func NewTable(rows []Observation) *Table {
	return &Table{Rows: rows, GeneratedAt: clock.Now()}
}

// Sort orders rows by country code, then date. Derivation stages require
// this ordering within each country; the overall order is a convenience.
func (t *Table) Sort() {
	sort.SliceStable(t.Rows, func(a, b int) bool {
		ra, rb := &t.Rows[a], &t.Rows[b]
		if ra.CountryCode != rb.CountryCode {
			return ra.CountryCode < rb.CountryCode
		}
		return ra.Date.Before(rb.Date)
	})
}

// Validate checks the table's input invariants: at least one row, country
// codes present, and no duplicate (country, date) pairs. Violations are
// precondition errors for the pipeline, not recoverable conditions.
func (t *Table) Validate() error {
	if len(t.Rows) == 0 {
		return ErrEmptyTable
	}
	seen := make(map[string]struct{}, len(t.Rows))
	for i := range t.Rows {
		r := &t.Rows[i]
		if r.CountryCode == "" {
			return fmt.Errorf("row %d: missing country code", i)
		}
		if r.Date.IsZero() {
			return fmt.Errorf("row %d (%s): missing date", i, r.CountryCode)
		}
		key := r.CountryCode + "|" + r.Date.Format(DateFormat)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate observation for %s on %s", r.CountryCode, r.Date.Format(DateFormat))
		}
		seen[key] = struct{}{}
	}
	return nil
}

// CountrySeries is one country's date-ordered slice of rows. Series returned
// by Partition alias the table's backing array, so in-place mutation of a
// series mutates the table.
type CountrySeries struct {
	Code string
	Rows []Observation
}

// Partition splits a sorted table into per-country series, preserving order.
// The caller must Sort first.
func (t *Table) Partition() []CountrySeries {
	var out []CountrySeries
	start := 0
	for i := 1; i <= len(t.Rows); i++ {
		if i == len(t.Rows) || t.Rows[i].CountryCode != t.Rows[start].CountryCode {
			out = append(out, CountrySeries{
				Code: t.Rows[start].CountryCode,
				Rows: t.Rows[start:i:i],
			})
			start = i
		}
	}
	return out
}

// JoinPopulation left-joins per-country population figures onto the table.
// Countries absent from the map keep Population=0; their relative-rate
// features come out as NaN downstream.
func (t *Table) JoinPopulation(populations map[string]float64) {
	for i := range t.Rows {
		t.Rows[i].Population = populations[t.Rows[i].CountryCode]
	}
}

// Summary describes the table's extent.
type Summary struct {
	Rows      int
	Countries int
	MinDate   time.Time
	MaxDate   time.Time
}

// Summarize computes row/country counts and the covered date range.
func (t *Table) Summarize() Summary {
	s := Summary{Rows: len(t.Rows)}
	countries := make(map[string]struct{})
	for i := range t.Rows {
		r := &t.Rows[i]
		countries[r.CountryCode] = struct{}{}
		if s.MinDate.IsZero() || r.Date.Before(s.MinDate) {
			s.MinDate = r.Date
		}
		if r.Date.After(s.MaxDate) {
			s.MaxDate = r.Date
		}
	}
	s.Countries = len(countries)
	return s
}
