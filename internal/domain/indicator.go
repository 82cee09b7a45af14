package domain

import "fmt"

// Indicator identifies one of the nine policy-response measures tracked with
// an ordinal severity code. Indices 1-8 map to the OxCGRT containment columns
// C1-C8; index 9 is the H1 public-information-campaign column.
type Indicator int

const (
	SchoolClosing         Indicator = iota + 1 // C1
	WorkplaceClosing                           // C2
	CancelPublicEvents                         // C3
	GatheringRestrictions                      // C4
	PublicTransportClose                       // C5
	StayAtHome                                 // C6
	InternalMovement                           // C7
	TravelControls                             // C8
	InfoCampaigns                              // H1
)

// NumIndicators is the number of tracked policy indicators (S1..S9).
const NumIndicators = 9

// GeneralScopeWeight is the fixed blend weight of the scope flag in the
// severity formula. Calibrated so that flag status carries the same influence
// regardless of measure intensity.
const GeneralScopeWeight = 0.28375

// indicatorSpec is the static per-indicator mapping: source columns, the
// documented ordinal range, and whether the indicator carries a
// general-vs-targeted scope flag. Column lookups are table-driven rather than
// derived from string parsing of column names.
type indicatorSpec struct {
	Column     string // ordinal severity column in the source table
	FlagColumn string // scope flag column, empty when the indicator has none
	MaxOrdinal int    // documented upper bound of the ordinal code
}

var indicatorSpecs = [NumIndicators + 1]indicatorSpec{
	SchoolClosing:         {Column: "C1_School_closing", FlagColumn: "C1_Flag", MaxOrdinal: 3},
	WorkplaceClosing:      {Column: "C2_Workplace_closing", FlagColumn: "C2_Flag", MaxOrdinal: 3},
	CancelPublicEvents:    {Column: "C3_Cancel_public_events", FlagColumn: "C3_Flag", MaxOrdinal: 2},
	GatheringRestrictions: {Column: "C4_Restrictions_on_gatherings", FlagColumn: "C4_Flag", MaxOrdinal: 4},
	PublicTransportClose:  {Column: "C5_Close_public_transport", FlagColumn: "C5_Flag", MaxOrdinal: 2},
	StayAtHome:            {Column: "C6_Stay_at_home_requirements", FlagColumn: "C6_Flag", MaxOrdinal: 3},
	InternalMovement:      {Column: "C7_Restrictions_on_internal_movement", FlagColumn: "C7_Flag", MaxOrdinal: 2},
	TravelControls:        {Column: "C8_International_travel_controls", MaxOrdinal: 4},
	InfoCampaigns:         {Column: "H1_Public_information_campaigns", FlagColumn: "H1_Flag", MaxOrdinal: 2},
}

// Indicators returns all nine indicators in index order.
func Indicators() []Indicator {
	out := make([]Indicator, 0, NumIndicators)
	for i := SchoolClosing; i <= InfoCampaigns; i++ {
		out = append(out, i)
	}
	return out
}

// Valid reports whether the indicator is one of the nine defined measures.
func (i Indicator) Valid() bool {
	return i >= SchoolClosing && i <= InfoCampaigns
}

// HasFlag reports whether the indicator carries a general-vs-targeted scope
// flag. All indicators except C8 (international travel controls) have one.
func (i Indicator) HasFlag() bool {
	return i.Valid() && indicatorSpecs[i].FlagColumn != ""
}

// Column returns the indicator's ordinal severity column name in the source table.
func (i Indicator) Column() string {
	if !i.Valid() {
		return ""
	}
	return indicatorSpecs[i].Column
}

// FlagColumn returns the indicator's scope flag column name, or "" when the
// indicator has no flag.
func (i Indicator) FlagColumn() string {
	if !i.Valid() {
		return ""
	}
	return indicatorSpecs[i].FlagColumn
}

// MaxOrdinal returns the documented upper bound of the indicator's raw code.
func (i Indicator) MaxOrdinal() int {
	if !i.Valid() {
		return 0
	}
	return indicatorSpecs[i].MaxOrdinal
}

func (i Indicator) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
	return indicatorSpecs[i].Column
}

// SeverityIndex converts a raw ordinal policy code into a continuous severity
// value in [0,1]. The result blends measure intensity (raw normalized by the
// indicator's divisor) with scope: general measures (flag=1) score higher than
// targeted ones (flag=0). C8 has no scope flag and uses the plain normalized
// ordinal. Flags are ignored for indicators without one.
func SeverityIndex(i Indicator, raw, flag float64) float64 {
	const w = GeneralScopeWeight

	switch i {
	case CancelPublicEvents, PublicTransportClose, InternalMovement, InfoCampaigns:
		return raw/2*(1-w) + w*flag
	case SchoolClosing, WorkplaceClosing, StayAtHome:
		return raw/3*(1-w) + w*flag
	case GatheringRestrictions:
		return raw/4*(1-w) + w*flag
	case TravelControls:
		return raw / 4
	default:
		return 0
	}
}
