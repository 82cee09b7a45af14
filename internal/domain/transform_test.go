package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityIndex(t *testing.T) {
	tests := []struct {
		name     string
		ind      Indicator
		raw      float64
		flag     float64
		expected float64
	}{
		{"school closing raw=2 general", SchoolClosing, 2, 1, 0.76125},
		{"school closing raw=3 targeted", SchoolClosing, 3, 0, 0.71625},
		{"workplace closing raw=0 general", WorkplaceClosing, 0, 1, 0.28375},
		{"cancel events raw=2 targeted", CancelPublicEvents, 2, 0, 0.71625},
		{"gatherings raw=4 general", GatheringRestrictions, 4, 1, 1.0},
		{"transport raw=1 general", PublicTransportClose, 1, 1, 0.641875},
		{"stay at home raw=0 targeted", StayAtHome, 0, 0, 0},
		{"internal movement raw=2 general", InternalMovement, 2, 1, 1.0},
		{"info campaigns raw=1 targeted", InfoCampaigns, 1, 0, 0.358125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SeverityIndex(tt.ind, tt.raw, tt.flag), 1e-9)
		})
	}
}

func TestSeverityIndex_TravelControlsIgnoresFlag(t *testing.T) {
	// C8 uses the plain normalized ordinal; the flag term never applies.
	assert.InDelta(t, 0.75, SeverityIndex(TravelControls, 3, 0), 1e-9)
	assert.InDelta(t, 0.75, SeverityIndex(TravelControls, 3, 1), 1e-9)
	assert.InDelta(t, 1.0, SeverityIndex(TravelControls, 4, 0), 1e-9)
}

func TestSeverityIndex_UnknownIndicatorIsZero(t *testing.T) {
	assert.Zero(t, SeverityIndex(Indicator(0), 2, 1))
	assert.Zero(t, SeverityIndex(Indicator(10), 2, 1))
}

func TestSeverityIndex_RangeBounds(t *testing.T) {
	// Any in-range ordinal with flag in {0,1} must land in [0,1].
	for _, ind := range Indicators() {
		for raw := 0; raw <= ind.MaxOrdinal(); raw++ {
			for _, flag := range []float64{0, 1} {
				t.Run(fmt.Sprintf("%s raw=%d flag=%g", ind, raw, flag), func(t *testing.T) {
					s := SeverityIndex(ind, float64(raw), flag)
					assert.GreaterOrEqual(t, s, 0.0)
					assert.LessOrEqual(t, s, 1.0)
				})
			}
		}
	}
}

func TestIndicatorSpecs(t *testing.T) {
	assert.Len(t, Indicators(), NumIndicators)

	for _, ind := range Indicators() {
		if ind == TravelControls {
			assert.False(t, ind.HasFlag())
			assert.Empty(t, ind.FlagColumn())
			continue
		}
		assert.True(t, ind.HasFlag(), "indicator %s should carry a scope flag", ind)
		assert.NotEmpty(t, ind.FlagColumn())
	}

	assert.Equal(t, "C1_School_closing", SchoolClosing.Column())
	assert.Equal(t, "H1_Public_information_campaigns", InfoCampaigns.Column())
	assert.Equal(t, 2, InfoCampaigns.MaxOrdinal())
	assert.False(t, Indicator(0).Valid())
}

func TestTransformSeverity(t *testing.T) {
	var o Observation
	o.Policy[SchoolClosing-1] = PolicyCode{Value: 2, Flag: 1}
	o.Policy[TravelControls-1] = PolicyCode{Value: 3}
	o.Policy[InfoCampaigns-1] = PolicyCode{Value: 2, Flag: 1}

	out := TransformSeverity(o)

	assert.InDelta(t, 0.76125, out.SeverityAt(SchoolClosing), 1e-9)
	assert.InDelta(t, 0.75, out.SeverityAt(TravelControls), 1e-9)
	assert.InDelta(t, 1.0, out.SeverityAt(InfoCampaigns), 1e-9)
	assert.Zero(t, out.SeverityAt(WorkplaceClosing))
	// Input observation is unchanged.
	assert.Zero(t, o.SeverityAt(SchoolClosing))
}
