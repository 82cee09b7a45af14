package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-mobility-etl/internal/domain"
	"github.com/couchcryptid/covid-mobility-etl/internal/observability"
	"github.com/couchcryptid/covid-mobility-etl/internal/pipeline"
)

// --- mocks ---

type mockLoader struct {
	rows []domain.Observation
	err  error
}

func (m *mockLoader) LoadTable(_ context.Context) (*domain.Table, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.NewTable(m.rows), nil
}

type mockPopulations struct {
	populations map[string]float64
	err         error
}

func (m *mockPopulations) Populations(_ context.Context) (map[string]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.populations, nil
}

func day(d int) time.Time {
	return time.Date(2020, time.March, d, 0, 0, 0, 0, time.UTC)
}

func obs(code string, d int, cases float64) domain.Observation {
	o := domain.Observation{
		CountryCode:     code,
		Date:            day(d),
		DateString:      day(d).Format(domain.DateFormat),
		ConfirmedCases:  cases,
		StringencyIndex: 50,
	}
	o.Policy[domain.SchoolClosing-1] = domain.PolicyCode{Value: 2, Flag: 1}
	o.Policy[domain.TravelControls-1] = domain.PolicyCode{Value: 4}
	return o
}

func newPipeline(loader *mockLoader, pops *mockPopulations, metrics *observability.Metrics) *pipeline.Pipeline {
	return pipeline.New(loader, pops, slog.Default(), metrics, 2)
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	loader := &mockLoader{rows: []domain.Observation{
		// Intentionally unsorted, with a zero-count gap in DEU.
		obs("FRA", 1, 50),
		obs("DEU", 2, 0),
		obs("DEU", 1, 10),
		obs("DEU", 3, 25),
	}}
	pops := &mockPopulations{populations: map[string]float64{
		"DEU": 80_000_000,
		"FRA": 67_000_000,
	}}
	metrics := observability.NewMetricsForTesting()

	p := newPipeline(loader, pops, metrics)
	table, err := p.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, table.Rows, 4)

	// Sorted by (country, date).
	assert.Equal(t, "DEU", table.Rows[0].CountryCode)
	assert.Equal(t, day(1), table.Rows[0].Date)
	assert.Equal(t, "FRA", table.Rows[3].CountryCode)

	// Severity transform ran: S1 for raw=2/flag=1 and S8 for raw=4.
	assert.InDelta(t, 0.76125, table.Rows[0].SeverityAt(domain.SchoolClosing), 1e-9)
	assert.InDelta(t, 1.0, table.Rows[0].SeverityAt(domain.TravelControls), 1e-9)

	// The day-2 zero count was forward-filled from day 1.
	assert.Equal(t, 10.0, table.Rows[1].ConfirmedCases)
	assert.Equal(t, 0.0, table.Rows[1].DailyConfirmedCases)
	assert.Equal(t, 15.0, table.Rows[2].DailyConfirmedCases)

	// Composite indices and cumulative sums are populated.
	assert.InDelta(t, 0.5, table.Rows[0].Stringency, 1e-9)
	assert.InDelta(t, 1.5, table.Rows[2].CumulativeStringency, 1e-9)
	assert.Greater(t, table.Rows[2].CumulativeMobility, table.Rows[1].CumulativeMobility)

	// Population joined per country.
	assert.InDelta(t, 10.0/80_000_000, table.Rows[0].RelativeConfirmedCases, 1e-15)
	assert.InDelta(t, 50.0/67_000_000, table.Rows[3].RelativeConfirmedCases, 1e-15)

	assert.NoError(t, p.CheckReadiness(context.Background()))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.RowsLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CountriesProcessed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FillReplacements))
}

func TestPipeline_Run_EmptyInputIsPreconditionError(t *testing.T) {
	p := newPipeline(&mockLoader{}, &mockPopulations{}, observability.NewMetricsForTesting())

	_, err := p.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyTable)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_LoaderFailureHaltsPipeline(t *testing.T) {
	loader := &mockLoader{err: errors.New("source unavailable")}
	p := newPipeline(loader, &mockPopulations{}, observability.NewMetricsForTesting())

	table, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, table)
	assert.Contains(t, err.Error(), "load table")
}

func TestPipeline_Run_PopulationFailureHaltsPipeline(t *testing.T) {
	loader := &mockLoader{rows: []domain.Observation{obs("DEU", 1, 1)}}
	pops := &mockPopulations{err: errors.New("population source unavailable")}
	p := newPipeline(loader, pops, observability.NewMetricsForTesting())

	_, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load populations")
}

func TestPipeline_Run_MissingPopulationIsNotFatal(t *testing.T) {
	loader := &mockLoader{rows: []domain.Observation{obs("ABW", 1, 7)}}
	p := newPipeline(loader, &mockPopulations{}, observability.NewMetricsForTesting())

	table, err := p.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 7.0, table.Rows[0].ConfirmedCases)
	assert.True(t, math.IsNaN(table.Rows[0].RelativeConfirmedCases), "expected NaN relative rate")
}

func TestPipeline_Run_DuplicateRowsRejected(t *testing.T) {
	loader := &mockLoader{rows: []domain.Observation{obs("DEU", 1, 1), obs("DEU", 1, 2)}}
	p := newPipeline(loader, &mockPopulations{}, observability.NewMetricsForTesting())

	_, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate observation")
}

func TestPipeline_Run_CancelledContext(t *testing.T) {
	loader := &mockLoader{rows: []domain.Observation{obs("DEU", 1, 1)}}
	p := newPipeline(loader, &mockPopulations{}, observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
