package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/couchcryptid/covid-mobility-etl/internal/domain"
	"github.com/couchcryptid/covid-mobility-etl/internal/observability"
)

// TableLoader supplies the raw observation table. Acquisition (network
// retrieval, caching) is the loader's concern; the pipeline only requires a
// well-formed table once invoked.
type TableLoader interface {
	LoadTable(ctx context.Context) (*domain.Table, error)
}

// PopulationProvider supplies per-country population figures keyed by
// ISO-3 country code.
type PopulationProvider interface {
	Populations(ctx context.Context) (map[string]float64, error)
}

const defaultWorkers = 8

// Pipeline sequences the feature derivation over one table: severity
// transform, per-country continuity fill, population join, feature
// synthesis. Per-country stages fan out on a worker pool since countries
// share no state; within a country, rows are processed in date order.
type Pipeline struct {
	loader      TableLoader
	populations PopulationProvider
	logger      *slog.Logger
	metrics     *observability.Metrics
	pool        pond.ResultPool[int]
	ready       atomic.Bool
}

// New creates a Pipeline with the given collaborators. workers bounds the
// per-country fan-out; 0 selects the default.
func New(loader TableLoader, populations PopulationProvider, logger *slog.Logger, metrics *observability.Metrics, workers int) *Pipeline {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Pipeline{
		loader:      loader,
		populations: populations,
		logger:      logger,
		metrics:     metrics,
		pool:        pond.NewResultPool[int](workers),
	}
}

// CheckReadiness returns nil once the pipeline has produced an enriched
// table, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not produced a table yet")
	}
	return nil
}

// Run loads the raw table, derives every feature column, and returns the
// finished table. The table's row set is fixed after loading; stages only
// add or overwrite derived columns. Any stage error aborts the run; no
// partial table is returned.
func (p *Pipeline) Run(ctx context.Context) (*domain.Table, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	table, err := p.loader.LoadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("validate table: %w", err)
	}
	table.Sort()
	p.metrics.RowsLoaded.Add(float64(len(table.Rows)))

	series := table.Partition()
	p.metrics.CountriesProcessed.Add(float64(len(series)))
	p.logger.Info("pipeline started", "rows", len(table.Rows), "countries", len(series))

	p.stage("transform", func() {
		domain.TransformTable(table)
	})

	var replaced int
	p.stage("fill", func() {
		replaced, err = p.forEachCountry(ctx, series, domain.FillContinuity)
	})
	if err != nil {
		return nil, fmt.Errorf("fill stage: %w", err)
	}
	p.metrics.FillReplacements.Add(float64(replaced))
	p.logger.Debug("continuity fill complete", "replaced_values", replaced)

	populations, err := p.populations.Populations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load populations: %w", err)
	}
	p.stage("join", func() {
		table.JoinPopulation(populations)
	})

	p.stage("synthesize", func() {
		_, err = p.forEachCountry(ctx, series, func(rows []domain.Observation) int {
			domain.SynthesizeFeatures(rows)
			return 0
		})
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize stage: %w", err)
	}

	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	summary := table.Summarize()
	p.logger.Info("pipeline finished",
		"rows", summary.Rows,
		"countries", summary.Countries,
		"from", summary.MinDate.Format(domain.DateFormat),
		"to", summary.MaxDate.Format(domain.DateFormat),
		"duration", time.Since(start),
	)
	return table, nil
}

// stage runs fn and records its wall time under the given stage label.
func (p *Pipeline) stage(name string, fn func()) {
	start := time.Now()
	fn()
	p.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// forEachCountry applies fn to every country series on the worker pool and
// sums the per-country results. Series alias the table's rows, so fn's
// in-place mutations land directly in the table; cross-series writes never
// happen because partitions are disjoint.
func (p *Pipeline) forEachCountry(ctx context.Context, series []domain.CountrySeries, fn func([]domain.Observation) int) (int, error) {
	group := p.pool.NewGroupContext(ctx)
	for _, s := range series {
		rows := s.Rows
		group.SubmitErr(func() (int, error) {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			return fn(rows), nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range results {
		total += n
	}
	return total, nil
}
