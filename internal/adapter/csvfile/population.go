package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// PopulationProvider reads a country-population CSV into a lookup map.
type PopulationProvider struct {
	path   string
	logger *slog.Logger
}

// NewPopulationProvider creates a provider for the CSV file at path.
func NewPopulationProvider(path string, logger *slog.Logger) *PopulationProvider {
	return &PopulationProvider{path: path, logger: logger}
}

// Populations opens and parses the configured file.
func (p *PopulationProvider) Populations(ctx context.Context) (map[string]float64, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open population table: %w", err)
	}
	defer f.Close()

	populations, err := ParsePopulations(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.path, err)
	}
	p.logger.Info("population table loaded", "path", p.path, "countries", len(populations))
	return populations, nil
}

// ParsePopulations decodes a CSV keyed by ISO-3 country code with a
// Population column. Rows with no code or a non-positive population are
// skipped; those countries simply get no relative-rate features.
func ParsePopulations(ctx context.Context, r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)

	codeCol, ok := cols.any("Code", "Country_Code", "CountryCode")
	if !ok {
		return nil, fmt.Errorf("missing country code column")
	}
	if _, ok := cols.any("Population"); !ok {
		return nil, fmt.Errorf("missing Population column")
	}

	populations := make(map[string]float64)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		code := strings.TrimSpace(record[codeCol])
		if code == "" {
			continue
		}
		if pop := cols.num(record, "Population"); pop > 0 {
			populations[code] = pop
		}
	}

	return populations, nil
}
