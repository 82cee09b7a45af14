// Package csvfile decodes already-retrieved CSV data into the domain model.
// It implements the pipeline's loader and population-provider contracts
// against local files or readers; fetching the data is someone else's job.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-mobility-etl/internal/domain"
)

// Date layouts accepted in the Date column. OxCGRT publishes compact
// YYYYMMDD dates; re-exported tables usually carry ISO dates.
var dateLayouts = []string{"20060102", domain.DateFormat}

// TableLoader reads an OxCGRT-style CSV file into a domain.Table.
type TableLoader struct {
	path   string
	logger *slog.Logger
}

// NewTableLoader creates a loader for the CSV file at path.
func NewTableLoader(path string, logger *slog.Logger) *TableLoader {
	return &TableLoader{path: path, logger: logger}
}

// LoadTable opens and parses the configured file.
func (l *TableLoader) LoadTable(ctx context.Context) (*domain.Table, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open raw table: %w", err)
	}
	defer f.Close()

	table, err := ParseTable(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}
	l.logger.Info("raw table loaded", "path", l.path, "rows", len(table.Rows))
	return table, nil
}

// ParseTable decodes a policy-tracker CSV stream into observations. Column
// order is free; columns are resolved by header name, with spaces normalized
// to underscores the way tracker exports vary. Missing numeric cells parse
// as 0, the dataset's missing-value convention.
func ParseTable(ctx context.Context, r io.Reader) (*domain.Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)

	codeCol, ok := cols.any("Country_Code", "CountryCode")
	if !ok {
		return nil, fmt.Errorf("missing country code column")
	}
	dateCol, ok := cols.any("Date")
	if !ok {
		return nil, fmt.Errorf("missing Date column")
	}

	var rows []domain.Observation
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

		o, err := parseRow(cols, record, codeCol, dateCol)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, o)
	}

	return domain.NewTable(rows), nil
}

func parseRow(cols columnIndex, record []string, codeCol, dateCol int) (domain.Observation, error) {
	var o domain.Observation

	o.CountryCode = strings.TrimSpace(record[codeCol])
	o.CountryName = cols.str(record, "CountryName")

	date, err := parseDate(record[dateCol])
	if err != nil {
		return o, err
	}
	o.Date = date
	o.DateString = date.Format(domain.DateFormat)

	for _, ind := range domain.Indicators() {
		code := domain.PolicyCode{Value: cols.num(record, ind.Column())}
		if ind.HasFlag() {
			code.Flag = cols.num(record, ind.FlagColumn())
		} else {
			// No scope distinction; treat as generally applied.
			code.Flag = 1
		}
		o.Policy[ind-1] = code
	}

	o.ConfirmedCases = cols.num(record, "ConfirmedCases")
	o.ConfirmedDeaths = cols.num(record, "ConfirmedDeaths")
	o.Recovered = cols.num(record, "Recovered")
	o.StringencyIndex = cols.num(record, "StringencyIndex")

	return o, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// columnIndex maps normalized header names to field positions.
type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	return cols
}

// normalizeHeader joins spaced column names with underscores, e.g.
// "C1 School closing" -> "C1_School_closing".
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(h)), "_")
}

func (c columnIndex) any(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := c[n]; ok {
			return i, true
		}
	}
	return 0, false
}

func (c columnIndex) str(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// num parses a numeric cell, mapping absent columns and empty or
// not-a-number sentinels to 0.
func (c columnIndex) num(record []string, name string) float64 {
	s := c.str(record, name)
	if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
