// Package tabular reads arc catalogs from CSV and writes batch records as
// CSV, JSON or YAML.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/catalog"
)

// Columns names the input header fields.
type Columns struct {
	Carrier string `toml:"carrier"`
	From    string `toml:"from"`
	To      string `toml:"to"`
	Cost    string `toml:"cost"`
}

// DefaultColumns returns the historical input header.
func DefaultColumns() Columns {
	return Columns{
		Carrier: "shipment_company",
		From:    "from_country",
		To:      "to_country",
		Cost:    "cost",
	}
}

// ReadRows parses a header-driven CSV. Extra columns are ignored; a missing
// column, a short record or an unparsable cost is a *shipflow.ValidationError
// whose Row is the 1-based line number in the input.
func ReadRows(r io.Reader, cols Columns) ([]catalog.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, shipflow.Invalid("header", "input is empty")
	}
	if err != nil {
		return nil, csvError(err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	want := []string{cols.Carrier, cols.From, cols.To, cols.Cost}
	pos := make([]int, len(want))
	for i, name := range want {
		p, ok := idx[name]
		if !ok {
			return nil, shipflow.Invalid("header", "missing column %q", name)
		}
		pos[i] = p
	}
	width := 0
	for _, p := range pos {
		width = max(width, p+1)
	}

	var rows []catalog.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < width {
			return nil, &shipflow.ValidationError{
				Field:  "record",
				Row:    line,
				Reason: fmt.Sprintf("%d fields, need at least %d", len(rec), width),
			}
		}

		raw := strings.TrimSpace(rec[pos[3]])
		cost, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &shipflow.ValidationError{
				Field:  cols.Cost,
				Row:    line,
				Reason: fmt.Sprintf("not a number: %q", raw),
			}
		}
		rows = append(rows, catalog.Row{
			Carrier: strings.TrimSpace(rec[pos[0]]),
			From:    strings.TrimSpace(rec[pos[1]]),
			To:      strings.TrimSpace(rec[pos[2]]),
			Cost:    cost,
		})
	}

	return rows, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &shipflow.ValidationError{Field: "csv", Row: pe.Line, Reason: pe.Err.Error()}
	}

	return fmt.Errorf("tabular: read: %w", err)
}
