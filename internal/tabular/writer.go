package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/route"
)

// Format is an output encoding.
type Format string

// Supported output formats.
const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts csv, json, yaml and yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}

	return CSV, shipflow.Invalid("format", "unknown output format %q (want csv|json|yaml)", s)
}

// Header is the CSV result header.
var Header = []string{"from", "to", "cost", "path", "num_of_days"}

// Hop is one arc of a structured result.
type Hop struct {
	Carrier string `json:"carrier" yaml:"carrier"`
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
}

// Result is the structured form of a batch.Record used by JSON and YAML.
type Result struct {
	From  string   `json:"from" yaml:"from"`
	To    string   `json:"to" yaml:"to"`
	Cost  *float64 `json:"cost" yaml:"cost"`
	Path  []Hop    `json:"path" yaml:"path"`
	Hops  int      `json:"num_of_days" yaml:"num_of_days"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewResult converts a record. Failed records get a nil cost and the error text.
func NewResult(rec batch.Record) Result {
	res := Result{From: rec.From, To: rec.To, Hops: rec.Hops, Path: make([]Hop, 0, len(rec.Path))}
	for _, k := range rec.Path {
		res.Path = append(res.Path, Hop{Carrier: k.Carrier, From: k.Origin, To: k.Destination})
	}
	if rec.Err != nil {
		res.Error = rec.Err.Error()
	} else {
		c := rec.Cost
		res.Cost = &c
	}

	return res
}

// Write encodes records in format f.
func Write(w io.Writer, f Format, records []batch.Record) error {
	switch f {
	case CSV:
		return WriteCSV(w, records)
	case JSON:
		return writeJSON(w, records)
	case YAML:
		return writeYAML(w, records)
	}

	return fmt.Errorf("tabular: unsupported format %q", f)
}

// WriteCSV writes the from,to,cost,path,num_of_days table. Failed pairs keep
// their row with empty cost, path and hop count.
func WriteCSV(w io.Writer, records []batch.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("tabular: write header: %w", err)
	}
	for _, rec := range records {
		row := []string{rec.From, rec.To, "", "", ""}
		if rec.Err == nil {
			row[2] = strconv.FormatFloat(rec.Cost, 'f', -1, 64)
			row[3] = FormatPath(rec.Path)
			row[4] = strconv.Itoa(rec.Hops)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("tabular: write %s→%s: %w", rec.From, rec.To, err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// FormatPath renders arcs as "[(carrier, from, to), ...]".
func FormatPath(arcs []catalog.ArcKey) string {
	return (&route.Path{Arcs: arcs, Hops: len(arcs)}).String()
}

func results(records []batch.Record) []Result {
	out := make([]Result, len(records))
	for i, rec := range records {
		out[i] = NewResult(rec)
	}

	return out
}

func writeJSON(w io.Writer, records []batch.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results(records)); err != nil {
		return fmt.Errorf("tabular: encode json: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, records []batch.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(results(records)); err != nil {
		return fmt.Errorf("tabular: encode yaml: %w", err)
	}

	return enc.Close()
}
