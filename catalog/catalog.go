// Package catalog holds the arc catalog: every (carrier, origin, destination)
// lane on offer with its unit cost, in the order the lanes were first seen.
package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/shipflow"
)

// ArcKey identifies one directed lane offered by one carrier.
// (k, i, j) and (k, j, i) are unrelated keys.
type ArcKey struct {
	Carrier     string
	Origin      string
	Destination string
}

// String renders the key as "(carrier, origin, destination)".
func (k ArcKey) String() string {
	return fmt.Sprintf("(%s, %s, %s)", k.Carrier, k.Origin, k.Destination)
}

// ArcData carries the cost and flow bounds of an arc. Bounds are always 0..1.
type ArcData struct {
	Cost    float64
	MinFlow int
	MaxFlow int
}

// Row is one input record.
type Row struct {
	Carrier string
	From    string
	To      string
	Cost    float64
}

// Catalog is an immutable, ordered arc table. Safe for concurrent reads.
type Catalog struct {
	keys         []ArcKey
	data         map[ArcKey]ArcData
	firstRow     map[ArcKey]int
	duplicates   int
	origins      map[string]struct{}
	destinations map[string]struct{}
}

// Build assembles a catalog from four parallel columns.
//
// Errors (all *shipflow.ValidationError):
//   - column lengths differ;
//   - empty carrier, origin or destination;
//   - negative, NaN or infinite cost;
//   - duplicate key under RejectDuplicates.
//
// Under the default OverwriteDuplicates policy a repeated key keeps its first
// position in Keys() but takes the cost of its last occurrence.
func Build(carriers, origins, destinations []string, costs []float64, opts ...Option) (*Catalog, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := len(carriers)
	if len(origins) != n || len(destinations) != n || len(costs) != n {
		return nil, shipflow.Invalid("columns",
			"length mismatch: carriers=%d origins=%d destinations=%d costs=%d",
			len(carriers), len(origins), len(destinations), len(costs))
	}

	c := &Catalog{
		keys:         make([]ArcKey, 0, n),
		data:         make(map[ArcKey]ArcData, n),
		firstRow:     make(map[ArcKey]int, n),
		origins:      make(map[string]struct{}),
		destinations: make(map[string]struct{}),
	}
	for i := 0; i < n; i++ {
		if err := checkRow(i, carriers[i], origins[i], destinations[i], costs[i]); err != nil {
			return nil, err
		}
		k := ArcKey{Carrier: carriers[i], Origin: origins[i], Destination: destinations[i]}
		if first, seen := c.firstRow[k]; seen {
			if o.duplicates == RejectDuplicates {
				return nil, &shipflow.ValidationError{
					Field:  "arc",
					Row:    i,
					Reason: fmt.Sprintf("duplicate of row %d: %s", first, k),
				}
			}
			c.duplicates++
		} else {
			c.firstRow[k] = i
			c.keys = append(c.keys, k)
		}
		c.data[k] = ArcData{Cost: costs[i], MinFlow: 0, MaxFlow: 1}
		c.origins[k.Origin] = struct{}{}
		c.destinations[k.Destination] = struct{}{}
	}

	return c, nil
}

// FromRows splits rows into columns and calls Build.
func FromRows(rows []Row, opts ...Option) (*Catalog, error) {
	carriers := make([]string, len(rows))
	origins := make([]string, len(rows))
	destinations := make([]string, len(rows))
	costs := make([]float64, len(rows))
	for i, r := range rows {
		carriers[i], origins[i], destinations[i], costs[i] = r.Carrier, r.From, r.To, r.Cost
	}

	return Build(carriers, origins, destinations, costs, opts...)
}

func checkRow(i int, carrier, origin, destination string, cost float64) error {
	switch {
	case carrier == "":
		return &shipflow.ValidationError{Field: "carrier", Row: i, Reason: "empty identifier"}
	case origin == "":
		return &shipflow.ValidationError{Field: "origin", Row: i, Reason: "empty identifier"}
	case destination == "":
		return &shipflow.ValidationError{Field: "destination", Row: i, Reason: "empty identifier"}
	case math.IsNaN(cost) || math.IsInf(cost, 0):
		return &shipflow.ValidationError{Field: "cost", Row: i, Reason: fmt.Sprintf("not a finite number: %v", cost)}
	case cost < 0:
		return &shipflow.ValidationError{Field: "cost", Row: i, Reason: fmt.Sprintf("negative: %g", cost)}
	}

	return nil
}

// Len returns the number of distinct arcs.
func (c *Catalog) Len() int { return len(c.keys) }

// Keys returns arc keys in enumeration order. The slice is a copy.
func (c *Catalog) Keys() []ArcKey {
	out := make([]ArcKey, len(c.keys))
	copy(out, c.keys)

	return out
}

// Get returns the data of k.
func (c *Catalog) Get(k ArcKey) (ArcData, bool) {
	d, ok := c.data[k]

	return d, ok
}

// Duplicates returns how many input rows overwrote an earlier row.
func (c *Catalog) Duplicates() int { return c.duplicates }

// Carriers returns the distinct carriers, sorted.
func (c *Catalog) Carriers() []string {
	set := make(map[string]struct{})
	for _, k := range c.keys {
		set[k.Carrier] = struct{}{}
	}

	return sortedKeys(set)
}

// Nodes derives the node set under policy, sorted lexicographically.
func (c *Catalog) Nodes(policy NodePolicy) []string {
	if policy == Origins {
		return sortedKeys(c.origins)
	}
	set := make(map[string]struct{}, len(c.origins)+len(c.destinations))
	for n := range c.origins {
		set[n] = struct{}{}
	}
	for n := range c.destinations {
		set[n] = struct{}{}
	}

	return sortedKeys(set)
}

// DestinationOnly lists nodes that appear only as destinations, sorted.
// These are the nodes the Origins policy drops.
func (c *Catalog) DestinationOnly() []string {
	set := make(map[string]struct{})
	for n := range c.destinations {
		if _, ok := c.origins[n]; !ok {
			set[n] = struct{}{}
		}
	}

	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
