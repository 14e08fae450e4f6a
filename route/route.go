// Package route turns the unordered set of activated arcs returned by a
// solver into the hop sequence a shipment actually follows.
//
// Two orderings are available:
//
//   - Stitch (default) starts at the source and follows the single activated
//     arc leaving the current node until none is left. Anything that is not
//     one simple path (a branch, a revisited node, an arc left over, the
//     wrong terminal) is reported as *shipflow.PathError.
//   - Legacy keeps the solver's enumeration order and reverses the whole
//     sequence when the first arc does not leave the source. It is kept for
//     output compatibility with older result files and performs no checks.
package route

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/catalog"
)

// Policy selects how activated arcs are ordered.
type Policy int

const (
	// Stitch follows arcs by adjacency from the source.
	Stitch Policy = iota
	// Legacy keeps enumeration order, reversed if it does not start at the source.
	Legacy
)

func (p Policy) String() string {
	if p == Legacy {
		return "legacy"
	}

	return "stitch"
}

// ParsePolicy accepts "stitch" and "legacy"; empty means Stitch.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stitch", "adjacency":
		return Stitch, nil
	case "legacy", "reverse":
		return Legacy, nil
	}

	return Stitch, shipflow.Invalid("path_order", "unknown path order %q (want stitch or legacy)", s)
}

// Path is an ordered hop sequence. Hops always equals len(Arcs).
type Path struct {
	Arcs []catalog.ArcKey
	Hops int
}

// String renders the path as "[(carrier, from, to), ...]".
func (p *Path) String() string {
	if p == nil {
		return "[]"
	}
	parts := make([]string, len(p.Arcs))
	for i, k := range p.Arcs {
		parts[i] = k.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// Nodes lists the visited nodes, source first. An empty path yields nil.
func (p *Path) Nodes() []string {
	if p == nil || len(p.Arcs) == 0 {
		return nil
	}
	out := make([]string, 0, len(p.Arcs)+1)
	out = append(out, p.Arcs[0].Origin)
	for _, k := range p.Arcs {
		out = append(out, k.Destination)
	}

	return out
}

type options struct {
	policy Policy
	sink   string
}

// Option configures Reconstruct.
type Option func(*options)

// WithPolicy picks the ordering policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithSink makes Stitch verify that the path ends at sink.
func WithSink(sink string) Option {
	return func(o *options) { o.sink = sink }
}

// Reconstruct orders activated into a path leaving source.
// The input slice is never modified.
func Reconstruct(source string, activated []catalog.ArcKey, opts ...Option) (*Path, error) {
	o := options{policy: Stitch}
	for _, opt := range opts {
		opt(&o)
	}
	if source == "" {
		return nil, &shipflow.PathError{Source: source, Reason: "empty source"}
	}

	if o.policy == Legacy {
		return legacy(source, activated), nil
	}

	return stitch(source, activated, o.sink)
}

func legacy(source string, activated []catalog.ArcKey) *Path {
	arcs := append([]catalog.ArcKey(nil), activated...)
	if len(arcs) > 0 && arcs[0].Origin != source {
		for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
			arcs[i], arcs[j] = arcs[j], arcs[i]
		}
	}

	return &Path{Arcs: arcs, Hops: len(arcs)}
}

func stitch(source string, activated []catalog.ArcKey, sink string) (*Path, error) {
	out := make(map[string][]catalog.ArcKey, len(activated))
	for _, k := range activated {
		out[k.Origin] = append(out[k.Origin], k)
	}

	arcs := make([]catalog.ArcKey, 0, len(activated))
	seen := map[string]bool{source: true}
	cur := source
	for {
		next := out[cur]
		if len(next) == 0 {
			break
		}
		if len(next) > 1 {
			return nil, &shipflow.PathError{
				Source: source,
				Reason: fmt.Sprintf("%d activated arcs leave %q", len(next), cur),
			}
		}
		k := next[0]
		if seen[k.Destination] {
			return nil, &shipflow.PathError{
				Source: source,
				Reason: fmt.Sprintf("arc %s revisits %q", k, k.Destination),
			}
		}
		seen[k.Destination] = true
		arcs = append(arcs, k)
		cur = k.Destination
	}

	if left := len(activated) - len(arcs); left > 0 {
		return nil, &shipflow.PathError{
			Source: source,
			Reason: fmt.Sprintf("%d activated arcs are not on the path from the source", left),
		}
	}
	if sink != "" && cur != sink {
		return nil, &shipflow.PathError{
			Source: source,
			Reason: fmt.Sprintf("path ends at %q, want %q", cur, sink),
		}
	}

	return &Path{Arcs: arcs, Hops: len(arcs)}, nil
}
