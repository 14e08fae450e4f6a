package catalog

import (
	"strings"

	"github.com/katalvlaran/shipflow"
)

// NodePolicy selects how the node set is derived from the catalog.
type NodePolicy int

const (
	// Endpoints uses the union of origins and destinations.
	Endpoints NodePolicy = iota
	// Origins uses distinct origins only; destination-only nodes are dropped.
	Origins
)

func (p NodePolicy) String() string {
	if p == Origins {
		return "origins"
	}

	return "endpoints"
}

// ParseNodePolicy maps "origins" or "endpoints" (case-insensitive) to a policy.
func ParseNodePolicy(s string) (NodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "endpoints":
		return Endpoints, nil
	case "origins":
		return Origins, nil
	}

	return Endpoints, shipflow.Invalid("node_set", "unknown policy %q (want origins|endpoints)", s)
}

// DuplicatePolicy decides what happens to a repeated arc key.
type DuplicatePolicy int

const (
	// OverwriteDuplicates keeps the first position and the last cost.
	OverwriteDuplicates DuplicatePolicy = iota
	// RejectDuplicates fails the build with a ValidationError.
	RejectDuplicates
)

// ParseDuplicatePolicy maps "overwrite" or "reject" to a policy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return OverwriteDuplicates, nil
	case "reject":
		return RejectDuplicates, nil
	}

	return OverwriteDuplicates, shipflow.Invalid("duplicates", "unknown policy %q (want overwrite|reject)", s)
}

type options struct {
	duplicates DuplicatePolicy
}

func defaultOptions() options {
	return options{duplicates: OverwriteDuplicates}
}

// Option configures Build.
type Option func(*options)

// WithDuplicatePolicy sets the duplicate-key policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.duplicates = p }
}
