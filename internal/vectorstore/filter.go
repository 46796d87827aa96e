package vectorstore

import (
	"fmt"
	"strings"
)

// Op identifies the kind of a filter node.
type Op int

const (
	// OpMatch is an equality predicate on a single metadata field.
	// For list-valued payload fields it matches if any element equals the value.
	OpMatch Op = iota
	// OpAnd requires every clause to hold.
	OpAnd
	// OpOr requires at least one clause to hold.
	OpOr
)

// Filter is a node in a boolean filter expression over point metadata.
// Leaves are equality matches; interior nodes combine clauses with AND or OR.
// A nil *Filter means "no filter" (plain similarity search).
type Filter struct {
	Op      Op
	Field   string    // OpMatch only
	Value   any       // OpMatch only; string or integer, anything else is stringified
	Clauses []*Filter // OpAnd / OpOr only
}

// Match returns an equality clause on a metadata field.
func Match(field string, value any) *Filter {
	return &Filter{Op: OpMatch, Field: field, Value: value}
}

// And combines clauses with conjunction. Nil clauses are skipped.
// Returns nil for no clauses and the clause itself for exactly one,
// so callers never produce a redundant single-child wrapper.
func And(clauses ...*Filter) *Filter {
	return combine(OpAnd, clauses)
}

// Or combines clauses with disjunction, with the same nil/single-clause
// collapsing as And.
func Or(clauses ...*Filter) *Filter {
	return combine(OpOr, clauses)
}

func combine(op Op, clauses []*Filter) *Filter {
	kept := make([]*Filter, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &Filter{Op: op, Clauses: kept}
	}
}

// String renders the filter for logs, e.g.
// (genre = "드라마" AND (ott = "Netflix" OR ott = "TVING")).
func (f *Filter) String() string {
	if f == nil {
		return "<none>"
	}
	switch f.Op {
	case OpMatch:
		if s, ok := f.Value.(string); ok {
			return fmt.Sprintf("%s = %q", f.Field, s)
		}
		return fmt.Sprintf("%s = %v", f.Field, f.Value)
	case OpAnd, OpOr:
		sep := " AND "
		if f.Op == OpOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(f.Clauses))
		for _, c := range f.Clauses {
			parts = append(parts, c.String())
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "<invalid>"
	}
}
