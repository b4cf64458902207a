// Package path implements the path evaluator: per-GraphNode Viterbi over
// the lattice the lattice builder constructs, with combine-socket
// binding for irregular conjugation, a rule-based scorer, and a
// best-path container that deduplicates competing cells by (LM state,
// special state).
package path

import (
	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/lattice"
	"github.com/kiwi-go/kiwi/internal/lm"
)

// QuoteState tracks one quote-pair's open/closed status across a path.
type QuoteState uint8

const (
	QuoteNone QuoteState = iota
	QuoteOpen
	QuoteClosed
)

// SpecialState is the per-cell state carried across a path: quote-pair
// continuity and a rolling bullet hash, both consulted by the rule-based
// scorer. Expressed as named fields rather than a single packed byte,
// since Go's Cell is already pointer-sized larger than that byte would
// save (see DESIGN.md).
type SpecialState struct {
	SingleQuote QuoteState
	DoubleQuote QuoteState
	BulletHash  uint8
}

// Cell is one surviving Viterbi hypothesis at a GraphNode. Cells
// reference their parent directly (an arena-style raw pointer): Go's
// collector makes the "cell back-pointer across per-node vectors" safety
// concern a systems language would raise moot, so the pointer form is
// kept rather than translated into an index-pair.
type Cell struct {
	LMState      lm.State
	Special      SpecialState
	Morph        dict.MorphID
	GraphNode    *lattice.GraphNode
	AccScore     float32
	FirstChunk   float32
	AccTypoCost  float32
	Parent       *Cell
	// CombineSocket carries the candidate morpheme's own socket forward
	// so the next node's evaluation can tell a pending left fragment
	// apart from an ordinary completed cell.
	CombineSocket uint8
	// Bound is true when this cell resolves a pending left fragment's
	// combine socket into its canonical combined morpheme (Morph is then
	// dict.Morpheme.Combined of the left fragment, not the raw right-hand
	// candidate). SpanStart is the left fragment's own GraphNode.StartPos,
	// meaningful only when Bound, since GraphNode still only covers the
	// right-hand half of the joined span.
	Bound     bool
	SpanStart int
}

// key is the dedup key the best-path container buckets cells by: cells
// sharing a key compete for the same limited slot. A separate root-id
// field for alternate-quote-context forking is folded into SpecialState
// itself here — two cells with different quote states already get
// different keys, so a standalone root id would only matter for
// root-merging scenarios this implementation does not attempt (see
// DESIGN.md's Open Question decision).
type key struct {
	lmState lm.State
	special SpecialState
}

func keyOf(c *Cell) key { return key{lmState: c.LMState, special: c.Special} }
