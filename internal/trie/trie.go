// Package trie implements the frozen, Aho-Corasick-augmented double-array
// trie that maps jamo sequences to form candidates. Patterns are
// inserted and fail-linked via an ordinary map-based trie (builder.go,
// grounded on a BFS fail-link construction idiom used by content-filter
// Aho-Corasick implementations), then Freeze compiles that trie into the
// flat, immutable arrays this package actually queries on the hot path:
// a contiguous nodes[] array plus shared next_keys[]/next_diffs[]
// arrays.
package trie

import "github.com/kiwi-go/kiwi/internal/dict"

// Payload classifies what a frozen node represents.
type Payload uint8

const (
	PayloadNone        Payload = iota
	PayloadHasSubmatch         // some descendant matches, this node doesn't
	PayloadForm                // this node terminates a Form
)

// node is one entry in the frozen nodes[] array.
type node struct {
	numNexts   int32
	lowerDiff  int32 // signed index delta to the fail link (0 at root)
	nextOffset int32 // offset into the shared key/diff arrays
	payload    Payload
	form       dict.FormID // valid only when payload == PayloadForm
	depth      int32       // edges from root; a PayloadForm node's match length
}

// Depth returns the number of jamo code units matched to reach node idx
// from the root — the length of the Form matched there, when
// Payload(idx) == PayloadForm.
func (t *Trie) Depth(idx int32) int32 { return t.nodes[idx].depth }

// Trie is the frozen, read-only automaton shared across every concurrent
// analysis call. It holds no mutable state past construction.
type Trie struct {
	nodes     []node
	nextKeys  []uint16
	nextDiffs []int32

	next func(t *Trie, cur int32, key uint16) (int32, bool)
}

// Root is the index of the trie root in nodes.
const Root int32 = 0

// SetArch overrides the dispatch variant Freeze picked automatically,
// per the "arch selector" build parameternames. name is
// "scalar" or "simd"; any other value (including "" and "auto") leaves
// the auto-detected variant in place.
func (t *Trie) SetArch(name string) {
	switch name {
	case "scalar":
		t.next = nextScalar
	case "simd":
		t.next = nextSWAR
	}
}

// NumNodes returns the number of nodes in the frozen trie.
func (t *Trie) NumNodes() int { return len(t.nodes) }

// Payload returns the payload classification of node idx.
func (t *Trie) Payload(idx int32) Payload { return t.nodes[idx].payload }

// Form returns the FormID at node idx. Only meaningful when
// Payload(idx) == PayloadForm.
func (t *Trie) Form(idx int32) dict.FormID { return t.nodes[idx].form }

// Next attempts the transition from cur on key, using the arch-selected
// search variant chosen once at Freeze time. ok is false if cur has no
// child keyed by key.
func (t *Trie) Next(cur int32, key uint16) (next int32, ok bool) {
	return t.next(t, cur, key)
}

// Match is one pattern found to end at the current scan position: its
// Form and the number of jamo code units (counting back from that
// position) it spans.
type Match struct {
	Form   dict.FormID
	Length int32
}

// CollectMatches walks cur's fail-link chain and appends a Match for
// every node along the way (including cur itself) whose payload is
// PayloadForm. This is the "collect all matches ending at this position"
// step the lattice scanner must perform after every Step, since a single
// Step only reaches the longest match — the shorter suffix matches live
// further up the fail chain.
func (t *Trie) CollectMatches(cur int32, into []Match) []Match {
	for {
		n := &t.nodes[cur]
		if n.payload == PayloadForm {
			into = append(into, Match{Form: n.form, Length: n.depth})
		}
		if cur == Root {
			return into
		}
		cur += n.lowerDiff
	}
}

// Step advances the automaton by one jamo code unit from cur, following
// fail links (the classic Aho-Corasick "lower" pointer) until a direct
// transition on key exists, then taking it. This is the single call the
// lattice scanner drives per input position: every position is matched
// against every pattern ending there, not just the longest one reachable
// by a single root-to-leaf walk, which is what makes the trie double as
// an Aho-Corasick automaton rather than a plain prefix trie.
func (t *Trie) Step(cur int32, key uint16) int32 {
	for {
		if next, ok := t.Next(cur, key); ok {
			return next
		}
		if cur == Root {
			return Root
		}
		cur = t.nodes[cur].lowerDiff + cur
	}
}
