// Package lm implements the language model query contract: a packed
// modified Kneser-Ney trigram model over a flat node array, queried
// through the same shared-key/diff-array idiom as internal/trie, plus an
// optional history transformer that buckets high-cardinality open-class
// vocabulary ids down to a tag-level id before lookup.
//
// Quantized ll/gamma storage is grounded on a packed-weight
// dequantization idiom seen in llama.go-style ports: read a
// low-bit-width code per weight and expand it through a small lookup
// table built once at load time; internal/lm follows the same shape.
package lm

import "github.com/kiwi-go/kiwi/internal/postag"

// State is the opaque LM context handle the path evaluator threads
// through Viterbi cells. For this reference KN implementation it is a
// node index into the packed n-gram trie; it is hashable and
// equality-comparable as the contract requires, since it is just an
// integer.
type State int32

// RootState is the initial state (the empty-context unigram root).
const RootState State = 0

// node is one packed n-gram context in the flat model.
type node struct {
	numNexts   int32
	lower      int32 // suffix-link node index (back-off target)
	nextOffset int32
	ll         float32 // log-probability of reaching this context
	gamma      float32 // back-off weight applied when a child lookup misses
}

// Model is the frozen, shared KN language model.
type Model struct {
	nodes     []node
	nextKeys  []uint32 // vocab/lm-morpheme ids, sorted ascending per node
	nextDiffs []int32

	unkID uint32

	// tagFallback maps a POS tag to the lm-morpheme id used in place of
	// an out-of-vocabulary morpheme of that tag — the history
	// transformer's tag-bucketing fallback (supplementing 's
	// "unknown morphemes are mapped to a tag-bucketed fallback id" with
	// original_source/KNLangModel.h's concrete per-tag table).
	tagFallback [postag.Count]uint32
}

// New constructs a Model from already-decoded flat arrays (internal/lm's
// loader, load.go, is what actually reads these off an mmapped section).
func New(nodes []node, nextKeys []uint32, nextDiffs []int32, unkID uint32, tagFallback [postag.Count]uint32) *Model {
	return &Model{
		nodes:       nodes,
		nextKeys:    nextKeys,
		nextDiffs:   nextDiffs,
		unkID:       unkID,
		tagFallback: tagFallback,
	}
}

// NodeSpec exposes node's fields outside the package, so a test fixture
// in another package (internal/path's Viterbi tests, for instance) can
// assemble a small Model without going through a model file on disk.
type NodeSpec struct {
	NumNexts   int32
	Lower      int32
	NextOffset int32
	LL         float32
	Gamma      float32
}

// NewFromSpecs is New, taking NodeSpecs in place of the unexported node
// type.
func NewFromSpecs(specs []NodeSpec, nextKeys []uint32, nextDiffs []int32, unkID uint32, tagFallback [postag.Count]uint32) *Model {
	nodes := make([]node, len(specs))
	for i, s := range specs {
		nodes[i] = node{numNexts: s.NumNexts, lower: s.Lower, nextOffset: s.NextOffset, ll: s.LL, gamma: s.Gamma}
	}
	return New(nodes, nextKeys, nextDiffs, unkID, tagFallback)
}

// InitialState returns S0, the empty-context state every sentence's
// Viterbi search starts from.
func (m *Model) InitialState() State { return RootState }

// VocabID resolves a raw LM-morpheme id to the id actually used in
// lookups: ids are passed through unchanged when lmID is a known vocab
// entry (id < len via the model's own vocab_size check, left to the
// caller's "lm-morpheme-id < vocab_size" invariant);
// out-of-vocabulary morphemes use the tag's fallback bucket instead.
func (m *Model) VocabID(lmID uint32, tag postag.Tag, inVocab bool) uint32 {
	if inVocab {
		return lmID
	}
	if fb := m.tagFallback[tag]; fb != 0 {
		return fb
	}
	return m.unkID
}

// Progress is the `progress(S, morpheme-id) -> (S', ll)` contract of
// : walk from s looking for a child keyed by vocabID; on a
// miss, accumulate the node's back-off weight (gamma) and retry from its
// suffix link, until a match is found or the root's fallback ll applies.
// Pure: the same (s, vocabID) always returns the same (S', ll), since
// Model is immutable after construction.
func (m *Model) Progress(s State, vocabID uint32) (State, float32) {
	cur := s
	var backoff float32
	for {
		n := &m.nodes[cur]
		if next, ok := m.find(cur, vocabID); ok {
			return State(next), backoff + m.nodes[next].ll
		}
		if cur == RootState {
			return RootState, backoff + n.ll
		}
		backoff += n.gamma
		cur = State(n.lower)
	}
}

func (m *Model) find(cur State, key uint32) (int32, bool) {
	n := &m.nodes[cur]
	keys := m.nextKeys[n.nextOffset : n.nextOffset+n.numNexts]
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case keys[mid] == key:
			return int32(cur) + m.nextDiffs[n.nextOffset+int32(mid)], true
		case keys[mid] < key:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}
