// Package assemble implements the result assembler: it walks a path
// cell's parent chain back to START, emits one TokenInfo per surface
// chunk, spreads typo cost across chunks, maps jamo positions back to the
// caller's original UTF-16 offsets, and runs the affix/allomorph
// re-merge and sentence-splitting passes over the emitted token stream.
//
// Grounded on a lemmatizer that walks a flat token list assigning
// positions and merging adjacent pieces — generalized here from a linear
// token list into a Cell parent-chain walk, and from whitespace-driven
// merging into tag-pair affix rules.
package assemble

import (
	"strings"
	"unicode/utf16"

	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/path"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// TokenInfo is one emitted morpheme surface.
type TokenInfo struct {
	Form         string
	Tag          postag.Tag
	Position     int // UTF-16 offset in the caller's original text
	Length       int // UTF-16 code units
	WordScore    float32
	TypoCost     float32
	SentPosition int
	WordPosition int
}

// Result is one top-N candidate analysis: its token stream and total
// Viterbi score.
type Result struct {
	Tokens []TokenInfo
	Score  float32
}

// Options controls the optional post-processing passes (the subset of
// the façade's Match bits relevant to result assembly).
type Options struct {
	JoinNounPrefix bool
	JoinNounSuffix bool
	JoinVerbSuffix bool
	JoinAdjSuffix  bool
	IntegrateAllomorph bool
}

// DefaultOptions enables every re-merge pass and allomorph integration.
var DefaultOptions = Options{
	JoinNounPrefix:     true,
	JoinNounSuffix:     true,
	JoinVerbSuffix:     true,
	JoinAdjSuffix:      true,
	IntegrateAllomorph: true,
}

// Assemble turns the Viterbi search's surviving END-reachable cells into
// sorted Results, one per cell, highest score first.
func Assemble(cells []*path.Cell, jamoSeq []uint16, posMap []int, forms *dict.FormStore, morphs *dict.MorphStore, opts Options) []Result {
	results := make([]Result, 0, len(cells))
	for _, c := range cells {
		tokens := walkCell(c, jamoSeq, posMap, forms, morphs)
		if opts.IntegrateAllomorph {
			canonicalizeAllomorphs(tokens)
		}
		tokens = mergeAffixes(tokens, opts)
		assignSentencePositions(tokens)
		results = append(results, Result{Tokens: tokens, Score: c.AccScore})
	}
	return results
}

// walkCell follows c's Parent chain back to the synthetic start cell,
// emitting tokens in forward (left-to-right) order.
func walkCell(c *path.Cell, jamoSeq []uint16, posMap []int, forms *dict.FormStore, morphs *dict.MorphStore) []TokenInfo {
	var chain []*path.Cell
	for cur := c; cur != nil && cur.GraphNode != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	// chain is END-to-START; reverse it in place.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var wordPos int
	var out []TokenInfo
	for i, cell := range chain {
		if cell.CombineSocket != 0 && i+1 < len(chain) && chain[i+1].Bound {
			// A pending left fragment completed by the next cell: its own
			// span merges into the combined morpheme chain[i+1] emits, so
			// it contributes no token of its own.
			continue
		}
		m := morphs.At(cell.Morph)
		spanStart := cell.GraphNode.StartPos
		if cell.Bound {
			spanStart = cell.SpanStart
		}
		out = append(out, emitChunks(cell, m, jamoSeq, posMap, forms, morphs, spanStart, wordPos)...)
		wordPos++
	}
	return out
}

// emitChunks emits the one-or-more TokenInfos a single cell's morpheme
// contributes: one token for an atomic morpheme, one per Chunk for a
// composite one. spanStart is the jamo-sequence start of the true span
// the morpheme covers — cell.GraphNode.StartPos for an ordinary cell, or
// the left fragment's own start for a cell that resolves a combine
// socket, since GraphNode then only covers the right-hand half.
func emitChunks(cell *path.Cell, m *dict.Morpheme, jamoSeq []uint16, posMap []int, forms *dict.FormStore, morphs *dict.MorphStore, spanStart, wordPos int) []TokenInfo {
	n := cell.GraphNode
	if len(m.Chunks) == 0 {
		surface := m.Surface(forms)
		return []TokenInfo{{
			Form:         jamoToString(surface),
			Tag:          m.Tag,
			Position:     mapPos(posMap, spanStart),
			Length:       mapLen(posMap, spanStart, n.EndPos),
			WordScore:    cell.FirstChunk,
			TypoCost:     cell.AccTypoCost,
			WordPosition: wordPos,
		}}
	}

	// typo-cost is spread evenly across the chunks; the first chunk's
	// wordScore carries first_chunk_score, the remaining chunks share the
	// rest of the cell's accumulated score evenly.
	perChunkTypo := cell.AccTypoCost / float32(len(m.Chunks))
	remaining := cell.AccScore - cell.FirstChunk
	perChunkRest := float32(0)
	if len(m.Chunks) > 1 {
		perChunkRest = remaining / float32(len(m.Chunks)-1)
	}

	out := make([]TokenInfo, len(m.Chunks))
	for i, ch := range m.Chunks {
		sub := morphs.At(ch.Morph)
		begin := spanStart + int(ch.Begin)
		end := spanStart + int(ch.End)
		score := perChunkRest
		if i == 0 {
			score = cell.FirstChunk
		}
		out[i] = TokenInfo{
			Form:         jamoToString(jamoSeq[begin:end]),
			Tag:          sub.Tag,
			Position:     mapPos(posMap, begin),
			Length:       mapLen(posMap, begin, end),
			WordScore:    score,
			TypoCost:     perChunkTypo,
			WordPosition: wordPos,
		}
	}
	return out
}

// mapPos translates a jamo-sequence index back to the caller's original
// UTF-16 offset through posMap, the normalizer's output.
func mapPos(posMap []int, jamoIdx int) int {
	if jamoIdx < 0 || jamoIdx >= len(posMap) {
		return 0
	}
	return posMap[jamoIdx]
}

// mapLen computes the UTF-16 length of [begin, end) in the original text
// from the position map: the gap between the mapped start of end and the
// mapped start of begin or, when end reaches past the map, the gap from the
// mapped start of begin to one code unit past the last mapped position.
func mapLen(posMap []int, begin, end int) int {
	start := mapPos(posMap, begin)
	if end >= len(posMap) {
		if len(posMap) == 0 {
			return 0
		}
		return posMap[len(posMap)-1] + 1 - start
	}
	return posMap[end] - start
}

func jamoToString(seq []uint16) string {
	return string(utf16.Decode(seq))
}

// Join concatenates a Result's tokens' surface forms back into plain
// text, the minimal reconstruction an idempotence-of-joining check
// re-feeds into Analyze.
func Join(tokens []TokenInfo) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Form)
	}
	return b.String()
}
