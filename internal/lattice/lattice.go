// Package lattice implements the lattice builder: it scans a normalized
// jamo string through the frozen trie as an Aho-Corasick matcher and
// emits a DAG of GraphNodes, synthesizing unknown-form nodes where the
// dictionary has no coverage and coalescing non-Hangul runs into single
// character-class nodes.
//
// Grounded on a regex-driven tokenization loop (scan left to right,
// classify, emit one unit per run) — generalized here from a regex token
// scanner into a class-transition state machine over jamo code units,
// and from a flat token list into a DAG with explicit predecessor links.
package lattice

import (
	"unicode"
	"unicode/utf16"

	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/jamo"
	"github.com/kiwi-go/kiwi/internal/postag"
	"github.com/kiwi-go/kiwi/internal/trie"
)

// GraphNode is a lattice vertex: either a dictionary Form match, a
// coalesced special-character run, or a synthesized unknown-form node.
type GraphNode struct {
	FormID     dict.FormID
	StartPos   int // inclusive, in jamo-sequence units
	EndPos     int // exclusive
	TypoCost   float32
	SpaceErrors int
	Unknown    bool
	UnkTag     postag.Tag // meaningful only when Unknown
	Prev       []*GraphNode
}

// Start is the synthetic sentinel node at the head of every lattice: every
// real node's Prev chain bottoms out at Start. The matching End sentinel is
// built per graph (Graph.End); its Prev holds every node that reaches the
// final position.
var (
	Start = &GraphNode{StartPos: -1, EndPos: 0}
)

// Options configures lattice construction: the subset of the façade's
// Match bits relevant here, plus a few construction-time tunables.
type Options struct {
	MaxUnkFormSize    int
	SpaceTolerance    int
	UnkFormScoreScale float32
	UnkFormScoreBias  float32

	// MatchURL, MatchEmail, MatchHashtag, MatchMention, and MatchSerial
	// gate the corresponding pattern scanners tried at every position
	// before the ordinary class dispatch (see scanPattern). MatchEmoji
	// gates single-rune emoji-range detection. MatchZCoda gates
	// scanHangulRun's jamo.IsZCodaCandidate shortcut.
	MatchURL     bool
	MatchEmail   bool
	MatchHashtag bool
	MatchMention bool
	MatchSerial  bool
	MatchEmoji   bool
	MatchZCoda   bool
}

// DefaultOptions holds the tuned default thresholds for unknown-form
// scoring and space tolerance, with every pattern scanner enabled.
var DefaultOptions = Options{
	MaxUnkFormSize:    6,
	SpaceTolerance:    0,
	UnkFormScoreScale: -3.0,
	UnkFormScoreBias:  -2.0,
	MatchURL:          true,
	MatchEmail:        true,
	MatchHashtag:      true,
	MatchMention:      true,
	MatchSerial:       true,
	MatchEmoji:        true,
	MatchZCoda:        true,
}

// Graph is the constructed lattice: every node reachable from Start that
// also reaches End, in the topological (left-to-right by EndPos) order
// the path evaluator expects to consume them in.
type Graph struct {
	Nodes []*GraphNode
	End   *GraphNode
}

// Build scans jamo through tr, consulting forms for candidate lookups at
// match time (the candidate list itself is read lazily by the path
// evaluator via forms.At(node.FormID).Candidates), and returns the pruned
// DAG.
func Build(jamo []uint16, forms *dict.FormStore, tr *trie.Trie, opts Options) *Graph {
	n := len(jamo)
	endPosMap := make([][]*GraphNode, n+1)
	reachable := make([]bool, n+1)
	reachable[0] = true
	endPosMap[0] = []*GraphNode{Start}

	classes := make([]charClass, n)
	for i, j := range jamo {
		classes[i] = classify(j)
	}

	i := 0
	for i < n {
		if reachable[i] {
			if end, tag, ok := scanPattern(jamo, i, opts); ok {
				node := &GraphNode{
					FormID:   dict.SentinelFormID(tag),
					StartPos: i,
					EndPos:   end,
					Prev:     endPosMap[i],
				}
				endPosMap[end] = append(endPosMap[end], node)
				reachable[end] = true
				i = end
				continue
			}
		}
		cls := classes[i]
		switch cls {
		case classSpace:
			// A single space never breaks the chain: whatever was
			// reachable just before it carries straight through, so the
			// word on the other side can still bind its Prev links.
			if reachable[i] {
				endPosMap[i+1] = append(endPosMap[i+1], endPosMap[i]...)
				reachable[i+1] = true
			}
			i++
			continue
		case classHangul:
			i = scanHangulRun(jamo, classes, i, tr, forms, endPosMap, reachable, opts)
		default:
			i = scanSpecialRun(jamo, classes, i, endPosMap, reachable)
		}
	}

	nodes := collectReachable(endPosMap, n)
	end := &GraphNode{StartPos: n, EndPos: n, Prev: endPosMap[n]}
	return &Graph{Nodes: nodes, End: end}
}

// scanHangulRun drives the trie as an Aho-Corasick matcher across a
// contiguous Hangul run starting at i, registering a GraphNode for every
// trie match ending at a position reachable from some earlier node, and
// filling any otherwise-unreached position with a length-1 unknown node
// so the Viterbi search can still chain across it (see DESIGN.md's
// unknown-form synthesis note). Returns the position just past the run.
func scanHangulRun(seq []uint16, classes []charClass, start int, tr *trie.Trie, forms *dict.FormStore, endPosMap [][]*GraphNode, reachable []bool, opts Options) int {
	end := start
	for end < len(seq) && classes[end] == classHangul {
		end++
	}

	cur := trie.Root
	var matchBuf []trie.Match
	unkRun := 0
	for pos := start; pos < end; pos++ {
		cur = tr.Step(cur, seq[pos])
		matchBuf = matchBuf[:0]
		matchBuf = tr.CollectMatches(cur, matchBuf)

		matched := false
		for _, m := range matchBuf {
			matchStart := pos + 1 - int(m.Length)
			if matchStart < start || !reachable[matchStart] {
				continue
			}
			if len(forms.At(m.Form).Candidates) == 0 {
				// A trie leaf with no surviving candidate morpheme (fully
				// filtered out at model-build time) cannot seed a cell;
				// treat the span as unmatched so it still gets unknown-form
				// coverage below.
				continue
			}
			node := &GraphNode{
				FormID:   m.Form,
				StartPos: matchStart,
				EndPos:   pos + 1,
				Prev:     endPosMap[matchStart],
			}
			endPosMap[pos+1] = append(endPosMap[pos+1], node)
			reachable[pos+1] = true
			matched = true
		}

		if !matched && reachable[pos] && unkRun < opts.MaxUnkFormSize {
			node := &GraphNode{
				Unknown:  true,
				UnkTag:   postag.NNG,
				StartPos: pos,
				EndPos:   pos + 1,
				Prev:     endPosMap[pos],
			}
			endPosMap[pos+1] = append(endPosMap[pos+1], node)
			reachable[pos+1] = true
			unkRun++

			// A z_coda candidate (a bare ㅋ/ㅎ with no vowel after it, see
			// jamo.IsZCodaCandidate) also gets an unknown node spanning it
			// and the following jamo, alongside the one-position node
			// above, so the Viterbi search can pick either segmentation.
			if opts.MatchZCoda && jamo.IsZCodaCandidate(seq, pos) && pos+1 < len(seq) {
				shortcut := &GraphNode{
					Unknown:  true,
					UnkTag:   postag.NNG,
					StartPos: pos,
					EndPos:   pos + 2,
					TypoCost: 0.25,
					Prev:     endPosMap[pos],
				}
				endPosMap[pos+2] = append(endPosMap[pos+2], shortcut)
				reachable[pos+2] = true
			}
		} else if matched {
			unkRun = 0
		}
	}
	return end
}

// scanPattern tries every enabled pattern scanner at position i, in
// order of specificity (a URL match should win over a bare mention
// match on its embedded "@", for instance). It returns the position just
// past the match and the special tag to emit, or ok=false if nothing
// matched.
func scanPattern(seq []uint16, i int, opts Options) (int, postag.Tag, bool) {
	if opts.MatchURL {
		if end, ok := scanURL(seq, i); ok {
			return end, postag.WURL, true
		}
	}
	if opts.MatchEmail {
		if end, ok := scanEmail(seq, i); ok {
			return end, postag.WEMAIL, true
		}
	}
	if opts.MatchSerial {
		if end, ok := scanSerial(seq, i); ok {
			return end, postag.WSERIAL, true
		}
	}
	if opts.MatchHashtag {
		if end, ok := scanHashtag(seq, i); ok {
			return end, postag.WHASHTAG, true
		}
	}
	if opts.MatchMention {
		if end, ok := scanMention(seq, i); ok {
			return end, postag.WMENTION, true
		}
	}
	if opts.MatchEmoji {
		if end, ok := scanEmoji(seq, i); ok {
			return end, postag.WEMOJI, true
		}
	}
	return i, 0, false
}

func hasPrefixAt(seq []uint16, i int, lit string) bool {
	if i+len(lit) > len(seq) {
		return false
	}
	for k := 0; k < len(lit); k++ {
		if seq[i+k] != uint16(lit[k]) {
			return false
		}
	}
	return true
}

func isURLBodyChar(u uint16) bool {
	r := rune(u)
	return r > ' ' && r < 0x80 && r != '"' && r != '\'' && r != '<' && r != '>'
}

// scanURL matches an "http://", "https://", or "www." prefix followed by
// a run of non-space ASCII body characters.
func scanURL(seq []uint16, i int) (int, bool) {
	switch {
	case hasPrefixAt(seq, i, "http://"), hasPrefixAt(seq, i, "https://"), hasPrefixAt(seq, i, "www."):
	default:
		return i, false
	}
	end := i
	for end < len(seq) && isURLBodyChar(seq[end]) {
		end++
	}
	return end, end > i
}

func isEmailLocalChar(u uint16) bool {
	r := rune(u)
	return unicode.IsLetter(r) && r < 0x80 || unicode.IsDigit(r) && r < 0x80 ||
		u == '.' || u == '_' || u == '-' || u == '+'
}

func isEmailDomainChar(u uint16) bool {
	r := rune(u)
	return unicode.IsLetter(r) && r < 0x80 || unicode.IsDigit(r) && r < 0x80 ||
		u == '.' || u == '-'
}

// scanEmail matches local@domain.tld starting at the first local-part
// character; it requires at least one '.' in the domain so a bare "@"
// mention (handled separately by scanMention) is never misclassified.
func scanEmail(seq []uint16, i int) (int, bool) {
	j := i
	for j < len(seq) && isEmailLocalChar(seq[j]) {
		j++
	}
	if j == i || j >= len(seq) || seq[j] != '@' {
		return i, false
	}
	j++
	domainStart := j
	hasDot := false
	for j < len(seq) && isEmailDomainChar(seq[j]) {
		if seq[j] == '.' {
			hasDot = true
		}
		j++
	}
	if j == domainStart || !hasDot {
		return i, false
	}
	return j, true
}

func isWordChar(u uint16) bool {
	r := rune(u)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || u == '_'
}

// scanHashtag matches a leading '#' followed by at least one word
// character (letters, in any script, so "#한국" matches as well as
// "#go").
func scanHashtag(seq []uint16, i int) (int, bool) {
	if seq[i] != '#' {
		return i, false
	}
	j := i + 1
	for j < len(seq) && isWordChar(seq[j]) {
		j++
	}
	return j, j > i+1
}

// scanMention matches a leading '@' followed by word characters. Run
// after scanEmail in scanPattern's priority order, so a bare "@user" at
// the start of a token (not preceded by a consumed local-part) is what
// reaches here.
func scanMention(seq []uint16, i int) (int, bool) {
	if seq[i] != '@' {
		return i, false
	}
	j := i + 1
	for j < len(seq) && isWordChar(seq[j]) {
		j++
	}
	return j, j > i+1
}

func isASCIIDigit(u uint16) bool { return u >= '0' && u <= '9' }

// scanSerial matches a digit group followed by at least one more
// '-' or '.'-separated digit group (phone numbers, dates, ids: e.g.
// "010-1234-5678", "2024.01.01").
func scanSerial(seq []uint16, i int) (int, bool) {
	if !isASCIIDigit(seq[i]) {
		return i, false
	}
	j := i
	groups := 0
	for {
		start := j
		for j < len(seq) && isASCIIDigit(seq[j]) {
			j++
		}
		if j == start {
			break
		}
		groups++
		if j+1 < len(seq) && (seq[j] == '-' || seq[j] == '.') && isASCIIDigit(seq[j+1]) {
			j++
			continue
		}
		break
	}
	if groups < 2 {
		return i, false
	}
	return j, true
}

// decodeRuneAt decodes the rune starting at jamo-sequence index i,
// following a UTF-16 surrogate pair if present, and returns its width in
// uint16 units.
func decodeRuneAt(seq []uint16, i int) (rune, int) {
	u := seq[i]
	if utf16.IsSurrogate(rune(u)) && i+1 < len(seq) {
		if r := utf16.DecodeRune(rune(u), rune(seq[i+1])); r != unicode.ReplacementChar {
			return r, 2
		}
	}
	return rune(u), 1
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0x2764 || r == 0x2665:
		return true
	default:
		return false
	}
}

// scanEmoji matches a single emoji code point (itself possibly a
// surrogate pair).
func scanEmoji(seq []uint16, i int) (int, bool) {
	r, size := decodeRuneAt(seq, i)
	if !isEmojiRune(r) {
		return i, false
	}
	return i + size, true
}

// scanSpecialRun coalesces a run of non-Hangul code units sharing the
// same character class into a single special GraphNode: a change of
// character class closes the previous run.
func scanSpecialRun(jamo []uint16, classes []charClass, start int, endPosMap [][]*GraphNode, reachable []bool) int {
	cls := classes[start]
	end := start + 1
	for end < len(jamo) && classes[end] == cls {
		end++
	}
	if !reachable[start] {
		return end
	}
	node := &GraphNode{
		FormID:   dict.SentinelFormID(tagForClass(cls, rune(jamo[start]))),
		StartPos: start,
		EndPos:   end,
		Prev:     endPosMap[start],
	}
	endPosMap[end] = append(endPosMap[end], node)
	reachable[end] = true
	return end
}

// collectReachable returns every node in endPosMap (excluding the Start
// sentinel) that is reachable from Start, in ascending EndPos order —
// already topologically sorted, since a node's Prev entries all have a
// strictly smaller EndPos. Nodes that cannot reach position n (the
// backward half of the forward-then-backward reachability pass) are
// dropped by walking predecessors from n backward and keeping only nodes
// marked live.
func collectReachable(endPosMap [][]*GraphNode, n int) []*GraphNode {
	live := make(map[*GraphNode]bool)
	var stack []*GraphNode
	stack = append(stack, endPosMap[n]...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top == Start || live[top] {
			continue
		}
		live[top] = true
		stack = append(stack, top.Prev...)
	}

	var out []*GraphNode
	for pos := 1; pos <= n; pos++ {
		for _, node := range endPosMap[pos] {
			if live[node] {
				out = append(out, node)
			}
		}
	}
	return out
}

type charClass uint8

const (
	classHangul charClass = iota
	classDigit
	classLatin
	classHan
	classPunct
	classSpace
	classOther
)

func classify(u uint16) charClass {
	r := rune(u)
	switch {
	case isJamoUnit(u):
		return classHangul
	case unicode.IsSpace(r):
		return classSpace
	case unicode.IsDigit(r):
		return classDigit
	case unicode.Is(unicode.Han, r):
		return classHan
	case isLatinLetter(r):
		return classLatin
	case unicode.IsPunct(r), unicode.IsSymbol(r):
		return classPunct
	default:
		return classOther
	}
}

func isJamoUnit(u uint16) bool {
	return (u >= 0x1100 && u <= 0x11FF) || (u >= 0xAC00 && u <= 0xD7A3)
}

func isLatinLetter(r rune) bool {
	return unicode.IsLetter(r) && unicode.Is(unicode.Latin, r)
}

func tagForClass(cls charClass, first rune) postag.Tag {
	switch cls {
	case classDigit:
		return postag.SN
	case classLatin:
		return postag.SL
	case classHan:
		return postag.SH
	case classPunct:
		return sentenceFinalOrOtherPunct(rune(first))
	default:
		return postag.SW
	}
}

func sentenceFinalOrOtherPunct(r rune) postag.Tag {
	switch r {
	case '.', '!', '?':
		return postag.SF
	case ',':
		return postag.SP
	case '"', '\'', '(', ')', '[', ']', '{', '}':
		return postag.SS
	case '-', '~':
		return postag.SO
	default:
		return postag.SW
	}
}
