package assemble

import (
	"testing"

	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/lattice"
	"github.com/kiwi-go/kiwi/internal/path"
	"github.com/kiwi-go/kiwi/internal/postag"
)

func TestMergeAffixesJoinsNounSuffix(t *testing.T) {
	tokens := []TokenInfo{
		{Form: "마음", Tag: postag.NNG, Position: 0, Length: 2},
		{Form: "씨", Tag: postag.XSN, Position: 2, Length: 1},
	}
	out := mergeAffixes(tokens, DefaultOptions)
	if len(out) != 1 {
		t.Fatalf("expected one merged token, got %d", len(out))
	}
	if out[0].Form != "마음씨" || out[0].Tag != postag.NNG {
		t.Fatalf("unexpected merge result: %+v", out[0])
	}
}

func TestMergeAffixesRespectsDisabledOption(t *testing.T) {
	opts := DefaultOptions
	opts.JoinVerbSuffix = false
	tokens := []TokenInfo{
		{Form: "공부", Tag: postag.NNG},
		{Form: "하", Tag: postag.XSV},
	}
	out := mergeAffixes(tokens, opts)
	if len(out) != 2 {
		t.Fatalf("expected no merge with JoinVerbSuffix disabled, got %d tokens", len(out))
	}
}

func TestCanonicalizeAllomorphsUnifiesSpelling(t *testing.T) {
	tokens := []TokenInfo{
		{Form: "가", Tag: postag.VV},
		{Form: "아", Tag: postag.EC},
	}
	canonicalizeAllomorphs(tokens)
	if tokens[1].Form != "어" {
		t.Fatalf("expected 아 to canonicalize to 어, got %q", tokens[1].Form)
	}
}

func TestAssignSentencePositionsSplitsOnSF(t *testing.T) {
	tokens := []TokenInfo{
		{Form: "안녕", Tag: postag.NNG},
		{Form: "다", Tag: postag.EF},
		{Form: ".", Tag: postag.SF},
		{Form: "또", Tag: postag.MAG},
	}
	assignSentencePositions(tokens)
	if tokens[0].SentPosition != 0 || tokens[2].SentPosition != 0 {
		t.Fatalf("expected first sentence's tokens at position 0, got %+v", tokens)
	}
	if tokens[3].SentPosition != 1 {
		t.Fatalf("expected token after the final punctuation to start a new sentence, got %d", tokens[3].SentPosition)
	}
}

func TestJoinReconstructsSurface(t *testing.T) {
	tokens := []TokenInfo{{Form: "나"}, {Form: "는"}, {Form: " 간다"}}
	if got, want := Join(tokens), "나는 간다"; got != want {
		t.Fatalf("Join() = %q, want %q", got, want)
	}
}

func TestAssembleWalksParentChainInOrder(t *testing.T) {
	forms := dict.NewFormStore([]dict.Form{
		{Jamo: []uint16{0x1102, 0x161}},
		{Jamo: []uint16{0x1102, 0x165, 0x11AB}},
	})
	morphs := dict.NewMorphStore([]dict.Morpheme{
		{Tag: postag.Unknown},
		{Tag: postag.NP, FormID: 0},
		{Tag: postag.VV, FormID: 1},
	})

	n1 := &lattice.GraphNode{FormID: 0, StartPos: 0, EndPos: 2}
	n2 := &lattice.GraphNode{FormID: 1, StartPos: 2, EndPos: 5, Prev: []*lattice.GraphNode{n1}}

	c1 := &path.Cell{Morph: 1, GraphNode: n1, AccScore: -1}
	c2 := &path.Cell{Morph: 2, GraphNode: n2, AccScore: -2, Parent: c1}

	jamoSeq := []uint16{0x1102, 0x161, 0x1102, 0x165, 0x11AB}
	posMap := []int{0, 1, 2, 3, 4}

	results := Assemble([]*path.Cell{c2}, jamoSeq, posMap, forms, morphs, DefaultOptions)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	toks := results[0].Tokens
	if len(toks) != 2 {
		t.Fatalf("expected two tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].Tag != postag.NP || toks[1].Tag != postag.VV {
		t.Fatalf("expected NP then VV in left-to-right order, got %+v", toks)
	}
	if toks[1].Position != 2 || toks[1].Length != 3 {
		t.Fatalf("expected second token's mapped position/length 2/3, got %d/%d", toks[1].Position, toks[1].Length)
	}
}
