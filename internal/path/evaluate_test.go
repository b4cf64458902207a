package path

import (
	"testing"

	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/lattice"
	"github.com/kiwi-go/kiwi/internal/lm"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// flatModel returns a one-node (root-only) LM: every Progress call
// returns the same ll, so tests only need to reason about dictionary and
// rule scores.
func flatModel(rootLL float32) *lm.Model {
	specs := []lm.NodeSpec{{NumNexts: 0, Lower: 0, NextOffset: 0, LL: rootLL, Gamma: 0}}
	var fallback [postag.Count]uint32
	return lm.NewFromSpecs(specs, nil, nil, 0, fallback)
}

func TestEvaluateSingleNodePicksHighestUserScore(t *testing.T) {
	forms := dict.NewFormStore([]dict.Form{
		{Jamo: []uint16{0x1100, 0x161}},
	})
	morphs := dict.NewMorphStore([]dict.Morpheme{
		{Tag: postag.Unknown},
		{Tag: postag.NNG, FormID: 0, UserScore: -1},
		{Tag: postag.VV, FormID: 0, UserScore: 2},
	})
	forms.At(0).Candidates = []dict.MorphID{1, 2}

	n := &lattice.GraphNode{FormID: 0, StartPos: 0, EndPos: 2, Prev: []*lattice.GraphNode{lattice.Start}}
	end := &lattice.GraphNode{StartPos: 2, EndPos: 2, Prev: []*lattice.GraphNode{n}}
	g := &lattice.Graph{Nodes: []*lattice.GraphNode{n}, End: end}

	model := flatModel(-1)
	out := Evaluate(g, []uint16{0x1100, 0x161}, forms, morphs, model, DefaultOptions)

	if len(out) == 0 {
		t.Fatal("expected at least one surviving cell")
	}
	if out[0].Morph != 2 {
		t.Fatalf("expected the higher-UserScore candidate (VV, id 2) to win, got morph %d", out[0].Morph)
	}
}

func TestEvaluateChainsTwoNodes(t *testing.T) {
	forms := dict.NewFormStore([]dict.Form{
		{Jamo: []uint16{0x1100, 0x161}},
		{Jamo: []uint16{0x1102, 0x161}},
	})
	morphs := dict.NewMorphStore([]dict.Morpheme{
		{Tag: postag.Unknown},
		{Tag: postag.NNG, FormID: 0},
		{Tag: postag.JKS, FormID: 1},
	})
	forms.At(0).Candidates = []dict.MorphID{1}
	forms.At(1).Candidates = []dict.MorphID{2}

	n1 := &lattice.GraphNode{FormID: 0, StartPos: 0, EndPos: 2, Prev: []*lattice.GraphNode{lattice.Start}}
	n2 := &lattice.GraphNode{FormID: 1, StartPos: 2, EndPos: 4, Prev: []*lattice.GraphNode{n1}}
	end := &lattice.GraphNode{StartPos: 4, EndPos: 4, Prev: []*lattice.GraphNode{n2}}
	g := &lattice.Graph{Nodes: []*lattice.GraphNode{n1, n2}, End: end}

	model := flatModel(-2)
	jamoSeq := []uint16{0x1100, 0x161, 0x1102, 0x161}
	out := Evaluate(g, jamoSeq, forms, morphs, model, DefaultOptions)

	if len(out) == 0 {
		t.Fatal("expected a surviving path through both nodes")
	}
	if out[0].Morph != 2 || out[0].Parent == nil || out[0].Parent.Morph != 1 {
		t.Fatalf("expected a two-hop chain NNG->JKS, got %+v", out[0])
	}
}

func TestEvaluateSkipsUnboundCombineSocket(t *testing.T) {
	forms := dict.NewFormStore([]dict.Form{
		{Jamo: []uint16{0x1100, 0x161}},
		{Jamo: []uint16{0x1102, 0x161}},
	})
	morphs := dict.NewMorphStore([]dict.Morpheme{
		{Tag: postag.Unknown},
		{Tag: postag.VV, FormID: 0, CombineSocket: 1, Combined: 3},
		{Tag: postag.EF, FormID: 1}, // no socket: must not bind to the pending left fragment
		{Tag: postag.VA, FormID: 0, LMMorphemeID: 99}, // the canonical combined form
		{Tag: postag.EF, FormID: 1, CombineSocket: 1}, // matches the pending socket
	})
	forms.At(0).Candidates = []dict.MorphID{1}
	forms.At(1).Candidates = []dict.MorphID{2, 4}

	n1 := &lattice.GraphNode{FormID: 0, StartPos: 0, EndPos: 2, Prev: []*lattice.GraphNode{lattice.Start}}
	n2 := &lattice.GraphNode{FormID: 1, StartPos: 2, EndPos: 4, Prev: []*lattice.GraphNode{n1}}
	g := &lattice.Graph{Nodes: []*lattice.GraphNode{n1, n2}, End: &lattice.GraphNode{Prev: []*lattice.GraphNode{n2}}}

	model := flatModel(-1)
	out := Evaluate(g, []uint16{0x1100, 0x161, 0x1102, 0x161}, forms, morphs, model, DefaultOptions)

	if len(out) == 0 {
		t.Fatal("expected the socket-matching candidate to survive")
	}
	for _, c := range out {
		if c.Morph == 2 {
			t.Fatal("candidate 2 (no socket) must not bind to a pending left fragment")
		}
		if c.Morph == 4 {
			t.Fatal("a bound cell must surface the combined morpheme (3), not the raw right-hand candidate (4)")
		}
		if c.Morph != 3 {
			t.Fatalf("expected the combined morpheme 3 to survive, got %d", c.Morph)
		}
		if !c.Bound {
			t.Fatal("expected the surviving cell to be marked Bound")
		}
		if c.SpanStart != 0 {
			t.Fatalf("expected SpanStart to be the left fragment's own start (0), got %d", c.SpanStart)
		}
	}
}
