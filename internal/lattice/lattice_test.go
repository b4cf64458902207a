package lattice

import (
	"testing"

	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/jamo"
	"github.com/kiwi-go/kiwi/internal/postag"
	"github.com/kiwi-go/kiwi/internal/trie"
)

func buildTestTrie(t *testing.T, entries map[string]dict.FormID) (*trie.Trie, *dict.FormStore) {
	t.Helper()
	b := trie.NewBuilder()
	maxID := dict.FormID(0)
	for text, id := range entries {
		n := jamo.Normalize(text)
		b.Insert(n.Jamo, id)
		if id > maxID {
			maxID = id
		}
	}
	forms := make([]dict.Form, maxID+1)
	for text, id := range entries {
		forms[id] = dict.Form{
			Jamo:       jamo.Normalize(text).Jamo,
			Candidates: []dict.MorphID{1},
		}
	}
	return b.Freeze(), dict.NewFormStore(forms)
}

func TestBuildMatchesDictionaryForm(t *testing.T) {
	tr, forms := buildTestTrie(t, map[string]dict.FormID{"안녕": 5})
	g := Build(jamo.Normalize("안녕").Jamo, forms, tr, DefaultOptions)

	found := false
	for _, n := range g.Nodes {
		if !n.Unknown && n.FormID == 5 {
			found = true
			if n.StartPos != 0 {
				t.Errorf("StartPos = %d, want 0", n.StartPos)
			}
		}
	}
	if !found {
		t.Error("expected a node matching form 5 (안녕)")
	}
}

func TestBuildSynthesizesUnknownForUncoveredHangul(t *testing.T) {
	tr, forms := buildTestTrie(t, map[string]dict.FormID{"가": 1})
	g := Build(jamo.Normalize("깡").Jamo, forms, tr, DefaultOptions)

	if len(g.Nodes) == 0 {
		t.Fatal("expected at least one synthesized unknown node")
	}
	for _, n := range g.Nodes {
		if !n.Unknown {
			t.Errorf("expected only unknown nodes for uncovered input, got dictionary match FormID=%d", n.FormID)
		}
	}
}

func TestBuildCoalescesDigitRun(t *testing.T) {
	tr, forms := buildTestTrie(t, map[string]dict.FormID{})
	g := Build(jamo.Normalize("123").Jamo, forms, tr, DefaultOptions)

	if len(g.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1 (single coalesced digit run)", len(g.Nodes))
	}
	if g.Nodes[0].FormID != dict.SentinelFormID(postag.SN) {
		t.Errorf("FormID = %d, want SN sentinel", g.Nodes[0].FormID)
	}
	if g.Nodes[0].StartPos != 0 || g.Nodes[0].EndPos != 3 {
		t.Errorf("span = [%d,%d), want [0,3)", g.Nodes[0].StartPos, g.Nodes[0].EndPos)
	}
}

func TestBuildEndReachableFromEveryNode(t *testing.T) {
	tr, forms := buildTestTrie(t, map[string]dict.FormID{"안": 1, "녕": 2})
	g := Build(jamo.Normalize("안녕").Jamo, forms, tr, DefaultOptions)

	reachesEnd := make(map[*GraphNode]bool)
	for _, p := range g.End.Prev {
		reachesEnd[p] = true
	}
	for _, n := range g.Nodes {
		if n.EndPos == len(jamo.Normalize("안녕").Jamo) && !reachesEnd[n] {
			t.Errorf("node ending at the final position is not linked from End: %+v", n)
		}
	}
}
