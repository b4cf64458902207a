package lm

import (
	"testing"

	"github.com/kiwi-go/kiwi/internal/postag"
)

// buildTrigramModel builds a tiny unigram/bigram model by hand:
// root -(1)-> nodeA (ll=-1.0, gamma=0.1)
//
//	nodeA -(2)-> nodeB (ll=-0.5)
func buildTrigramModel() *Model {
	nodes := []node{
		{numNexts: 1, lower: 0, nextOffset: 0, ll: -5.0, gamma: 0.2}, // root
		{numNexts: 1, lower: 0, nextOffset: 1, ll: -1.0, gamma: 0.1}, // nodeA
		{numNexts: 0, lower: 0, nextOffset: 2, ll: -0.5},             // nodeB
	}
	nextKeys := []uint32{1, 2}
	nextDiffs := []int32{1, 1} // root->nodeA (+1), nodeA->nodeB (+1)
	var fallback [postag.Count]uint32
	return New(nodes, nextKeys, nextDiffs, 0, fallback)
}

func TestProgressDirectHit(t *testing.T) {
	m := buildTrigramModel()
	s1, ll := m.Progress(m.InitialState(), 1)
	if s1 != 1 {
		t.Errorf("state = %d, want 1", s1)
	}
	if ll != -1.0 {
		t.Errorf("ll = %v, want -1.0", ll)
	}
}

func TestProgressBacksOffOnMiss(t *testing.T) {
	m := buildTrigramModel()
	s1, _ := m.Progress(m.InitialState(), 1)
	s2, ll := m.Progress(s1, 99) // no child keyed 99 under nodeA; falls back to root
	if s2 != RootState {
		t.Errorf("state after miss = %d, want RootState", s2)
	}
	want := float32(0.1) + float32(-5.0) // nodeA.gamma + root.ll (no further transition)
	if ll != want {
		t.Errorf("ll = %v, want %v", ll, want)
	}
}

func TestProgressIsPure(t *testing.T) {
	m := buildTrigramModel()
	s := m.InitialState()
	s1a, ll1a := m.Progress(s, 1)
	s1b, ll1b := m.Progress(s, 1)
	if s1a != s1b || ll1a != ll1b {
		t.Error("Progress is not pure: repeated call with identical inputs diverged")
	}
}

func TestVocabIDFallsBackByTag(t *testing.T) {
	var fallback [postag.Count]uint32
	fallback[postag.NNG] = 42
	m := New(nil, nil, nil, 7, fallback)

	if got := m.VocabID(5, postag.NNG, false); got != 42 {
		t.Errorf("VocabID fallback = %d, want 42", got)
	}
	if got := m.VocabID(5, postag.VV, false); got != 7 {
		t.Errorf("VocabID unk fallback = %d, want 7 (unkID)", got)
	}
	if got := m.VocabID(5, postag.NNG, true); got != 5 {
		t.Errorf("VocabID in-vocab passthrough = %d, want 5", got)
	}
}
