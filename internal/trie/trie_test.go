package trie

import (
	"testing"

	"github.com/kiwi-go/kiwi/internal/dict"
)

func buildSample() *Trie {
	b := NewBuilder()
	b.Insert([]uint16{1, 2, 3}, dict.FormID(10)) // "abc"
	b.Insert([]uint16{2, 3}, dict.FormID(20))    // "bc"
	b.Insert([]uint16{3}, dict.FormID(30))       // "c"
	return b.Freeze()
}

func TestStepFindsAllSuffixMatches(t *testing.T) {
	tr := buildSample()

	cur := Root
	var matches []Match
	for _, key := range []uint16{1, 2, 3} {
		cur = tr.Step(cur, key)
		matches = tr.CollectMatches(cur, matches)
	}
	// scanning "abc" should surface matches for "abc" (10, len 3), "bc"
	// (20, len 2) and "c" (30, len 1), all ending at the final position,
	// via the fail-link chain.
	want := map[dict.FormID]int32{10: 3, 20: 2, 30: 1}
	if len(matches) != len(want) {
		t.Fatalf("matches = %v, want 3 distinct forms", matches)
	}
	for _, m := range matches {
		if wantLen, ok := want[m.Form]; !ok || wantLen != m.Length {
			t.Errorf("unexpected match %+v", m)
		}
	}
}

func TestStepNoMatchReturnsRoot(t *testing.T) {
	tr := buildSample()
	cur := tr.Step(Root, 99)
	if cur != Root {
		t.Errorf("Step(Root, 99) = %d, want Root", cur)
	}
}

func TestNextScalarAndSWARAgree(t *testing.T) {
	b := NewBuilder()
	// Wide fan-out at the root so nextSWAR exercises its packed path.
	for key := uint16(0); key < 20; key++ {
		b.Insert([]uint16{key}, dict.FormID(key))
	}
	tr := b.Freeze()

	for key := uint16(0); key < 25; key++ {
		scalarNext, scalarOK := nextScalar(tr, Root, key)
		swarNext, swarOK := nextSWAR(tr, Root, key)
		if scalarOK != swarOK || scalarNext != swarNext {
			t.Errorf("key %d: scalar=(%d,%v) swar=(%d,%v)", key, scalarNext, scalarOK, swarNext, swarOK)
		}
	}
}

func TestHasDescendantMatchFlagsPrefixOnlyNodes(t *testing.T) {
	b := NewBuilder()
	b.Insert([]uint16{1, 2}, dict.FormID(1))
	tr := b.Freeze()

	first, ok := tr.Next(Root, 1)
	if !ok {
		t.Fatal("expected a transition on key 1 from root")
	}
	if tr.Payload(first) != PayloadHasSubmatch {
		t.Errorf("Payload(first) = %v, want PayloadHasSubmatch", tr.Payload(first))
	}
}
