package jamo

import "testing"

func TestSplitSyllable(t *testing.T) {
	tests := []struct {
		name              string
		r                 rune
		onset, vowel, coda int
	}{
		{"ga no coda", '가', 0, 0, 0},
		{"gan with coda", '간', 0, 0, 4},
		{"han", '한', 18, 0, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			onset, vowel, coda := splitSyllable(tc.r)
			if onset != tc.onset || vowel != tc.vowel || coda != tc.coda {
				t.Errorf("splitSyllable(%q) = (%d,%d,%d), want (%d,%d,%d)",
					tc.r, onset, vowel, coda, tc.onset, tc.vowel, tc.coda)
			}
		})
	}
}

func TestNormalizeRoundTripsPositions(t *testing.T) {
	text := "안녕"
	got := Normalize(text)

	// 안 -> onset+vowel+coda (3 jamo), 녕 -> onset+vowel+coda (3 jamo)
	if len(got.Jamo) != 6 {
		t.Fatalf("len(Jamo) = %d, want 6", len(got.Jamo))
	}
	if len(got.Jamo) != len(got.PosMap) {
		t.Fatalf("len(Jamo)=%d != len(PosMap)=%d", len(got.Jamo), len(got.PosMap))
	}
	// First three jamo all map back to the first syllable (UTF-16 offset 0).
	for i := 0; i < 3; i++ {
		if got.PosMap[i] != 0 {
			t.Errorf("PosMap[%d] = %d, want 0", i, got.PosMap[i])
		}
	}
	// Next three map back to the second syllable (UTF-16 offset 1).
	for i := 3; i < 6; i++ {
		if got.PosMap[i] != 1 {
			t.Errorf("PosMap[%d] = %d, want 1", i, got.PosMap[i])
		}
	}
}

func TestNormalizePassesThroughNonHangul(t *testing.T) {
	got := Normalize("ab1")
	if len(got.Jamo) != 3 {
		t.Fatalf("len(Jamo) = %d, want 3", len(got.Jamo))
	}
	for i, want := range []uint16{'a', 'b', '1'} {
		if got.Jamo[i] != want {
			t.Errorf("Jamo[%d] = %c, want %c", i, got.Jamo[i], want)
		}
	}
}

func TestJoinSyllableInverse(t *testing.T) {
	for _, r := range []rune{'가', '간', '한', '힣'} {
		onset, vowel, coda := splitSyllable(r)
		if got := JoinSyllable(onset, vowel, coda); got != r {
			t.Errorf("JoinSyllable(splitSyllable(%q)) = %q, want %q", r, got, r)
		}
	}
}

func TestIsZCodaCandidate(t *testing.T) {
	n := Normalize("키읔ㅋㅋㅋ")
	// The trailing standalone ㅋ jamo (onset with no following vowel)
	// should be flagged as z-coda candidates.
	found := false
	for i := range n.Jamo {
		if IsZCodaCandidate(n.Jamo, i) {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one z-coda candidate in trailing ㅋㅋㅋ run")
	}
}
