package feature

import "testing"

func jamoOf(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = append(out, uint16(r))
	}
	return out
}

func TestIsVowelOpenSyllable(t *testing.T) {
	openForm := jamoOf(string(rune(0x1100)) + string(rune(0x1161))) // 가: onset + vowel, no coda
	if !IsVowel(openForm) {
		t.Error("expected open syllable to satisfy CondVowelVowel")
	}
	closedForm := jamoOf(string(rune(0x1100)) + string(rune(0x1161)) + string(rune(0x11A8))) // 각
	if IsVowel(closedForm) {
		t.Error("expected closed syllable to fail CondVowelVowel")
	}
}

func TestIsMatchedWaivesOnClosingPunct(t *testing.T) {
	form := jamoOf("word)")
	if !IsMatched(form, CondVowelVowel, CondPolarityPositive) {
		t.Error("closing punctuation should waive vowel/polarity conditions")
	}
}

func TestIsMatchedEmptyFormAnyCondition(t *testing.T) {
	if !IsMatched(nil, CondVowelAny, CondPolarityNone) {
		t.Error("CondVowelAny/CondPolarityNone should always match")
	}
}
