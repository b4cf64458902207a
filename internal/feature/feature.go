// Package feature implements the stateless jamo-level predicates the
// path evaluator and lattice builder use to filter morpheme candidates
// whose phonological condition on the preceding form is not met.
//
// Follows a phonology-predicate style common to vowel-harmony analyzers
// (conditions tested over rune slices); here the same shape of predicate
// is expressed over jamo code units instead of Latin-script runes.
package feature

import "github.com/kiwi-go/kiwi/internal/jamo"

// CondVowel is the vowel-condition enum on a Morpheme: the constraint a
// morpheme's preceding form must satisfy to be a legal match.
type CondVowel uint8

const (
	CondVowelNone CondVowel = iota
	CondVowelAny
	CondVowelVowel       // preceding form has no coda
	CondVowelVocalic     // no coda, or coda is ㄹ
	CondVowelVocalicH    // no coda, or coda is ㄹ/ㅎ
	CondVowelNonVowel    // negation of Vowel
	CondVowelNonVocalic  // negation of Vocalic
	CondVowelNonVocalicH // negation of VocalicH
)

// CondPolarity is the vowel-harmony polarity condition on a Morpheme.
type CondPolarity uint8

const (
	CondPolarityNone CondPolarity = iota
	CondPolarityPositive
	CondPolarityNegative
)

// rieulCoda and hieutCoda are the 0-based coda indices (relative to
// jamo.codaBase) for ㄹ and ㅎ, used by the Vocalic/VocalicH conditions.
const (
	rieulCoda = 8
	hieutCoda = 27
)

// positiveVowels are the 0-based vowel indices (relative to vowelBase) that
// count as "yang" (positive) vowel-harmony class: ㅏ, ㅗ, and the
// ㅑ/ㅘ/ㅚ-family diphthongs built on them.
var positiveVowels = map[int]bool{
	0:  true, // ㅏ
	2:  true, // ㅑ
	8:  true, // ㅗ
	9:  true, // ㅘ
	11: true, // ㅚ
}

// lastCoda returns the 0-based coda index of the last syllable in form (0
// meaning "no coda"), and whether form ends with a complete syllable at all:
// true when the last unit is a coda or a vowel (coda 0), false for an empty
// form or one whose last unit is an onset or not a jamo.
func lastCoda(form []uint16) (coda int, hasSyllable bool) {
	if len(form) == 0 {
		return 0, false
	}
	last := form[len(form)-1]
	if jamo.IsCoda(last) {
		return int(last) - 0x11A7, true
	}
	if jamo.IsVowel(last) {
		return 0, true
	}
	return 0, false
}

// lastVowel returns the 0-based vowel index of the last syllable in form,
// and whether one was found.
func lastVowel(form []uint16) (vowel int, ok bool) {
	for i := len(form) - 1; i >= 0; i-- {
		if jamo.IsVowel(form[i]) {
			return int(form[i]) - 0x1161, true
		}
		if jamo.IsOnset(form[i]) {
			return 0, false
		}
	}
	return 0, false
}

// endsInClosingPunct reports whether form's last jamo is a passthrough
// (non-jamo) code point in the closing-punctuation set. When the
// previous form ends in closing punctuation, vowel/polarity conditions
// are ignored outright.
func endsInClosingPunct(form []uint16) bool {
	if len(form) == 0 {
		return false
	}
	switch rune(form[len(form)-1]) {
	case ')', ']', '}', '"', '\'', '’', '”', '.', '!', '?':
		return true
	default:
		return false
	}
}

// IsVowel reports whether the preceding form ends with no coda (an open
// syllable), per CondVowelVowel.
func IsVowel(form []uint16) bool {
	coda, ok := lastCoda(form)
	return ok && coda == 0
}

// IsVocalic reports whether the preceding form ends with no coda or with ㄹ.
func IsVocalic(form []uint16) bool {
	coda, ok := lastCoda(form)
	return ok && (coda == 0 || coda == rieulCoda)
}

// IsVocalicH reports whether the preceding form ends with no coda, ㄹ, or ㅎ.
func IsVocalicH(form []uint16) bool {
	coda, ok := lastCoda(form)
	return ok && (coda == 0 || coda == rieulCoda || coda == hieutCoda)
}

// IsPositive reports whether the preceding form's last vowel is in the
// yang (positive) vowel-harmony class, used by the "아-initial ending"
// rule in the path evaluator's rule-based scorer.
func IsPositive(form []uint16) bool {
	vowel, ok := lastVowel(form)
	return ok && positiveVowels[vowel]
}

// IsMatched reports whether the candidate's vowel/polarity conditions are
// satisfied given the preceding form prevForm: closing
// punctuation at the end of prevForm waives both conditions outright.
func IsMatched(prevForm []uint16, vowel CondVowel, polar CondPolarity) bool {
	if endsInClosingPunct(prevForm) {
		return true
	}
	if !matchVowel(prevForm, vowel) {
		return false
	}
	return matchPolarity(prevForm, polar)
}

func matchVowel(form []uint16, cond CondVowel) bool {
	switch cond {
	case CondVowelNone, CondVowelAny:
		return true
	case CondVowelVowel:
		return IsVowel(form)
	case CondVowelVocalic:
		return IsVocalic(form)
	case CondVowelVocalicH:
		return IsVocalicH(form)
	case CondVowelNonVowel:
		return !IsVowel(form)
	case CondVowelNonVocalic:
		return !IsVocalic(form)
	case CondVowelNonVocalicH:
		return !IsVocalicH(form)
	default:
		return true
	}
}

func matchPolarity(form []uint16, cond CondPolarity) bool {
	switch cond {
	case CondPolarityNone:
		return true
	case CondPolarityPositive:
		return IsPositive(form)
	case CondPolarityNegative:
		return !IsPositive(form)
	default:
		return true
	}
}
