// Package jamo normalizes raw Korean text into a jamo-level string: Hangul
// syllables are split into onset+vowel+(coda) jamo code points, everything
// else passes through unchanged. It also builds the position map used to
// translate analysis results back to the caller's original UTF-16 offsets.
//
// Grounded on a buffer-plus-parallel-index-table normalizer idiom (build
// a new string via table-driven substitution; here the substitution
// table is Unicode Hangul jamo arithmetic rather than a fixed replacer
// map).
package jamo

import (
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Hangul syllable block and jamo sub-block boundaries (Unicode).
const (
	syllableBase = 0xAC00
	syllableLast = 0xD7A3

	onsetBase = 0x1100
	vowelBase = 0x1161
	codaBase  = 0x11A7 // coda 0 means "no coda"; first real coda is codaBase+1

	onsetCount = 19
	vowelCount = 21
	codaCount  = 28
)

// Normalized is the result of Normalize: a jamo-level code-unit sequence
// plus a parallel map back to the original UTF-16 offsets.
type Normalized struct {
	// Jamo is the normalized string, one uint16 per jamo code point
	// (or per passed-through code unit for non-Hangul input).
	Jamo []uint16
	// PosMap[i] is the UTF-16 code-unit offset in the original input that
	// produced Jamo[i]. Used only at result-assembly time to report
	// surface positions and lengths back in the caller's coordinates.
	PosMap []int
}

// Normalize decomposes every Hangul syllable in text into its constituent
// jamo and records the position map back to s's original UTF-16 offsets.
// Non-Hangul code points are copied through verbatim.
func Normalize(s string) Normalized {
	// Some inputs (macOS filesystem paths, certain editors) arrive as
	// NFD, with a Hangul syllable already split into combining jamo
	// rather than a single precomposed code point. Composing to NFC
	// first means the syllable-block arithmetic below always sees one
	// rune per syllable.
	s = norm.NFC.String(s)
	units := utf16.Encode([]rune(s))
	out := make([]uint16, 0, len(units)+len(units)/2)
	posMap := make([]int, 0, cap(out))

	i := 0
	for i < len(units) {
		u := units[i]
		// A surrogate pair can never itself be Hangul (the syllable block
		// is entirely in the BMP), so pass both units through unchanged —
		// but advance past both together so PosMap stays one entry per
		// emitted jamo, each pointing at the pair's first code unit.
		if utf16.IsSurrogate(rune(u)) {
			if i+1 < len(units) && utf16.DecodeRune(rune(u), rune(units[i+1])) != 0xFFFD {
				out = append(out, u, units[i+1])
				posMap = append(posMap, i, i)
				i += 2
				continue
			}
			out = append(out, u)
			posMap = append(posMap, i)
			i++
			continue
		}

		if syl := rune(u); syl >= syllableBase && syl <= syllableLast {
			onset, vowel, coda := splitSyllable(syl)
			out = append(out, uint16(onsetBase+onset))
			posMap = append(posMap, i)
			out = append(out, uint16(vowelBase+vowel))
			posMap = append(posMap, i)
			if coda != 0 {
				out = append(out, uint16(codaBase+coda))
				posMap = append(posMap, i)
			}
			i++
			continue
		}

		out = append(out, u)
		posMap = append(posMap, i)
		i++
	}

	return Normalized{Jamo: out, PosMap: posMap}
}

// splitSyllable decomposes a Hangul syllable code point into its 0-based
// onset, vowel and coda indices's formula
// S = U+AC00 + (onset*21 + vowel)*28 + coda.
func splitSyllable(s rune) (onset, vowel, coda int) {
	idx := int(s) - syllableBase
	coda = idx % codaCount
	idx /= codaCount
	vowel = idx % vowelCount
	onset = idx / vowelCount
	return
}

// IsOnset, IsVowel and IsCoda classify a normalized jamo code unit.
func IsOnset(c uint16) bool { return c >= onsetBase && c < onsetBase+onsetCount }
func IsVowel(c uint16) bool { return c >= vowelBase && c < vowelBase+vowelCount }
func IsCoda(c uint16) bool  { return c > codaBase && c < codaBase+codaCount }

// JoinSyllable reassembles an onset/vowel/(coda) jamo triple (0-based
// indices, coda==0 meaning none) back into a single Hangul syllable code
// point. Used by the result assembler to re-surface jamo spans as display
// text and by coda-normalization to rebuild a syllable after merging a
// trailing coda into the next onset.
func JoinSyllable(onset, vowel, coda int) rune {
	return rune(syllableBase + (onset*vowelCount+vowel)*codaCount + coda)
}
