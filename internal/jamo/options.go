package jamo

// NormalizeCoda is the optional coda-normalization pass. It drops a coda
// that is directly followed by a bare vowel jamo (one with no onset of its
// own, which Normalize emits only when the input itself carries a stray
// conjoining vowel). A coda followed by an onset is kept as it is: the pass
// does not merge a coda with the next syllable's onset. It operates
// on a Normalize result's Jamo/PosMap pair and returns a new pair of the
// same invariant shape (len(Jamo) == len(PosMap)).
func NormalizeCoda(n Normalized) Normalized {
	jamo := n.Jamo
	posMap := n.PosMap
	out := make([]uint16, 0, len(jamo))
	outPos := make([]int, 0, len(posMap))

	for i := 0; i < len(jamo); i++ {
		c := jamo[i]
		// A coda directly followed by a bare vowel (no onset consonant
		// emitted for it — only possible when the vowel came from a
		// second, unattached syllable block) resyllabifies onto that
		// vowel: drop the coda here. Nothing re-inserts it as the
		// following syllable's onset.
		if IsCoda(c) && i+1 < len(jamo) && IsVowel(jamo[i+1]) {
			continue
		}
		out = append(out, c)
		outPos = append(outPos, posMap[i])
	}
	return Normalized{Jamo: out, PosMap: outPos}
}

// zCodaOnsets are single consonants that, appearing alone with no
// following vowel, are treated as emotive "zombie coda" appendages (e.g.
// trailing ㅋ, ㅎ runs) rather than part of the preceding syllable's
// morphology: the conjoining onsets ㅋ/ㅎ and the compatibility-jamo
// letters ㅋ/ㅎ that such runs are typed with. Detection only marks
// candidate positions; internal/lattice decides whether to actually
// synthesize a z_coda shortcut node.
var zCodaOnsets = map[uint16]bool{
	onsetBase + 15: true, // ㅋ
	onsetBase + 18: true, // ㅎ
	0x314B:         true, // compatibility ㅋ
	0x314E:         true, // compatibility ㅎ
}

// IsZCodaCandidate reports whether the jamo at index i in seq looks like a
// stray emotive appendage: a consonant from the zCodaOnsets set with no
// vowel directly after it. Whether it sits at the end of the sequence, or
// repeats, is not checked.
func IsZCodaCandidate(seq []uint16, i int) bool {
	if i < 0 || i >= len(seq) {
		return false
	}
	c := seq[i]
	if !zCodaOnsets[c] {
		return false
	}
	if i+1 < len(seq) && IsVowel(seq[i+1]) {
		return false
	}
	return true
}
