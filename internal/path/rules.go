package path

import (
	"github.com/spaolacci/murmur3"

	"github.com/kiwi-go/kiwi/internal/dict"
	"github.com/kiwi-go/kiwi/internal/feature"
	"github.com/kiwi-go/kiwi/internal/jamo"
	"github.com/kiwi-go/kiwi/internal/postag"
)

// ruleAdjustment is the additive score delta and special-state update one
// application of the rule-based scorer produces for a (prev, curr) pair.
type ruleAdjustment struct {
	delta   float32
	special SpecialState
}

// applyRules evaluates every penalty/bonus rule against the transition
// from prevMorph (surfacing as prevForm) to curMorph (surfacing as
// curForm), starting from sp, and returns the accumulated delta plus the
// resulting special state.
func applyRules(prevMorph, curMorph *dict.Morpheme, prevForm, curForm []uint16, sp SpecialState) ruleAdjustment {
	delta := float32(0)
	next := sp

	if isVowelInitialEnding(curMorph, curForm) && isIrregularVerb(prevMorph) {
		delta -= 10
	}
	if curMorph.Tag == postag.JKS && isFirstPersonPronoun(prevForm) {
		delta -= 5
	}
	if endsInRieul(prevForm) && startsWithNgIeungSiotNieun(curForm) {
		delta -= 7
	}
	if isYangAInitialEnding(curForm) && !feature.IsPositive(prevForm) && postag.IsPredicate(prevMorph.Tag) {
		delta -= 100
	}
	if isEoInitialEnding(curForm) && feature.IsVowel(prevForm) && !hasContraction(prevForm, curForm) {
		delta -= 3
	}
	if (prevMorph.Tag == postag.VA || prevMorph.Tag == postag.XSA) && !adjectiveCompatibleEnding(curMorph) {
		delta -= 10
	}
	if d, ns := quoteAgreement(curMorph, curForm, next); d != 0 {
		delta += d
		next = ns
	}
	if isSentenceBoundary(curMorph) && matchesDotAfterSyllable(prevForm, curForm) {
		delta -= 5
	}
	if isSentenceBoundary(curMorph) && postag.IsEnding(prevMorph.Tag) && prevMorph.Tag != postag.EF {
		delta -= 10
	}
	if isSentenceBoundary(curMorph) {
		h := bulletHash(curForm)
		if next.BulletHash != 0 && next.BulletHash == h {
			delta += 3
		}
		next.BulletHash = h
	}

	return ruleAdjustment{delta: delta, special: next}
}

func isVowelInitialEnding(m *dict.Morpheme, form []uint16) bool {
	return postag.IsEnding(m.Tag) && len(form) > 0 && jamo.IsVowel(form[0])
}

func isIrregularVerb(m *dict.Morpheme) bool {
	return postag.IsPredicate(m.Tag) && (m.Complex || m.CombineSocket != 0)
}

func isFirstPersonPronoun(form []uint16) bool {
	s := string(utf16Runes(form))
	return s == "나" || s == "너" || s == "저"
}

func endsInRieul(form []uint16) bool {
	if len(form) == 0 {
		return false
	}
	const rieulCoda = 0x11A7 + 8
	return form[len(form)-1] == rieulCoda
}

func startsWithNgIeungSiotNieun(form []uint16) bool {
	if len(form) == 0 || !jamo.IsOnset(form[0]) {
		return false
	}
	const (
		onsetIeung = 0x1100 + 11
		onsetSiot  = 0x1100 + 9
		onsetNieun = 0x1100 + 2
	)
	switch form[0] {
	case onsetIeung, onsetSiot, onsetNieun:
		return true
	default:
		return false
	}
}

func isYangAInitialEnding(form []uint16) bool {
	return len(form) > 0 && form[0] == 0x1161 // vowel ㅏ
}

func isEoInitialEnding(form []uint16) bool {
	return len(form) > 0 && form[0] == 0x1161+4 // vowel ㅓ
}

func hasContraction(prevForm, curForm []uint16) bool {
	// A contracted transition leaves no vowel-initial ending to
	// re-attach: if curForm's first jamo isn't a bare vowel after all,
	// the lattice already fused it, so there is nothing to penalize.
	return len(curForm) == 0 || !jamo.IsVowel(curForm[0])
}

func adjectiveCompatibleEnding(m *dict.Morpheme) bool {
	switch m.Tag {
	case postag.EF, postag.EC, postag.ETN, postag.ETM, postag.EP:
		return true
	default:
		return false
	}
}

func quoteAgreement(m *dict.Morpheme, form []uint16, sp SpecialState) (float32, SpecialState) {
	if m.Tag != postag.SS {
		return 0, sp
	}
	next := sp
	isSingle := len(form) > 0 && (form[0] == '\'' || form[0] == '‘' || form[0] == '’')
	isDouble := len(form) > 0 && (form[0] == '"' || form[0] == '“' || form[0] == '”')

	delta := float32(0)
	switch {
	case isSingle:
		if next.SingleQuote == QuoteOpen {
			next.SingleQuote = QuoteClosed
		} else {
			next.SingleQuote = QuoteOpen
		}
	case isDouble:
		if next.DoubleQuote == QuoteOpen {
			next.DoubleQuote = QuoteClosed
		} else {
			next.DoubleQuote = QuoteOpen
		}
	default:
		delta -= 2
	}
	return delta, next
}

func isSentenceBoundary(m *dict.Morpheme) bool {
	return m.Tag == postag.SF || m.Tag == postag.EF
}

func matchesDotAfterSyllable(prevForm, curForm []uint16) bool {
	if len(curForm) == 0 || rune(curForm[0]) != '.' {
		return false
	}
	return len(prevForm) > 0
}

// bulletHash reduces a bullet-marker surface form (a numeral, a dash, a
// parenthesized letter, ...) to a 6-bit fingerprint carried in
// SpecialState.BulletHash: two sentence-final nodes with the same
// fingerprint look like the same enumerator style recurring, which is
// rewarded by applyRules above. A real hash (rather than the form's raw
// bytes) is used so unrelated forms collide rarely enough for the
// recurrence check to mean something.
func bulletHash(form []uint16) uint8 {
	b := make([]byte, 2*len(form))
	for i, u := range form {
		b[2*i] = byte(u)
		b[2*i+1] = byte(u >> 8)
	}
	return uint8(murmur3.Sum32(b) & 0x3F)
}

func utf16Runes(units []uint16) []rune {
	out := make([]rune, len(units))
	for i, u := range units {
		out[i] = rune(u)
	}
	return out
}
