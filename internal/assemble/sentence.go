package assemble

import "github.com/kiwi-go/kiwi/internal/postag"

// assignSentencePositions walks tokens once, assigning SentPosition in
// place: a SentenceParser state machine (step 7) that
// increments on a sentence boundary (SF, or EF optionally followed by a
// 요 auxiliary particle or a z_coda tag) once it is followed by
// non-continuing material, while tracking open quote/bracket depth so a
// boundary inside an unclosed quote does not split the sentence.
func assignSentencePositions(tokens []TokenInfo) {
	sentPos := 0
	quoteDepth := 0
	pendingBoundary := false
	straightOpen := map[string]bool{}

	for i := range tokens {
		t := &tokens[i]

		if pendingBoundary && quoteDepth == 0 && !isContinuingAfterBoundary(*t) {
			sentPos++
			pendingBoundary = false
		}
		t.SentPosition = sentPos

		if t.Form == "\"" || t.Form == "'" {
			// A straight quote closes the one of its kind left open, and
			// opens a new one otherwise.
			if straightOpen[t.Form] {
				if quoteDepth > 0 {
					quoteDepth--
				}
			} else {
				quoteDepth++
			}
			straightOpen[t.Form] = !straightOpen[t.Form]
		} else if isOpeningQuote(t.Form) {
			quoteDepth++
		} else if isClosingQuote(t.Form) {
			if quoteDepth > 0 {
				quoteDepth--
			}
		}

		if isSentenceBoundaryTag(t.Tag) {
			pendingBoundary = true
		}
	}
}

func isSentenceBoundaryTag(tag postag.Tag) bool {
	return tag == postag.SF || tag == postag.EF || tag == postag.ZCODA
}

// isContinuingAfterBoundary reports whether t continues the same
// sentence despite following a boundary tag: the 요 politeness particle
// directly trailing an EF, or another boundary tag chaining onto the
// first (e.g. EF immediately followed by the sentence-final "." / SF).
func isContinuingAfterBoundary(t TokenInfo) bool {
	return (t.Tag == postag.JX && t.Form == "요") || isSentenceBoundaryTag(t.Tag)
}

func isOpeningQuote(form string) bool {
	switch form {
	case "\"", "“", "'", "‘", "(", "[", "{":
		return true
	default:
		return false
	}
}

func isClosingQuote(form string) bool {
	switch form {
	case "”", "’", ")", "]", "}":
		return true
	default:
		return false
	}
}
