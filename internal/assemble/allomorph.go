package assemble

import "github.com/kiwi-go/kiwi/internal/postag"

// allomorphGroups maps each tag-conditioned allomorph spelling to its
// canonical form (어/아/여 -> 어, the EC/EP family that alternates on the
// preceding vowel's harmony class or the 하다 irregular).
var allomorphGroups = map[string]string{
	"아": "어",
	"여": "어",
	"았": "었",
	"였": "었",
}

// canonicalizeAllomorphs rewrites each EC/EP-tagged token's surface form
// to its canonical spelling in place, when integrateAllomorph is
// requested: analyzed results then depend only on the lm-morpheme-id
// projection, since 어 and 아 tokens become indistinguishable by surface
// form.
func canonicalizeAllomorphs(tokens []TokenInfo) {
	for i, t := range tokens {
		if !postag.IsEnding(t.Tag) {
			continue
		}
		if canon, ok := allomorphGroups[t.Form]; ok {
			tokens[i].Form = canon
		}
	}
}
