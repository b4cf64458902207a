package assemble

import "github.com/kiwi-go/kiwi/internal/postag"

// mergeAffixes folds affix tokens into their hosts step
// 5: XPN+N -> N, N+XSN -> N, N+XSV -> V, N+XSA -> VA, N+Z_SIOT+N -> N.
// The first four merges are each gated by their own option bit; the
// N+Z_SIOT+N merge always applies.
func mergeAffixes(tokens []TokenInfo, opts Options) []TokenInfo {
	if len(tokens) == 0 {
		return tokens
	}
	out := make([]TokenInfo, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		if opts.JoinNounPrefix && isNoun(t.Tag) && i > 0 && out[len(out)-1].Tag == postag.XPN {
			prev := out[len(out)-1]
			out[len(out)-1] = mergeSurface(prev, t, postag.NNG)
			continue
		}
		if i+2 < len(tokens) && isNoun(t.Tag) && tokens[i+1].Tag == postag.ZSIOT && isNoun(tokens[i+2].Tag) {
			merged := mergeSurface(t, tokens[i+1], postag.NNG)
			merged = mergeSurface(merged, tokens[i+2], postag.NNG)
			out = append(out, merged)
			i += 2
			continue
		}
		if len(out) > 0 && isNoun(out[len(out)-1].Tag) {
			host := out[len(out)-1]
			switch {
			case opts.JoinNounSuffix && t.Tag == postag.XSN:
				out[len(out)-1] = mergeSurface(host, t, postag.NNG)
				continue
			case opts.JoinVerbSuffix && t.Tag == postag.XSV:
				out[len(out)-1] = mergeSurface(host, t, postag.VV)
				continue
			case opts.JoinAdjSuffix && t.Tag == postag.XSA:
				out[len(out)-1] = mergeSurface(host, t, postag.VA)
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func isNoun(t postag.Tag) bool {
	switch t {
	case postag.NNG, postag.NNP, postag.NNB:
		return true
	default:
		return false
	}
}

// mergeSurface concatenates b's surface onto a, widens the span to
// cover both, and relabels the result with tag.
func mergeSurface(a, b TokenInfo, tag postag.Tag) TokenInfo {
	a.Form += b.Form
	a.Length = b.Position + b.Length - a.Position
	a.Tag = tag
	a.WordScore += b.WordScore
	a.TypoCost += b.TypoCost
	return a
}
