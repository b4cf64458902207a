package kiwi

import (
	"fmt"

	"github.com/kiwi-go/kiwi/internal/kerr"
)

// Match is the bitmask of optional pattern matchers and normalization
// passes, passed to Analyze/SplitIntoSents.
type Match uint32

const (
	MatchURL Match = 1 << iota
	MatchEmail
	MatchHashtag
	MatchMention
	MatchSerial
	MatchEmoji
	MatchNormalizeCoda
	MatchJoinNounPrefix
	MatchJoinNounSuffix
	MatchJoinVerbSuffix
	MatchJoinAdjSuffix
	MatchZCoda
	MatchSplitSaisiot
	MatchMergeSaisiot
)

// MatchAllWithNormalizing is the default Match value: every pattern
// matcher plus coda normalization.
const MatchAllWithNormalizing = MatchURL | MatchEmail | MatchHashtag | MatchMention |
	MatchSerial | MatchEmoji | MatchNormalizeCoda | MatchZCoda

// BuildOption is the bitmask New takes to control model construction.
type BuildOption uint32

const (
	BuildIntegrateAllomorph BuildOption = 1 << iota
	BuildLoadDefaultDict
	BuildLoadMultiDict
)

// DefaultBuildOptions is the default: allomorph integration on, the
// bundled default dictionary loaded.
const DefaultBuildOptions = BuildIntegrateAllomorph | BuildLoadDefaultDict

func (opt Match) has(bit Match) bool { return opt&bit != 0 }

func (opt BuildOption) has(bit BuildOption) bool { return opt&bit != 0 }

// ParseMatch validates a Match bitmask before it's handed to Analyze,
// rejecting bit combinations that request contradictory behavior instead
// of leaving Analyze to silently pick one. splitSaisiot and mergeSaisiot
// requested together is the only such combination.
func ParseMatch(opt Match) (Match, error) {
	if opt.has(MatchSplitSaisiot) && opt.has(MatchMergeSaisiot) {
		return 0, kerr.New(kerr.InvalidOption, "parse Match bits",
			fmt.Errorf("MatchSplitSaisiot and MatchMergeSaisiot are mutually exclusive"))
	}
	return opt, nil
}
