package classifier

import "strings"

// Ruleset is the immutable verb configuration the classifier matches action
// labels against. PokerTH writes free-text labels ("Seat 3 bets 120", "posts
// small blind"), so matching is case-insensitive substring containment.
// Passing the set in, rather than hard-coding it, leaves room for rule
// variants of other game modes.
type Ruleset struct {
	// VPIPVerbs count as voluntarily putting money in preflop.
	VPIPVerbs []string
	// RaiseVerbs count as a bet or raise. Preflop, a "bets" already raises
	// over the big blind, so the same set detects preflop raises.
	RaiseVerbs []string
	// PassiveVerbs count toward the passive side of the aggression factor.
	PassiveVerbs []string
	// FoldVerbs mark a fold.
	FoldVerbs []string
	// BlindMarker excludes forced blind posts from voluntary actions.
	BlindMarker string
	// WinMarker tags the showdown action naming the winner.
	WinMarker string
}

// DefaultRules returns the verb sets of standard PokerTH session logs.
func DefaultRules() Ruleset {
	return Ruleset{
		VPIPVerbs:    []string{"calls", "bets", "is all in with"},
		RaiseVerbs:   []string{"bets", "is all in with"},
		PassiveVerbs: []string{"calls"},
		FoldVerbs:    []string{"folds"},
		BlindMarker:  "blind",
		WinMarker:    "wins",
	}
}

// IsBlind reports whether the verb is a forced blind post.
func (r Ruleset) IsBlind(verb string) bool {
	return strings.Contains(strings.ToLower(verb), r.BlindMarker)
}

// IsRaise reports whether the verb is a bet or raise.
func (r Ruleset) IsRaise(verb string) bool { return matchesAny(verb, r.RaiseVerbs) }

// IsVPIP reports whether the verb voluntarily puts money in the pot.
func (r Ruleset) IsVPIP(verb string) bool { return matchesAny(verb, r.VPIPVerbs) }

// IsPassive reports whether the verb is a call.
func (r Ruleset) IsPassive(verb string) bool { return matchesAny(verb, r.PassiveVerbs) }

// IsFold reports whether the verb is a fold.
func (r Ruleset) IsFold(verb string) bool { return matchesAny(verb, r.FoldVerbs) }

// IsWin reports whether the verb names a showdown winner.
func (r Ruleset) IsWin(verb string) bool {
	return strings.Contains(strings.ToLower(verb), r.WinMarker)
}

func matchesAny(verb string, set []string) bool {
	v := strings.ToLower(verb)
	for _, s := range set {
		if strings.Contains(v, s) {
			return true
		}
	}
	return false
}
