// Package classifier turns the ordered action sequence of a single hand into
// per-hand boolean signals for one observed player. Each signal is computed
// by one or two passes over the relevant betting round, and every "made"
// signal implies its paired opportunity signal.
package classifier

import "github.com/MCNCHEESYF/pokerth-tracker/internal/model"

// Signals are the ephemeral per-hand classification results for one player.
// They are consumed immediately by the accumulator and never persisted.
type Signals struct {
	VPIP    bool
	PFR     bool
	SawFlop bool

	WentToShowdown bool
	WonShowdown    bool

	ThreeBetOpportunity bool
	ThreeBetMade        bool
	CBetOpportunity     bool
	CBetMade            bool

	FoldTo3BetOpportunity bool
	FoldTo3BetMade        bool
	FoldToCBetOpportunity bool
	FoldToCBetMade        bool
}

// Classify computes the signal set for the player at the given seat from one
// hand's actions. The round slices inside hand are already ordered by
// sequence id; that ordering is what the aggressor tie-breaks rely on.
func Classify(rules Ruleset, seat int, hand *model.HandActions) Signals {
	var sig Signals

	// ---- Preflop: VPIP and PFR, blinds excluded. ----
	for _, a := range hand.Preflop {
		if a.Seat != seat || rules.IsBlind(a.Verb) {
			continue
		}
		if rules.IsVPIP(a.Verb) {
			sig.VPIP = true
		}
		if rules.IsRaise(a.Verb) {
			sig.PFR = true
		}
	}

	sig.ThreeBetOpportunity, sig.ThreeBetMade = classifyThreeBet(rules, seat, hand.Preflop)

	if sig.PFR {
		sig.FoldTo3BetOpportunity, sig.FoldTo3BetMade = classifyFoldTo3Bet(rules, seat, hand.Preflop)
	}

	// ---- Flop ----
	for _, a := range hand.Flop {
		if a.Seat == seat {
			sig.SawFlop = true
			break
		}
	}

	// A c-bet opportunity only needs the preflop raise and any flop action
	// at all; it is not conditioned on still facing no prior flop
	// aggression. Accepted simplification.
	if sig.PFR && len(hand.Flop) > 0 {
		sig.CBetOpportunity = true
		for _, a := range hand.Flop {
			if a.Seat == seat && rules.IsRaise(a.Verb) {
				sig.CBetMade = true
				break
			}
		}
	}

	// Fold-to-c-bet and the showdown signals share the saw-flop denominator.
	if sig.SawFlop {
		sig.FoldToCBetOpportunity, sig.FoldToCBetMade = classifyFoldToCBet(rules, seat, hand.Preflop, hand.Flop)

		if hand.HasShowdown() {
			for _, a := range hand.Showdown {
				if a.Seat == seat {
					sig.WentToShowdown = true
					break
				}
			}
			if sig.WentToShowdown {
				if winner, ok := showdownWinner(rules, hand.Showdown); ok && winner == seat {
					sig.WonShowdown = true
				}
			}
		}
	}

	return sig
}

// classifyThreeBet scans the full preflop sequence. An opportunity exists
// when a different seat raised strictly before the player's first non-blind
// action; made is only checked inside that window so made implies
// opportunity.
func classifyThreeBet(rules Ruleset, seat int, preflop []model.ActionRecord) (opportunity, made bool) {
	raiseBefore := false
	acted := false
	for _, a := range preflop {
		if a.Seat == seat {
			if !rules.IsBlind(a.Verb) {
				acted = true
				break
			}
			continue
		}
		if rules.IsRaise(a.Verb) {
			raiseBefore = true
		}
	}
	if !raiseBefore || !acted {
		return false, false
	}
	opportunity = true
	for _, a := range preflop {
		if a.Seat != seat || rules.IsBlind(a.Verb) {
			continue
		}
		if rules.IsRaise(a.Verb) {
			made = true
			break
		}
	}
	return opportunity, made
}

// classifyFoldTo3Bet walks the preflop sequence tracking whether the player
// has raised; the first re-raise by a different seat after that opens the
// opportunity, and the player's next action decides made: fold or not.
// Multi-way re-raise wars are not modeled distinctly: one current aggressor
// per street.
func classifyFoldTo3Bet(rules Ruleset, seat int, preflop []model.ActionRecord) (opportunity, made bool) {
	playerRaised := false
	threeBetSeen := false
	for _, a := range preflop {
		if a.Seat == seat {
			if rules.IsBlind(a.Verb) {
				continue
			}
			if playerRaised && threeBetSeen {
				made = rules.IsFold(a.Verb)
				break
			}
			if rules.IsRaise(a.Verb) {
				playerRaised = true
			}
			continue
		}
		if playerRaised && rules.IsRaise(a.Verb) {
			threeBetSeen = true
			opportunity = true
		}
	}
	return opportunity, made
}

// classifyFoldToCBet finds the seat with preflop initiative (the last seat
// other than the player to raise preflop) and scans the flop: once that seat
// bets, the player's next flop action opens the opportunity, and a fold
// makes it.
func classifyFoldToCBet(rules Ruleset, seat int, preflop, flop []model.ActionRecord) (opportunity, made bool) {
	raiser := -1
	for _, a := range preflop {
		if a.Seat != seat && rules.IsRaise(a.Verb) {
			raiser = a.Seat
		}
	}
	if raiser < 0 {
		return false, false
	}
	cbetSeen := false
	for _, a := range flop {
		if a.Seat == raiser {
			if rules.IsRaise(a.Verb) {
				cbetSeen = true
			}
			continue
		}
		if a.Seat == seat && cbetSeen {
			opportunity = true
			made = rules.IsFold(a.Verb)
			break
		}
	}
	return opportunity, made
}

// showdownWinner returns the seat attached to the first win-labeled showdown
// action.
func showdownWinner(rules Ruleset, showdown []model.ActionRecord) (int, bool) {
	for _, a := range showdown {
		if rules.IsWin(a.Verb) {
			return a.Seat, true
		}
	}
	return 0, false
}
