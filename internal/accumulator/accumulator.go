// Package accumulator folds per-hand classifier signals across every hand of
// a session log into running per-player counter records.
package accumulator

import (
	"github.com/MCNCHEESYF/pokerth-tracker/internal/classifier"
	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
)

// Accumulate computes the full counter record of every player that appears
// in the session log. It is a pure, stateless computation: two passes per
// player, one over their hands for the classifier signals and one over their
// individual actions for the aggression counters.
func Accumulate(log *model.SessionLog, rules classifier.Ruleset) map[string]*model.PlayerStats {
	out := make(map[string]*model.PlayerStats, len(log.Seats))
	for name := range log.Seats {
		out[name] = AccumulatePlayer(log, rules, name)
	}
	return out
}

// AccumulatePlayer computes one player's counter record for the session log.
// A hand counts as played when at least one action in it is attributed to
// the player's seat, blind posts included.
func AccumulatePlayer(log *model.SessionLog, rules classifier.Ruleset, name string) *model.PlayerStats {
	stats := &model.PlayerStats{Name: name}

	for key, hand := range log.Hands {
		seat, ok := log.SeatOf(name, key.GameID)
		if !ok {
			continue
		}
		if !participated(hand, seat) {
			continue
		}
		stats.TotalHands++

		sig := classifier.Classify(rules, seat, hand)
		applySignals(&stats.Counters, sig)

		// Aggression counters run over the player's own actions on every
		// street except showdown, independent of any hand-level signal.
		for _, street := range hand.NonShowdown() {
			for _, a := range street {
				if a.Seat != seat {
					continue
				}
				if rules.IsRaise(a.Verb) {
					stats.TotalBets++
				}
				if rules.IsPassive(a.Verb) {
					stats.TotalCalls++
				}
			}
		}
	}

	return stats
}

func participated(hand *model.HandActions, seat int) bool {
	for _, street := range [][]model.ActionRecord{
		hand.Preflop, hand.Flop, hand.Turn, hand.River, hand.Showdown,
	} {
		for _, a := range street {
			if a.Seat == seat {
				return true
			}
		}
	}
	return false
}

func applySignals(c *model.Counters, sig classifier.Signals) {
	if sig.VPIP {
		c.VPIPHands++
	}
	if sig.PFR {
		c.PFRHands++
	}
	if sig.SawFlop {
		c.HandsSawFlop++
	}
	if sig.WentToShowdown {
		c.HandsWentToShowdown++
	}
	if sig.WonShowdown {
		c.ShowdownsWon++
	}
	if sig.ThreeBetOpportunity {
		c.ThreeBetOpportunities++
		if sig.ThreeBetMade {
			c.ThreeBetMade++
		}
	}
	if sig.CBetOpportunity {
		c.CBetOpportunities++
		if sig.CBetMade {
			c.CBetMade++
		}
	}
	if sig.FoldTo3BetOpportunity {
		c.FoldTo3BetOpportunities++
		if sig.FoldTo3BetMade {
			c.FoldTo3BetMade++
		}
	}
	if sig.FoldToCBetOpportunity {
		c.FoldToCBetOpportunities++
		if sig.FoldToCBetMade {
			c.FoldToCBetMade++
		}
	}
}
