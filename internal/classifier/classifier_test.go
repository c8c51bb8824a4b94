package classifier

import (
	"testing"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
)

// act is a compact test action; sequence ids are assigned in declaration
// order, which is the ordering contract Classify relies on.
type act struct {
	seat  int
	round model.BettingRound
	verb  string
}

func makeHand(actions ...act) *model.HandActions {
	h := &model.HandActions{}
	for i, a := range actions {
		h.Append(model.ActionRecord{
			ActionID: int64(i + 1),
			GameID:   1,
			HandID:   1,
			Round:    a.round,
			Seat:     a.seat,
			Verb:     a.verb,
		})
	}
	return h
}

// ---- VPIP / PFR ----

func TestBlindPostsAreNotVoluntary(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "posts small blind"},
		act{1, model.RoundPreflop, "posts big blind"},
		act{0, model.RoundPreflop, "folds"},
	)
	for seat := 0; seat <= 1; seat++ {
		sig := Classify(DefaultRules(), seat, hand)
		if sig.VPIP {
			t.Errorf("seat %d: blind post counted as VPIP", seat)
		}
		if sig.PFR {
			t.Errorf("seat %d: blind post counted as PFR", seat)
		}
	}
}

func TestPreflopBetCountsAsRaise(t *testing.T) {
	hand := makeHand(
		act{1, model.RoundPreflop, "posts big blind"},
		act{0, model.RoundPreflop, "bets 120"},
	)
	sig := Classify(DefaultRules(), 0, hand)
	if !sig.VPIP {
		t.Error("preflop bet should count as VPIP")
	}
	if !sig.PFR {
		t.Error("preflop bet raises over the big blind, should count as PFR")
	}
}

func TestCallIsVPIPButNotPFR(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "calls 120"},
	)
	sig := Classify(DefaultRules(), 1, hand)
	if !sig.VPIP {
		t.Error("call should count as VPIP")
	}
	if sig.PFR {
		t.Error("call should not count as PFR")
	}
}

func TestVerbMatchingIsCaseInsensitive(t *testing.T) {
	hand := makeHand(act{0, model.RoundPreflop, "BETS 300"})
	sig := Classify(DefaultRules(), 0, hand)
	if !sig.VPIP || !sig.PFR {
		t.Error("uppercase verb should still match")
	}
}

func TestAllInCountsAsRaise(t *testing.T) {
	hand := makeHand(act{0, model.RoundPreflop, "is all in with 2000"})
	sig := Classify(DefaultRules(), 0, hand)
	if !sig.VPIP || !sig.PFR {
		t.Error("all-in should count as VPIP and PFR")
	}
}

// ---- Continuation bet flow ----

// One raiser, one caller, raiser bets the flop, caller folds. This is the
// canonical c-bet hand and exercises both sides of it.
func TestContinuationBetFlow(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "calls 120"},
		act{0, model.RoundFlop, "bets 200"},
		act{1, model.RoundFlop, "folds"},
	)
	rules := DefaultRules()

	raiser := Classify(rules, 0, hand)
	if !raiser.PFR || !raiser.SawFlop {
		t.Fatalf("raiser signals wrong: %+v", raiser)
	}
	if !raiser.CBetOpportunity || !raiser.CBetMade {
		t.Errorf("raiser should have c-bet opportunity and made, got %+v", raiser)
	}

	caller := Classify(rules, 1, hand)
	if !caller.VPIP || caller.PFR {
		t.Fatalf("caller signals wrong: %+v", caller)
	}
	if !caller.SawFlop {
		t.Error("caller acted on the flop, should have seen it")
	}
	if !caller.FoldToCBetOpportunity || !caller.FoldToCBetMade {
		t.Errorf("caller faced a c-bet and folded, got %+v", caller)
	}
}

func TestNoCBetOpportunityWithoutFlop(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "folds"},
	)
	sig := Classify(DefaultRules(), 0, hand)
	if sig.CBetOpportunity {
		t.Error("no flop was dealt, no c-bet opportunity")
	}
}

func TestCallingCBetIsNotAFold(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "calls 120"},
		act{0, model.RoundFlop, "bets 200"},
		act{1, model.RoundFlop, "calls 200"},
	)
	sig := Classify(DefaultRules(), 1, hand)
	if !sig.FoldToCBetOpportunity {
		t.Error("caller faced a c-bet, opportunity expected")
	}
	if sig.FoldToCBetMade {
		t.Error("caller called the c-bet, made should be false")
	}
}

// ---- 3-bet ----

func TestThreeBetMade(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "bets 360"},
	)
	sig := Classify(DefaultRules(), 1, hand)
	if !sig.ThreeBetOpportunity || !sig.ThreeBetMade {
		t.Errorf("re-raise over an open should be a made 3-bet, got %+v", sig)
	}
}

func TestThreeBetOpportunityWithoutMade(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "calls 120"},
	)
	sig := Classify(DefaultRules(), 1, hand)
	if !sig.ThreeBetOpportunity {
		t.Error("facing an open is a 3-bet opportunity")
	}
	if sig.ThreeBetMade {
		t.Error("flat call is not a 3-bet")
	}
}

func TestNoThreeBetOpportunityWhenFirstIn(t *testing.T) {
	hand := makeHand(
		act{1, model.RoundPreflop, "posts big blind"},
		act{0, model.RoundPreflop, "bets 120"},
	)
	sig := Classify(DefaultRules(), 0, hand)
	if sig.ThreeBetOpportunity {
		t.Error("open raise with no prior raise is not a 3-bet opportunity")
	}
}

func TestRaiseAfterPlayerActedIsNotThreeBetOpportunity(t *testing.T) {
	// Seat 1 limps first; the raise lands after their action, so the
	// window for a 3-bet opportunity never opened.
	hand := makeHand(
		act{1, model.RoundPreflop, "calls 20"},
		act{0, model.RoundPreflop, "bets 120"},
	)
	sig := Classify(DefaultRules(), 1, hand)
	if sig.ThreeBetOpportunity {
		t.Error("raise arrived after the player's first action, no opportunity")
	}
}

func TestBlindPostDoesNotCloseThreeBetWindow(t *testing.T) {
	hand := makeHand(
		act{1, model.RoundPreflop, "posts big blind"},
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "bets 360"},
	)
	sig := Classify(DefaultRules(), 1, hand)
	if !sig.ThreeBetOpportunity || !sig.ThreeBetMade {
		t.Errorf("blind post is forced, window stays open, got %+v", sig)
	}
}

// ---- Fold to 3-bet ----

func TestFoldTo3Bet(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "bets 360"},
		act{0, model.RoundPreflop, "folds"},
	)
	sig := Classify(DefaultRules(), 0, hand)
	if !sig.FoldTo3BetOpportunity || !sig.FoldTo3BetMade {
		t.Errorf("raiser folded to the 3-bet, got %+v", sig)
	}
}

func TestCalling3BetIsNotAFold(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "bets 360"},
		act{0, model.RoundPreflop, "calls 240"},
	)
	sig := Classify(DefaultRules(), 0, hand)
	if !sig.FoldTo3BetOpportunity {
		t.Error("raiser faced a 3-bet, opportunity expected")
	}
	if sig.FoldTo3BetMade {
		t.Error("call is not a fold")
	}
}

func TestOnlyTheNextActionDecidesFoldTo3Bet(t *testing.T) {
	// The raiser 4-bets into the 3-bet and only folds to the 5-bet; that
	// later fold is not a fold to the 3-bet.
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "bets 360"},
		act{0, model.RoundPreflop, "bets 1080"},
		act{1, model.RoundPreflop, "bets 3240"},
		act{0, model.RoundPreflop, "folds"},
	)
	sig := Classify(DefaultRules(), 0, hand)
	if !sig.FoldTo3BetOpportunity {
		t.Error("raiser faced a 3-bet, opportunity expected")
	}
	if sig.FoldTo3BetMade {
		t.Error("raiser 4-bet the 3-bet; the later fold must not count")
	}
}

func TestNoFoldTo3BetOpportunityWithoutOwnRaise(t *testing.T) {
	hand := makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "bets 360"},
		act{0, model.RoundPreflop, "folds"},
	)
	// Seat 1 never faced a re-raise of their own raise.
	sig := Classify(DefaultRules(), 1, hand)
	if sig.FoldTo3BetOpportunity {
		t.Errorf("no 3-bet was aimed at seat 1, got %+v", sig)
	}
}

// ---- Showdown ----

func showdownHand() *model.HandActions {
	return makeHand(
		act{0, model.RoundPreflop, "bets 120"},
		act{1, model.RoundPreflop, "calls 120"},
		act{0, model.RoundFlop, "bets 200"},
		act{1, model.RoundFlop, "calls 200"},
		act{0, model.RoundTurn, "checks"},
		act{1, model.RoundTurn, "checks"},
		act{0, model.RoundRiver, "checks"},
		act{1, model.RoundRiver, "checks"},
		act{0, model.RoundShowdown, "shows two pairs"},
		act{1, model.RoundShowdown, "shows high card"},
		act{0, model.RoundShowdown, "wins 640"},
	)
}

func TestShowdownSignals(t *testing.T) {
	rules := DefaultRules()

	winner := Classify(rules, 0, showdownHand())
	if !winner.WentToShowdown || !winner.WonShowdown {
		t.Errorf("seat 0 showed down and won, got %+v", winner)
	}

	loser := Classify(rules, 1, showdownHand())
	if !loser.WentToShowdown {
		t.Error("seat 1 showed down")
	}
	if loser.WonShowdown {
		t.Error("seat 1 did not win the showdown")
	}
}

func TestShowdownRequiresFlopAction(t *testing.T) {
	// Seat 2 never acts after preflop; even with a showdown round present
	// their showdown signals stay off because they never saw the flop.
	hand := makeHand(
		act{2, model.RoundPreflop, "folds"},
		act{0, model.RoundFlop, "bets 200"},
		act{1, model.RoundFlop, "calls 200"},
		act{0, model.RoundShowdown, "wins 400"},
	)
	sig := Classify(DefaultRules(), 2, hand)
	if sig.WentToShowdown || sig.WonShowdown {
		t.Errorf("seat 2 folded preflop, got %+v", sig)
	}
}

// ---- Pairing invariant ----

func TestMadeImpliesOpportunity(t *testing.T) {
	hands := []*model.HandActions{
		showdownHand(),
		makeHand(
			act{0, model.RoundPreflop, "bets 120"},
			act{1, model.RoundPreflop, "bets 360"},
			act{0, model.RoundPreflop, "folds"},
		),
		makeHand(
			act{0, model.RoundPreflop, "posts small blind"},
			act{1, model.RoundPreflop, "posts big blind"},
			act{0, model.RoundPreflop, "folds"},
		),
	}
	rules := DefaultRules()
	for i, hand := range hands {
		for seat := 0; seat <= 2; seat++ {
			sig := Classify(rules, seat, hand)
			if sig.ThreeBetMade && !sig.ThreeBetOpportunity {
				t.Errorf("hand %d seat %d: 3-bet made without opportunity", i, seat)
			}
			if sig.CBetMade && !sig.CBetOpportunity {
				t.Errorf("hand %d seat %d: c-bet made without opportunity", i, seat)
			}
			if sig.FoldTo3BetMade && !sig.FoldTo3BetOpportunity {
				t.Errorf("hand %d seat %d: fold-to-3-bet made without opportunity", i, seat)
			}
			if sig.FoldToCBetMade && !sig.FoldToCBetOpportunity {
				t.Errorf("hand %d seat %d: fold-to-c-bet made without opportunity", i, seat)
			}
			if sig.WonShowdown && !sig.WentToShowdown {
				t.Errorf("hand %d seat %d: won showdown without reaching it", i, seat)
			}
		}
	}
}
