package model

import (
	"fmt"
	"math"
)

// BettingRound identifies one street of a hand, matching the BeRo column of
// PokerTH session logs.
type BettingRound int

const (
	RoundPreflop  BettingRound = 0
	RoundFlop     BettingRound = 1
	RoundTurn     BettingRound = 2
	RoundRiver    BettingRound = 3
	RoundShowdown BettingRound = 4
)

func (r BettingRound) String() string {
	switch r {
	case RoundPreflop:
		return "preflop"
	case RoundFlop:
		return "flop"
	case RoundTurn:
		return "turn"
	case RoundRiver:
		return "river"
	case RoundShowdown:
		return "showdown"
	default:
		return "?"
	}
}

// Valid reports whether r is one of the five known rounds.
func (r BettingRound) Valid() bool {
	return r >= RoundPreflop && r <= RoundShowdown
}

// ---- Raw records read from a session log ----

// ActionRecord is one immutable action fact from a session log. ActionID is
// monotonically increasing within a source and defines the canonical order
// of actions inside a hand.
type ActionRecord struct {
	ActionID int64
	GameID   int64
	HandID   int64
	Round    BettingRound
	Seat     int
	Verb     string
	Amount   int64
}

// HandKey uniquely identifies one played hand within a source. A PokerTH
// session log can span several games, so the hand id alone is not unique.
type HandKey struct {
	GameID int64
	HandID int64
}

func (k HandKey) String() string {
	return fmt.Sprintf("%d/%d", k.GameID, k.HandID)
}

// HandActions holds all actions of one hand, partitioned by betting round
// and ordered by ActionID within each round.
type HandActions struct {
	Preflop  []ActionRecord
	Flop     []ActionRecord
	Turn     []ActionRecord
	River    []ActionRecord
	Showdown []ActionRecord
}

// Append places a record into its round bucket. Records arrive in ActionID
// order, so each bucket stays ordered.
func (h *HandActions) Append(a ActionRecord) {
	switch a.Round {
	case RoundPreflop:
		h.Preflop = append(h.Preflop, a)
	case RoundFlop:
		h.Flop = append(h.Flop, a)
	case RoundTurn:
		h.Turn = append(h.Turn, a)
	case RoundRiver:
		h.River = append(h.River, a)
	case RoundShowdown:
		h.Showdown = append(h.Showdown, a)
	}
}

// HasShowdown reports whether the hand reached the showdown round.
func (h *HandActions) HasShowdown() bool {
	return len(h.Showdown) > 0
}

// NonShowdown returns the four betting streets in order, for aggression
// accounting which excludes the showdown round.
func (h *HandActions) NonShowdown() [][]ActionRecord {
	return [][]ActionRecord{h.Preflop, h.Flop, h.Turn, h.River}
}

// SessionInfo is the metadata row of a PokerTH session log.
type SessionInfo struct {
	Version    string
	Date       string
	Time       string
	LogVersion int64
}

// SessionLog is a full in-memory snapshot of one session log file, rebuilt on
// every read. Bounded by a single session's action count, so re-reading it
// wholesale per poll is cheap.
type SessionLog struct {
	Path string
	Info SessionInfo

	// Seats maps player name → game id → seat. A player occupies exactly
	// one seat per game.
	Seats map[string]map[int64]int

	// Hands holds every hand's actions, partitioned by round.
	Hands map[HandKey]*HandActions

	// MaxActionID is the highest ActionID seen, the source's resume marker.
	MaxActionID int64

	// TablePlayers are the players of the most recent game, in seat order.
	TablePlayers []string
}

// SeatOf returns the seat of a player in the given game.
func (l *SessionLog) SeatOf(player string, gameID int64) (int, bool) {
	games, ok := l.Seats[player]
	if !ok {
		return 0, false
	}
	seat, ok := games[gameID]
	return seat, ok
}

// ---- Aggregated counters ----

// Counters is the flat per-player counter record. Every "made" counter is
// guaranteed ≤ its paired opportunity counter by the classifier. All fields
// add field-wise under merge.
type Counters struct {
	TotalHands int
	VPIPHands  int
	PFRHands   int

	// Aggression factor inputs, counted across all non-showdown actions.
	TotalBets  int
	TotalCalls int

	ThreeBetOpportunities int
	ThreeBetMade          int
	CBetOpportunities     int
	CBetMade              int

	FoldTo3BetOpportunities int
	FoldTo3BetMade          int
	FoldToCBetOpportunities int
	FoldToCBetMade          int

	HandsSawFlop        int
	HandsWentToShowdown int
	ShowdownsWon        int
}

// Add accumulates other into c field-wise.
func (c *Counters) Add(other Counters) {
	c.TotalHands += other.TotalHands
	c.VPIPHands += other.VPIPHands
	c.PFRHands += other.PFRHands
	c.TotalBets += other.TotalBets
	c.TotalCalls += other.TotalCalls
	c.ThreeBetOpportunities += other.ThreeBetOpportunities
	c.ThreeBetMade += other.ThreeBetMade
	c.CBetOpportunities += other.CBetOpportunities
	c.CBetMade += other.CBetMade
	c.FoldTo3BetOpportunities += other.FoldTo3BetOpportunities
	c.FoldTo3BetMade += other.FoldTo3BetMade
	c.FoldToCBetOpportunities += other.FoldToCBetOpportunities
	c.FoldToCBetMade += other.FoldToCBetMade
	c.HandsSawFlop += other.HandsSawFlop
	c.HandsWentToShowdown += other.HandsWentToShowdown
	c.ShowdownsWon += other.ShowdownsWon
}

// Diff returns c − base field-wise, clamping each counter at zero. A clamp
// means the source shrank under us (truncated or replaced); the second return
// reports that so callers can log the anomaly instead of silently merging a
// negative correction.
func (c Counters) Diff(base Counters) (Counters, bool) {
	clamped := false
	sub := func(a, b int) int {
		if a < b {
			clamped = true
			return 0
		}
		return a - b
	}
	d := Counters{
		TotalHands:              sub(c.TotalHands, base.TotalHands),
		VPIPHands:               sub(c.VPIPHands, base.VPIPHands),
		PFRHands:                sub(c.PFRHands, base.PFRHands),
		TotalBets:               sub(c.TotalBets, base.TotalBets),
		TotalCalls:              sub(c.TotalCalls, base.TotalCalls),
		ThreeBetOpportunities:   sub(c.ThreeBetOpportunities, base.ThreeBetOpportunities),
		ThreeBetMade:            sub(c.ThreeBetMade, base.ThreeBetMade),
		CBetOpportunities:       sub(c.CBetOpportunities, base.CBetOpportunities),
		CBetMade:                sub(c.CBetMade, base.CBetMade),
		FoldTo3BetOpportunities: sub(c.FoldTo3BetOpportunities, base.FoldTo3BetOpportunities),
		FoldTo3BetMade:          sub(c.FoldTo3BetMade, base.FoldTo3BetMade),
		FoldToCBetOpportunities: sub(c.FoldToCBetOpportunities, base.FoldToCBetOpportunities),
		FoldToCBetMade:          sub(c.FoldToCBetMade, base.FoldToCBetMade),
		HandsSawFlop:            sub(c.HandsSawFlop, base.HandsSawFlop),
		HandsWentToShowdown:     sub(c.HandsWentToShowdown, base.HandsWentToShowdown),
		ShowdownsWon:            sub(c.ShowdownsWon, base.ShowdownsWon),
	}
	return d, clamped
}

// IsZero reports whether every counter is zero.
func (c Counters) IsZero() bool {
	return c == Counters{}
}

// PlayerStats is one player's counter record plus identity, the unit stored
// in the aggregate store and shown in every view.
type PlayerStats struct {
	Name string
	Counters
}

func pct(made, opportunities int) float64 {
	if opportunities == 0 {
		return 0
	}
	return float64(made) / float64(opportunities) * 100
}

// VPIP returns the voluntarily-put-money-in-pot percentage.
func (s *PlayerStats) VPIP() float64 { return pct(s.VPIPHands, s.TotalHands) }

// PFR returns the preflop raise percentage.
func (s *PlayerStats) PFR() float64 { return pct(s.PFRHands, s.TotalHands) }

// AF returns the aggression factor: bets and raises over calls, excluding
// showdown. With zero calls the ratio is +Inf when any aggressive action
// exists, else 0. The infinity sentinel is carried as a real math.Inf value
// so it sorts above every finite ratio and is never truncated downstream;
// only formatting layers render it as "inf".
func (s *PlayerStats) AF() float64 {
	if s.TotalCalls == 0 {
		if s.TotalBets > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(s.TotalBets) / float64(s.TotalCalls)
}

// ThreeBet returns the 3-bet percentage over 3-bet opportunities.
func (s *PlayerStats) ThreeBet() float64 {
	return pct(s.ThreeBetMade, s.ThreeBetOpportunities)
}

// CBet returns the continuation-bet percentage over c-bet opportunities.
func (s *PlayerStats) CBet() float64 {
	return pct(s.CBetMade, s.CBetOpportunities)
}

// FoldTo3Bet returns the fold-to-3-bet percentage.
func (s *PlayerStats) FoldTo3Bet() float64 {
	return pct(s.FoldTo3BetMade, s.FoldTo3BetOpportunities)
}

// FoldToCBet returns the fold-to-c-bet percentage.
func (s *PlayerStats) FoldToCBet() float64 {
	return pct(s.FoldToCBetMade, s.FoldToCBetOpportunities)
}

// WTSD returns the went-to-showdown percentage among hands that saw the flop.
func (s *PlayerStats) WTSD() float64 {
	return pct(s.HandsWentToShowdown, s.HandsSawFlop)
}

// WSD returns the won-at-showdown percentage among showdown hands.
func (s *PlayerStats) WSD() float64 {
	return pct(s.ShowdownsWon, s.HandsWentToShowdown)
}

// FormatAF renders an aggression factor for display. The infinity sentinel
// becomes "inf"; everything else is printed with one decimal.
func FormatAF(af float64) string {
	if math.IsInf(af, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.1f", af)
}

// StatsView is the flat presentation record consumed by both the HUD table
// and the per-player widget, so the derived-metric formulas live in exactly
// one place.
type StatsView struct {
	Name  string
	Hands int

	VPIP       float64
	PFR        float64
	AF         float64
	ThreeBet   float64
	CBet       float64
	FoldTo3Bet float64
	FoldToCBet float64
	WTSD       float64
	WSD        float64

	// Opportunity denominators, so renderers can distinguish a true 0%
	// from "never had the chance".
	ThreeBetOpportunities   int
	CBetOpportunities       int
	FoldTo3BetOpportunities int
	FoldToCBetOpportunities int
	HandsSawFlop            int
	HandsWentToShowdown     int
}

// View computes the derived percentage/ratio view of the record.
func (s *PlayerStats) View() StatsView {
	return StatsView{
		Name:                    s.Name,
		Hands:                   s.TotalHands,
		VPIP:                    s.VPIP(),
		PFR:                     s.PFR(),
		AF:                      s.AF(),
		ThreeBet:                s.ThreeBet(),
		CBet:                    s.CBet(),
		FoldTo3Bet:              s.FoldTo3Bet(),
		FoldToCBet:              s.FoldToCBet(),
		WTSD:                    s.WTSD(),
		WSD:                     s.WSD(),
		ThreeBetOpportunities:   s.ThreeBetOpportunities,
		CBetOpportunities:       s.CBetOpportunities,
		FoldTo3BetOpportunities: s.FoldTo3BetOpportunities,
		FoldToCBetOpportunities: s.FoldToCBetOpportunities,
		HandsSawFlop:            s.HandsSawFlop,
		HandsWentToShowdown:     s.HandsWentToShowdown,
	}
}
