// Package report renders player statistics as tables and per-player
// widgets. All derived numbers come from the model, so no formula is
// duplicated here.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/MCNCHEESYF/pokerth-tracker/internal/model"
)

// PrintSessionSummary prints a one-line summary header for a session log.
func PrintSessionSummary(w io.Writer, log *model.SessionLog) {
	fmt.Fprintf(w, "\nLog: %s  |  Date: %s %s  |  PokerTH: %s  |  Hands: %d  |  Players: %d\n\n",
		log.Path, log.Info.Date, log.Info.Time, log.Info.Version, len(log.Hands), len(log.TablePlayers))
}

// PrintHUDTable prints the tabular HUD view to stdout.
// If focusPlayer is non-empty, that player's row is marked with ">".
func PrintHUDTable(stats []model.PlayerStats, focusPlayer string) {
	PrintHUDTableTo(os.Stdout, stats, focusPlayer)
}

// PrintHUDTableTo writes the HUD table to the provided writer.
func PrintHUDTableTo(w io.Writer, stats []model.PlayerStats, focusPlayer string) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(
		" ", "NAME", "HANDS", "VPIP", "PFR", "AF", "3BET", "CBET",
		"F3BET", "FCBET", "WTSD", "W$SD",
	)

	for i := range stats {
		s := &stats[i]
		v := s.View()
		marker := " "
		if focusPlayer != "" && s.Name == focusPlayer {
			marker = ">"
		}
		table.Append(
			marker,
			s.Name,
			strconv.Itoa(s.TotalHands),
			pctCell(v.VPIP, s.TotalHands),
			pctCell(v.PFR, s.TotalHands),
			model.FormatAF(v.AF),
			pctCell(v.ThreeBet, s.ThreeBetOpportunities),
			pctCell(v.CBet, s.CBetOpportunities),
			pctCell(v.FoldTo3Bet, s.FoldTo3BetOpportunities),
			pctCell(v.FoldToCBet, s.FoldToCBetOpportunities),
			pctCell(v.WTSD, s.HandsSawFlop),
			pctCell(v.WSD, s.HandsWentToShowdown),
		)
	}
	table.Render()
}

// PrintPlayerWidget writes the compact single-player block used by the
// player command. Each rate carries its raw made/opportunity counts so a
// reader can judge the sample size.
func PrintPlayerWidget(w io.Writer, s *model.PlayerStats) {
	v := s.View()
	fmt.Fprintf(w, "\n=== %s ===\n\n", s.Name)
	fmt.Fprintf(w, "  Hands         : %d\n", s.TotalHands)
	fmt.Fprintf(w, "  VPIP          : %s\n", pctCell(v.VPIP, s.TotalHands))
	fmt.Fprintf(w, "  PFR           : %s\n", pctCell(v.PFR, s.TotalHands))
	fmt.Fprintf(w, "  AF            : %s  (%d bets / %d calls)\n",
		model.FormatAF(v.AF), s.TotalBets, s.TotalCalls)
	fmt.Fprintf(w, "  3-Bet         : %s  (%d/%d)\n",
		pctCell(v.ThreeBet, s.ThreeBetOpportunities), s.ThreeBetMade, s.ThreeBetOpportunities)
	fmt.Fprintf(w, "  C-Bet         : %s  (%d/%d)\n",
		pctCell(v.CBet, s.CBetOpportunities), s.CBetMade, s.CBetOpportunities)
	fmt.Fprintf(w, "  Fold to 3-Bet : %s  (%d/%d)\n",
		pctCell(v.FoldTo3Bet, s.FoldTo3BetOpportunities), s.FoldTo3BetMade, s.FoldTo3BetOpportunities)
	fmt.Fprintf(w, "  Fold to C-Bet : %s  (%d/%d)\n",
		pctCell(v.FoldToCBet, s.FoldToCBetOpportunities), s.FoldToCBetMade, s.FoldToCBetOpportunities)
	fmt.Fprintf(w, "  WTSD          : %s  (%d/%d)\n",
		pctCell(v.WTSD, s.HandsSawFlop), s.HandsWentToShowdown, s.HandsSawFlop)
	fmt.Fprintf(w, "  W$SD          : %s  (%d/%d)\n",
		pctCell(v.WSD, s.HandsWentToShowdown), s.ShowdownsWon, s.HandsWentToShowdown)
}

// pctCell renders a percentage, or a dash when the player never had the
// opportunity, so a true 0% stays distinguishable from "no sample".
func pctCell(pct float64, opportunities int) string {
	if opportunities == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
