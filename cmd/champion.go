package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/report"
)

var championLimit int

var championCmd = &cobra.Command{
	Use:   "champion <name>",
	Short: "Summary, item, summoner spell and rune stats for one champion",
	Long: `Show the dashboard of one champion: games, wins, win rate and pick rate,
followed by item, summoner spell pair and rune pair tables sorted by win rate.
Names are matched ignoring case, spaces and punctuation.`,
	Args: cobra.ExactArgs(1),
	RunE: runChampion,
}

func init() {
	addSourceFlags(championCmd)
	championCmd.Flags().IntVarP(&championLimit, "limit", "n", 10, "rows per table (0 = all)")
}

func runChampion(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	champ := resolveChampion(ds.Table, args[0])

	d, err := aggregator.NewService(nil, log).Dashboard(ds, champ)
	if err != nil {
		return err
	}
	if d.Summary.GamesPlayed == 0 {
		fmt.Fprintf(os.Stderr, "No games found for %q.\n", champ)
	}
	report.PrintDashboard(os.Stdout, d, championLimit, loadIcons(cmd.Context(), db))
	return nil
}
