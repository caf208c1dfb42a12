package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/report"
)

var championsLimit int

var championsCmd = &cobra.Command{
	Use:   "champions",
	Short: "Win rate, pick rate and KDA of every champion",
	Args:  cobra.NoArgs,
	RunE:  runChampions,
}

func init() {
	addSourceFlags(championsCmd)
	championsCmd.Flags().IntVarP(&championsLimit, "limit", "n", 0, "show only the top N champions")
}

func runChampions(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	stats := aggregator.ChampionStats(ds.Table)
	if championsLimit > 0 && len(stats) > championsLimit {
		stats = stats[:championsLimit]
	}

	report.PrintOverview(os.Stdout, ds.Hash, aggregator.Overview(ds.Table))
	report.PrintChampionTable(os.Stdout, stats, ds.Table.Columns.KDA, loadIcons(cmd.Context(), db))
	return nil
}
