package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/report"
)

var synergyTop int

var synergyCmd = &cobra.Command{
	Use:   "synergy <champion>",
	Short: "Best teammates of a champion by win rate",
	Long: `Pair the champion with every other champion on the same team in the same match
and report games together, wins and win rate. Requires a teamId column.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynergy,
}

func init() {
	addSourceFlags(synergyCmd)
	synergyCmd.Flags().IntVarP(&synergyTop, "top", "n", 10, "number of teammates to show (0 = all)")
}

func runSynergy(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	if !ds.Table.Columns.Team {
		return fmt.Errorf("synergy needs a teamId column, which this dataset does not have")
	}
	champ := resolveChampion(ds.Table, args[0])
	stats := aggregator.TeammateSynergy(ds.Table, champ, synergyTop)
	if len(stats) == 0 {
		fmt.Fprintf(os.Stdout, "No teammates found for %q.\n", champ)
		return nil
	}
	fmt.Fprintf(os.Stdout, "\nTeammates of %s\n\n", champ)
	report.PrintSynergyTable(os.Stdout, stats, loadIcons(cmd.Context(), db))
	return nil
}
