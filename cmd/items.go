package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/report"
)

var (
	itemsChampion string
	itemsBoots    bool
	itemsOnly     string
	itemsCore     bool
	itemsLimit    int
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Item win rates, optionally per champion, boots only, or as core sets",
	Long: `Pool every item slot of every row and report per-item picks, wins, win rate
and pick rate. With --champion the rows are filtered first and pick rate is relative
to that champion's matches.

--boots restricts the table to the boots list from the config file (items.boots).
--only restricts it to a comma-separated list of item names.
--core groups rows by the set of items in their first items.core_slots slots instead.`,
	Args: cobra.NoArgs,
	RunE: runItems,
}

func init() {
	addSourceFlags(itemsCmd)
	f := itemsCmd.Flags()
	f.StringVarP(&itemsChampion, "champion", "c", "", "only rows of this champion")
	f.BoolVar(&itemsBoots, "boots", false, "only boots (items.boots in config)")
	f.StringVar(&itemsOnly, "only", "", "comma-separated item allow-list")
	f.BoolVar(&itemsCore, "core", false, "group by core item set instead of single items")
	f.IntVarP(&itemsLimit, "limit", "n", 20, "rows to show (0 = all)")
	itemsCmd.MarkFlagsMutuallyExclusive("boots", "only", "core")
}

func runItems(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	t := ds.Table
	if itemsChampion != "" {
		champ := resolveChampion(t, itemsChampion)
		t = t.FilterChampion(champ)
		fmt.Fprintf(os.Stdout, "\nChampion: %s  |  Rows: %d  |  Matches: %d\n\n", champ, t.Len(), t.MatchCount())
	}

	if itemsCore {
		stats := aggregator.CoreComboStats(t, cfg.Items.CoreSlots)
		if itemsLimit > 0 && len(stats) > itemsLimit {
			stats = stats[:itemsLimit]
		}
		report.PrintCoreComboTable(os.Stdout, stats)
		return nil
	}

	stats := aggregator.ItemStats(t)
	switch {
	case itemsBoots:
		stats = aggregator.FilterItems(stats, cfg.Items.Boots)
	case itemsOnly != "":
		stats = aggregator.FilterItems(stats, splitList(itemsOnly))
	}
	if itemsLimit > 0 && len(stats) > itemsLimit {
		stats = stats[:itemsLimit]
	}
	report.PrintItemTable(os.Stdout, stats, loadIcons(cmd.Context(), db))
	return nil
}
