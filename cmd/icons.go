package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/report"
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Manage the Data Dragon icon dictionary",
}

var iconsRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the icon dictionary from Data Dragon now",
	Long: `Fetch items, summoner spells, runes and champions for icons.version and
icons.locale from the config and replace the stored dictionary.`,
	Args: cobra.NoArgs,
	RunE: runIconsRefresh,
}

var iconsLookupCmd = &cobra.Command{
	Use:   "lookup <item|spell|rune|champion> <name>",
	Short: "Resolve a name to its icon URL",
	Args:  cobra.ExactArgs(2),
	RunE:  runIconsLookup,
}

var iconsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored dictionary version and entry counts",
	Args:  cobra.NoArgs,
	RunE:  runIconsStatus,
}

func init() {
	iconsCmd.AddCommand(iconsRefreshCmd)
	iconsCmd.AddCommand(iconsLookupCmd)
	iconsCmd.AddCommand(iconsStatusCmd)
}

func runIconsRefresh(cmd *cobra.Command, args []string) error {
	if offline {
		return fmt.Errorf("icons refresh needs network access; drop --offline")
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Fetching %s data for %s...\n", cfg.Icons.Locale, cfg.Icons.Version)
	ix, err := refreshIcons(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("refresh icons: %w", err)
	}
	report.PrintIconCounts(os.Stdout, ix)
	return nil
}

func runIconsLookup(cmd *cobra.Command, args []string) error {
	kind, ok := icons.ParseKind(args[0])
	if !ok {
		return fmt.Errorf("unknown kind %q (want item, spell, rune or champion)", args[0])
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	r := loadIcons(cmd.Context(), db)
	if ix, ok := r.(*icons.Index); ok {
		if e, found := ix.Get(kind, args[1]); found {
			fmt.Fprintf(os.Stdout, "%s  %s  (%s %s)\n", e.URL, e.Name, e.Kind, e.ID)
			return nil
		}
	}
	fmt.Fprintf(os.Stdout, "%s  no %s icon for %q\n", report.Missing, kind, args[1])
	return nil
}

func runIconsStatus(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ix, err := db.LoadIconIndex()
	if err != nil {
		return fmt.Errorf("load icon dictionary: %w", err)
	}
	report.PrintIconCounts(os.Stdout, ix)
	if ix != nil && cfg.Icons.MaxAge.Duration > 0 {
		fmt.Fprintf(os.Stdout, "\nRefresh after: %s\n", ix.FetchedAt.Add(cfg.Icons.MaxAge.Duration).Local().Format("2006-01-02 15:04"))
	}
	return nil
}
