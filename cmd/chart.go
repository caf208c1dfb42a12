package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/charts"
)

var (
	chartChampion string
	chartOut      string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render win-rate bar charts to an HTML file",
	Long: `Without --champion, render the all-champions win rate chart.
With --champion, render item, summoner spell and rune charts for that champion.`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	addSourceFlags(chartCmd)
	chartCmd.Flags().StringVarP(&chartChampion, "champion", "c", "", "render the dashboard of this champion")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "aramstats.html", "output HTML file")
}

func runChart(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}

	cc := charts.DefaultConfig()
	cc.Limit = cfg.Chart.Limit
	if cfg.Chart.Theme != "" {
		cc.Theme = cfg.Chart.Theme
	}

	f, err := os.Create(chartOut)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if chartChampion == "" {
		err = charts.RenderChampions(f, aggregator.ChampionStats(ds.Table), cc)
	} else {
		d, derr := aggregator.NewService(nil, log).Dashboard(ds, resolveChampion(ds.Table, chartChampion))
		if derr != nil {
			return derr
		}
		err = charts.RenderDashboard(f, d, cc)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", chartOut)
	return nil
}
