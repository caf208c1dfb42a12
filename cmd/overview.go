package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/report"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show match, player and row counts of a dataset",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func init() {
	addSourceFlags(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	ov := aggregator.Overview(ds.Table)
	report.PrintOverview(os.Stdout, ds.Hash, ov)
	if ov.Rows == 0 {
		fmt.Fprintln(os.Stdout, "Dataset is empty.")
	}
	return nil
}
