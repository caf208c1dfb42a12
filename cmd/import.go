package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/dataset"
	"github.com/pable/aram-stats/internal/report"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Validate a match CSV and store it as a dataset",
	Long: `Read, validate and normalize a match CSV and store it in the database.
Datasets are keyed by the SHA-256 of the file, so importing the same file twice is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Reading %s...\n", path)
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}

	exists, err := db.DatasetExists(ds.Hash)
	if err != nil {
		return fmt.Errorf("check dataset: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Dataset %s already stored.\n", ds.Hash[:12])
		report.PrintOverview(os.Stdout, ds.Hash, aggregator.Overview(ds.Table))
		return nil
	}

	if err := db.InsertDataset(ds, time.Now()); err != nil {
		return fmt.Errorf("store dataset: %w", err)
	}
	log.Info("dataset imported", "hash", ds.Hash[:12], "rows", ds.Table.Len())
	report.PrintOverview(os.Stdout, ds.Hash, aggregator.Overview(ds.Table))
	return nil
}
