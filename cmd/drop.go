package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes one dataset, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [hash-prefix]",
	Short: "Delete a stored dataset, or the whole database",
	Long: `With a hash prefix, delete that dataset and its rows.
Without arguments, permanently delete the SQLite database including the icon dictionary.
Both forms require --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropDataset(args[0])
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropDataset(prefix string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	info, err := db.GetDatasetByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query dataset: %w", err)
	}
	if info == nil {
		fmt.Fprintf(os.Stderr, "No dataset found with hash prefix %q\n", prefix)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete dataset %s (%s, %d rows).\n", info.Hash[:12], info.Source, info.Rows)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if _, err := db.DeleteDataset(info.Hash); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted dataset %s\n", info.Hash[:12])
	return nil
}
