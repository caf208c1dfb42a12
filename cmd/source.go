package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/dataset"
	"github.com/pable/aram-stats/internal/ddragon"
	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
	"github.com/pable/aram-stats/internal/storage"
)

var (
	srcCSV     string
	srcDataset string
)

// addSourceFlags registers --csv and --dataset on an analysis command.
func addSourceFlags(c *cobra.Command) {
	c.Flags().StringVar(&srcCSV, "csv", "", "analyze this CSV file directly")
	c.Flags().StringVar(&srcDataset, "dataset", "", "analyze a stored dataset by hash prefix")
}

// openDB opens the store, creating its directory on first use.
func openDB() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// loadSource resolves the dataset to analyze: --csv, then --dataset, then
// data.csv from the config when that file exists, then the latest import.
func loadSource(db *storage.DB) (*model.Dataset, error) {
	if path := sourceFile(); path != "" {
		return loadCSV(path)
	}
	if srcDataset != "" {
		info, err := db.GetDatasetByPrefix(srcDataset)
		if err != nil {
			return nil, fmt.Errorf("query dataset: %w", err)
		}
		if info == nil {
			return nil, fmt.Errorf("no dataset found with hash prefix %q", srcDataset)
		}
		return loadStored(db, info.Hash)
	}

	info, err := db.LatestDataset()
	if err != nil {
		return nil, fmt.Errorf("query latest dataset: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("no data: pass --csv <file>, or run 'aramstats import <file.csv>' first")
	}
	return loadStored(db, info.Hash)
}

// sourceFile returns the CSV path loadSource reads directly, or "" when the
// dataset comes from the store.
func sourceFile() string {
	if srcCSV != "" {
		return srcCSV
	}
	if srcDataset != "" || cfg.Data.CSV == "" {
		return ""
	}
	if _, err := os.Stat(cfg.Data.CSV); err != nil {
		log.Debug("configured csv not found", "path", cfg.Data.CSV)
		return ""
	}
	return cfg.Data.CSV
}

func loadCSV(path string) (*model.Dataset, error) {
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", "source", path, "hash", ds.Hash[:12], "rows", ds.Table.Len())
	return ds, nil
}

func loadStored(db *storage.DB, hash string) (*model.Dataset, error) {
	ds, err := db.LoadDataset(hash)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	log.Info("dataset loaded", "source", ds.Source, "hash", hash[:min(12, len(hash))], "rows", ds.Table.Len())
	return ds, nil
}

// resolveChampion maps user input to the champion name used in t, ignoring
// case, spacing and punctuation. Unknown names are returned unchanged.
func resolveChampion(t *model.Table, name string) string {
	want := icons.NormalizeKey(name)
	for _, c := range t.Champions() {
		if c == name {
			return c
		}
	}
	for _, c := range t.Champions() {
		if icons.NormalizeKey(c) == want {
			return c
		}
	}
	return name
}

// loadIcons returns the stored icon dictionary, refreshing it from Data
// Dragon first when it is missing or older than icons.max_age. A failed
// refresh falls back to whatever is stored.
// iconRetryAfter is how long a failed dictionary fetch suppresses further attempts.
const iconRetryAfter = time.Hour

func loadIcons(ctx context.Context, db *storage.DB) icons.Resolver {
	ix, err := db.LoadIconIndex()
	if err != nil {
		log.Warn("load icon dictionary", "err", err)
	}
	if offline {
		return resolverOf(ix)
	}
	lastFailure, err := db.LastIconRefreshFailure()
	if err != nil {
		log.Warn("read icon refresh state", "err", err)
	}
	now := time.Now()
	if !shouldRefreshIcons(ix, lastFailure, now, cfg.Icons.MaxAge.Duration) {
		return resolverOf(ix)
	}

	fresh, err := refreshIcons(ctx, db)
	if err != nil {
		if rerr := db.RecordIconRefreshFailure(now); rerr != nil {
			log.Warn("record icon refresh failure", "err", rerr)
		}
		log.Warn("icon refresh failed, using stored dictionary; pass --offline to skip fetching",
			"err", err, "retry_after", now.Add(iconRetryAfter).Local().Format(time.Kitchen))
		return resolverOf(ix)
	}
	return fresh
}

// shouldRefreshIcons reports whether a stale or missing dictionary should be
// fetched now. A failure within iconRetryAfter defers the next attempt.
func shouldRefreshIcons(ix *icons.Index, lastFailure, now time.Time, maxAge time.Duration) bool {
	if !ix.Stale(now, maxAge) {
		return false
	}
	return lastFailure.IsZero() || now.Sub(lastFailure) >= iconRetryAfter
}

func refreshIcons(ctx context.Context, db *storage.DB) (*icons.Index, error) {
	opts := []ddragon.Option{ddragon.WithLogger(log)}
	if cfg.Icons.BaseURL != "" {
		opts = append(opts, ddragon.WithBaseURL(cfg.Icons.BaseURL))
	}
	ix, err := ddragon.NewClient(opts...).BuildIndex(ctx, cfg.Icons.Version, cfg.Icons.Locale)
	if err != nil {
		return nil, err
	}
	if err := db.SaveIconIndex(ix); err != nil {
		return nil, fmt.Errorf("save icon dictionary: %w", err)
	}
	return ix, nil
}

func resolverOf(ix *icons.Index) icons.Resolver {
	if ix == nil {
		return icons.None
	}
	return ix
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
