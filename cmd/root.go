package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/config"
	"github.com/pable/aram-stats/internal/logger"
)

var (
	dbPath     string
	configPath string
	logLevel   string
	logFormat  string
	offline    bool

	cfg = config.Default()
	log = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "aramstats",
	Short: "ARAM match statistics tool",
	Long: `Aggregate champion, item, summoner spell and rune statistics from a CSV of
ARAM match participation rows.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default from config, else XDG data dir)")
	pf.StringVar(&configPath, "config", config.DefaultConfigPath(), "path to TOML config file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json")
	pf.BoolVar(&offline, "offline", false, "never contact Data Dragon; use the stored icon dictionary only")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(championsCmd)
	rootCmd.AddCommand(championCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(synergyCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(iconsCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup loads .env, the config file and the logger before any command runs.
// Flags win over the config file.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}
	cfg = c

	if dbPath == "" {
		dbPath = cfg.Data.DB
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	if logFormat == "" {
		logFormat = cfg.Log.Format
	}

	l, err := logger.New(logger.Config{Format: logFormat, Level: logger.ParseLevel(logLevel)})
	if err != nil {
		return err
	}
	log = l
	slog.SetDefault(l)
	log.Debug("config loaded", "path", configPath, "db", dbPath)
	return nil
}
