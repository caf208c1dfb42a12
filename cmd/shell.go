package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/cache"
	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
	"github.com/pable/aram-stats/internal/report"
	"github.com/pable/aram-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a persistent session on one dataset. Champion dashboards are cached per
dataset version; 'reload' re-reads the source and drops stale entries.
Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	addSourceFlags(shellCmd)
}

// session is the state of one shell.
type session struct {
	db    *storage.DB
	svc   *aggregator.Service
	icons icons.Resolver
	ds    *model.Dataset
	csv   string // non-empty when the dataset was read from a file
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := cache.NewLRU[*model.Dashboard](cfg.Cache.Size)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	s := &session{
		db:    db,
		svc:   aggregator.NewService(store, log),
		icons: loadIcons(cmd.Context(), db),
	}
	s.csv = sourceFile()
	if s.ds, err = loadSource(db); err != nil {
		cWarn.Fprintf(os.Stderr, "%v\n", err)
	}

	cGreeting.Println("aramstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("aramstats")
		if s.ds != nil {
			cMuted.Printf(":%s", s.ds.Hash[:min(8, len(s.ds.Hash))])
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, rest := tokens[0], strings.Join(tokens[1:], " ")

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			s.list()
		case "use":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: use <hash-prefix | file.csv>")
				continue
			}
			s.use(rest)
		case "reload":
			s.reload()
		case "cache":
			s.cacheCmd(rest)
		default:
			if s.ds == nil {
				cWarn.Fprintln(os.Stderr, "no dataset loaded; 'use <hash-prefix | file.csv>' first")
				continue
			}
			s.analysis(name, rest)
		}
	}
	return nil
}

func (s *session) analysis(name, rest string) {
	t := s.ds.Table
	switch name {
	case "overview":
		report.PrintOverview(os.Stdout, s.ds.Hash, aggregator.Overview(t))
	case "champions":
		stats := aggregator.ChampionStats(t)
		if n, err := strconv.Atoi(rest); err == nil && n > 0 && len(stats) > n {
			stats = stats[:n]
		}
		report.PrintChampionTable(os.Stdout, stats, t.Columns.KDA, s.icons)
	case "champion":
		if rest == "" {
			cError.Fprintln(os.Stderr, "usage: champion <name>")
			return
		}
		d, err := s.svc.Dashboard(s.ds, resolveChampion(t, rest))
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		report.PrintDashboard(os.Stdout, d, 10, s.icons)
	case "items", "boots", "core":
		if rest != "" {
			t = t.FilterChampion(resolveChampion(t, rest))
		}
		switch name {
		case "core":
			report.PrintCoreComboTable(os.Stdout, head(aggregator.CoreComboStats(t, cfg.Items.CoreSlots), 20))
		case "boots":
			report.PrintItemTable(os.Stdout, aggregator.FilterItems(aggregator.ItemStats(t), cfg.Items.Boots), s.icons)
		default:
			report.PrintItemTable(os.Stdout, head(aggregator.ItemStats(t), 20), s.icons)
		}
	case "synergy":
		if rest == "" {
			cError.Fprintln(os.Stderr, "usage: synergy <champion>")
			return
		}
		report.PrintSynergyTable(os.Stdout, aggregator.TeammateSynergy(t, resolveChampion(t, rest), 10), s.icons)
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list stored datasets"},
		{"use <hash-prefix | file.csv>", "switch dataset"},
		{"reload", "re-read the current dataset, dropping stale cache entries"},
		{"overview", "match, player and row counts"},
		{"champions [n]", "all champions by win rate"},
		{"champion <name>", "summary, items, spells and runes for one champion"},
		{"items [champion]", "item win rates"},
		{"boots [champion]", "boots only"},
		{"core [champion]", "core item sets"},
		{"synergy <champion>", "best teammates"},
		{"cache [clear]", "show the dashboard cache, or clear it for every dataset"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-32s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *session) list() {
	list, err := s.db.ListDatasets()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(list) == 0 {
		cMuted.Println("No datasets stored yet.")
		return
	}
	report.PrintDatasets(os.Stdout, list)
}

func (s *session) use(arg string) {
	if _, err := os.Stat(arg); err == nil {
		ds, err := loadCSV(arg)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		s.ds, s.csv = ds, arg
		report.PrintOverview(os.Stdout, ds.Hash, aggregator.Overview(ds.Table))
		return
	}
	info, err := s.db.GetDatasetByPrefix(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if info == nil {
		cError.Fprintf(os.Stderr, "no dataset or file matches %q\n", arg)
		return
	}
	ds, err := loadStored(s.db, info.Hash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	s.ds, s.csv = ds, ""
	report.PrintOverview(os.Stdout, ds.Hash, aggregator.Overview(ds.Table))
}

// reload re-reads a file-backed dataset. A changed file gets a new hash, so
// the old version's cache entries are dropped.
func (s *session) reload() {
	if s.ds == nil || s.csv == "" {
		cMuted.Println("stored datasets are immutable; nothing to reload")
		return
	}
	ds, err := loadCSV(s.csv)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if ds.Hash == s.ds.Hash {
		cMuted.Println("unchanged")
		return
	}
	n := s.svc.Invalidate(s.ds)
	s.ds = ds
	cHeader.Printf("reloaded %s", ds.Hash[:12])
	cMuted.Printf(" (%d cached dashboards dropped)\n", n)
}

func (s *session) cacheCmd(arg string) {
	switch arg {
	case "":
		fmt.Printf("%d cached dashboards (capacity %d)\n", s.svc.Cached(), cfg.Cache.Size)
	case "clear":
		fmt.Printf("dropped %d entries\n", s.svc.Purge())
	default:
		cError.Fprintln(os.Stderr, "usage: cache [clear]")
	}
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
