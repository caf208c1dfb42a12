// Package report renders derived statistics as terminal tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
)

// Missing is printed wherever a value or icon is unavailable.
const Missing = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintDatasets prints the stored dataset list.
func PrintDatasets(w io.Writer, list []model.DatasetInfo) {
	table := newTable(w)
	table.Header("HASH", "SOURCE", "ROWS", "MATCHES", "CHAMPIONS", "IMPORTED")
	for _, d := range list {
		table.Append(
			shortHash(d.Hash),
			d.Source,
			strconv.Itoa(d.Rows),
			strconv.Itoa(d.Matches),
			strconv.Itoa(d.Champions),
			d.ImportedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}

// PrintOverview prints the dataset headline counts on one line.
func PrintOverview(w io.Writer, hash string, ov model.Overview) {
	players := Missing
	if ov.Players > 0 {
		players = strconv.Itoa(ov.Players)
	}
	fmt.Fprintf(w, "\nDataset: %s  |  Matches: %d  |  Players: %s  |  Rows: %d\n\n",
		shortHash(hash), ov.Matches, players, ov.Rows)
}

// PrintChampionSummary prints the headline block for one champion.
func PrintChampionSummary(w io.Writer, s model.ChampionSummary) {
	fmt.Fprintf(w, "\nChampion: %s  |  Games: %d  |  Wins: %d  |  Win rate: %.2f%%  |  Pick rate: %.2f%% of %d matches\n\n",
		s.Champion, s.GamesPlayed, s.Wins, s.WinRate, s.PickRate, s.TotalMatches)
}

// PrintItemTable prints item stats, best win rate first.
func PrintItemTable(w io.Writer, stats []model.ItemStat, r icons.Resolver) {
	r = resolver(r)
	table := newTable(w)
	table.Header("ITEM", "PICKS", "WINS", "WR%", "WR 95% CI", "PICK%", "SAMPLE", "ICON")
	for _, s := range stats {
		table.Append(
			s.Item,
			strconv.Itoa(s.TotalPicks),
			strconv.Itoa(s.Wins),
			fmt.Sprintf("%.2f", s.WinRate),
			ciString(s.Wins, s.TotalPicks),
			fmt.Sprintf("%.2f", s.PickRate),
			sampleFlag(s.TotalPicks),
			icon(r, icons.KindItem, s.Item),
		)
	}
	table.Render()
}

// PrintComboTable prints spell or rune pair stats. kind selects the icon category.
func PrintComboTable(w io.Writer, stats []model.ComboStat, kind icons.Kind, r icons.Resolver) {
	r = resolver(r)
	table := newTable(w)
	table.Header("FIRST", "SECOND", "GAMES", "WINS", "WR%", "WR 95% CI", "PICK%", "SAMPLE", "ICON 1", "ICON 2")
	for _, s := range stats {
		table.Append(
			s.First,
			s.Second,
			strconv.Itoa(s.TotalGames),
			strconv.Itoa(s.Wins),
			fmt.Sprintf("%.2f", s.WinRate),
			ciString(s.Wins, s.TotalGames),
			fmt.Sprintf("%.2f", s.PickRate),
			sampleFlag(s.TotalGames),
			icon(r, kind, s.First),
			icon(r, kind, s.Second),
		)
	}
	table.Render()
}

// PrintChampionTable prints the all-champions table. The KDA column shows
// a dash when the dataset carries no kill/death/assist columns.
func PrintChampionTable(w io.Writer, stats []model.ChampionStat, hasKDA bool, r icons.Resolver) {
	r = resolver(r)
	table := newTable(w)
	table.Header("CHAMPION", "GAMES", "WINS", "WR%", "PICK%", "KDA", "SAMPLE", "ICON")
	for _, s := range stats {
		kda := Missing
		if hasKDA {
			kda = fmt.Sprintf("%.2f", s.AvgKDA)
		}
		table.Append(
			s.Champion,
			strconv.Itoa(s.TotalGames),
			strconv.Itoa(s.Wins),
			fmt.Sprintf("%.2f", s.WinRate),
			fmt.Sprintf("%.2f", s.PickRate),
			kda,
			sampleFlag(s.TotalGames),
			icon(r, icons.KindChampion, s.Champion),
		)
	}
	table.Render()
}

// PrintCoreComboTable prints core item sets.
func PrintCoreComboTable(w io.Writer, stats []model.CoreComboStat) {
	table := newTable(w)
	table.Header("CORE ITEMS", "GAMES", "WINS", "WR%", "WR 95% CI", "SAMPLE")
	for _, s := range stats {
		table.Append(
			strings.Join(s.Items, " + "),
			strconv.Itoa(s.TotalGames),
			strconv.Itoa(s.Wins),
			fmt.Sprintf("%.2f", s.WinRate),
			ciString(s.Wins, s.TotalGames),
			sampleFlag(s.TotalGames),
		)
	}
	table.Render()
}

// PrintSynergyTable prints the best teammates of one champion.
func PrintSynergyTable(w io.Writer, stats []model.TeammateStat, r icons.Resolver) {
	r = resolver(r)
	table := newTable(w)
	table.Header("TEAMMATE", "GAMES", "WINS", "WR%", "WR 95% CI", "ICON")
	for _, s := range stats {
		table.Append(
			s.Teammate,
			strconv.Itoa(s.GamesTogether),
			strconv.Itoa(s.Wins),
			fmt.Sprintf("%.2f", s.WinRate),
			ciString(s.Wins, s.GamesTogether),
			icon(r, icons.KindChampion, s.Teammate),
		)
	}
	table.Render()
}

// PrintDashboard prints every section of a champion dashboard.
// limit caps each table; zero prints everything.
func PrintDashboard(w io.Writer, d *model.Dashboard, limit int, r icons.Resolver) {
	PrintChampionSummary(w, d.Summary)

	fmt.Fprintln(w, "Items")
	PrintItemTable(w, head(d.Items, limit), r)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Summoner spells")
	PrintComboTable(w, head(d.Spells, limit), icons.KindSpell, r)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Runes")
	PrintComboTable(w, head(d.Runes, limit), icons.KindRune, r)
	fmt.Fprintln(w)
}

// PrintIconCounts prints the icon dictionary status.
func PrintIconCounts(w io.Writer, ix *icons.Index) {
	if ix == nil {
		fmt.Fprintln(w, "No icon dictionary stored. Run 'aramstats icons refresh'.")
		return
	}
	fmt.Fprintf(w, "\nVersion: %s  |  Locale: %s  |  Fetched: %s\n\n",
		ix.Version, ix.Locale, ix.FetchedAt.Local().Format("2006-01-02 15:04"))
	counts := ix.Count()
	table := newTable(w)
	table.Header("KIND", "ENTRIES")
	for _, k := range icons.Kinds {
		table.Append(string(k), strconv.Itoa(counts[k]))
	}
	table.Render()
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func resolver(r icons.Resolver) icons.Resolver {
	if r == nil {
		return icons.None
	}
	return r
}

func icon(r icons.Resolver, kind icons.Kind, name string) string {
	if url, ok := r.Lookup(kind, name); ok {
		return url
	}
	return Missing
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

func ciString(wins, n int) string {
	if n == 0 {
		return Missing
	}
	lo, hi := wilsonCI(wins, n)
	return fmt.Sprintf("%.0f–%.0f", lo*100, hi*100)
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
