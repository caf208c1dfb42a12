package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
)

var exportOut string

// dashboardExport is the JSON schema written by 'export'.
type dashboardExport struct {
	Champion     string        `json:"champion"`
	DatasetHash  string        `json:"dataset_hash"`
	GeneratedAt  string        `json:"generated_at"`
	GamesPlayed  int           `json:"games_played"`
	Wins         int           `json:"wins"`
	WinRate      float64       `json:"win_rate"`
	PickRate     float64       `json:"pick_rate"`
	TotalMatches int           `json:"total_matches"`
	Items        []exportItem  `json:"items"`
	Spells       []exportCombo `json:"spells"`
	Runes        []exportCombo `json:"runes"`
}

type exportItem struct {
	Item       string  `json:"item"`
	TotalPicks int     `json:"total_picks"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	PickRate   float64 `json:"pick_rate"`
	Icon       string  `json:"icon,omitempty"`
}

type exportCombo struct {
	First      string  `json:"first"`
	Second     string  `json:"second"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	PickRate   float64 `json:"pick_rate"`
	FirstIcon  string  `json:"first_icon,omitempty"`
	SecondIcon string  `json:"second_icon,omitempty"`
}

var exportCmd = &cobra.Command{
	Use:   "export <champion>",
	Short: "Export a champion dashboard as JSON",
	Long: `Write the champion summary with the full item, summoner spell and rune tables
as JSON, including icon URLs where the icon dictionary knows the name.

Example:
  aramstats export Ahri --out ahri.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	addSourceFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	d, err := aggregator.NewService(nil, log).Dashboard(ds, resolveChampion(ds.Table, args[0]))
	if err != nil {
		return err
	}
	out := buildExport(d, loadIcons(cmd.Context(), db), time.Now())

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	}
	return nil
}

func buildExport(d *model.Dashboard, r icons.Resolver, now time.Time) dashboardExport {
	url := func(kind icons.Kind, name string) string {
		u, _ := r.Lookup(kind, name)
		return u
	}
	out := dashboardExport{
		Champion:     d.Summary.Champion,
		DatasetHash:  d.DatasetHash,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		GamesPlayed:  d.Summary.GamesPlayed,
		Wins:         d.Summary.Wins,
		WinRate:      d.Summary.WinRate,
		PickRate:     d.Summary.PickRate,
		TotalMatches: d.Summary.TotalMatches,
		Items:        make([]exportItem, 0, len(d.Items)),
		Spells:       make([]exportCombo, 0, len(d.Spells)),
		Runes:        make([]exportCombo, 0, len(d.Runes)),
	}
	for _, s := range d.Items {
		out.Items = append(out.Items, exportItem{
			Item: s.Item, TotalPicks: s.TotalPicks, Wins: s.Wins,
			WinRate: s.WinRate, PickRate: s.PickRate, Icon: url(icons.KindItem, s.Item),
		})
	}
	combo := func(stats []model.ComboStat, kind icons.Kind) []exportCombo {
		res := make([]exportCombo, 0, len(stats))
		for _, s := range stats {
			res = append(res, exportCombo{
				First: s.First, Second: s.Second, TotalGames: s.TotalGames, Wins: s.Wins,
				WinRate: s.WinRate, PickRate: s.PickRate,
				FirstIcon: url(kind, s.First), SecondIcon: url(kind, s.Second),
			})
		}
		return res
	}
	out.Spells = combo(d.Spells, icons.KindSpell)
	out.Runes = combo(d.Runes, icons.KindRune)
	return out
}
