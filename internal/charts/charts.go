// Package charts renders win-rate bar charts as standalone HTML pages.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pable/aram-stats/internal/model"
)

// Config holds the presentation settings shared by every chart.
type Config struct {
	Width  string // e.g. "900px"
	Height string
	Theme  string
	Limit  int // bars per chart; zero keeps every group
	Colors []string
}

// DefaultConfig returns the default chart configuration.
func DefaultConfig() Config {
	return Config{
		Width:  "1000px",
		Height: "480px",
		Theme:  "light",
		Limit:  15,
		Colors: []string{"#5470C6", "#91CC75"},
	}
}

// Bar is one group on the x axis.
type Bar struct {
	Label    string
	WinRate  float64
	PickRate float64
	Games    int
}

// ItemBars converts item stats to bars.
func ItemBars(stats []model.ItemStat) []Bar {
	out := make([]Bar, len(stats))
	for i, s := range stats {
		out[i] = Bar{Label: s.Item, WinRate: s.WinRate, PickRate: s.PickRate, Games: s.TotalPicks}
	}
	return out
}

// ComboBars converts spell or rune pair stats to bars labelled "first / second".
func ComboBars(stats []model.ComboStat) []Bar {
	out := make([]Bar, len(stats))
	for i, s := range stats {
		out[i] = Bar{Label: s.First + " / " + s.Second, WinRate: s.WinRate, PickRate: s.PickRate, Games: s.TotalGames}
	}
	return out
}

// ChampionBars converts champion stats to bars.
func ChampionBars(stats []model.ChampionStat) []Bar {
	out := make([]Bar, len(stats))
	for i, s := range stats {
		out[i] = Bar{Label: s.Champion, WinRate: s.WinRate, PickRate: s.PickRate, Games: s.TotalGames}
	}
	return out
}

// WinRateChart builds a grouped bar chart of win rate and pick rate.
func WinRateChart(title, subtitle string, bars []Bar, cfg Config) *charts.Bar {
	if cfg.Limit > 0 && len(bars) > cfg.Limit {
		bars = bars[:cfg.Limit]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     cfg.Width,
			Height:    cfg.Height,
			Theme:     cfg.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "%",
		}),
		charts.WithColorsOpts(opts.Colors(cfg.Colors)),
	)

	labels := make([]string, len(bars))
	win := make([]opts.BarData, len(bars))
	pick := make([]opts.BarData, len(bars))
	for i, b := range bars {
		labels[i] = b.Label
		win[i] = opts.BarData{Name: fmt.Sprintf("%s (%d games)", b.Label, b.Games), Value: b.WinRate}
		pick[i] = opts.BarData{Value: b.PickRate}
	}

	bar.SetXAxis(labels).
		AddSeries("Win rate", win).
		AddSeries("Pick rate", pick).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)
	return bar
}

// RenderDashboard writes an HTML page with item, spell and rune charts for
// one champion dashboard.
func RenderDashboard(w io.Writer, d *model.Dashboard, cfg Config) error {
	if d == nil {
		return fmt.Errorf("render dashboard: nil dashboard")
	}
	sub := fmt.Sprintf("%s: %d games, %.2f%% win rate", d.Summary.Champion, d.Summary.GamesPlayed, d.Summary.WinRate)

	page := components.NewPage()
	page.PageTitle = d.Summary.Champion + " ARAM stats"
	page.AddCharts(
		WinRateChart("Items", sub, ItemBars(d.Items), cfg),
		WinRateChart("Summoner spells", sub, ComboBars(d.Spells), cfg),
		WinRateChart("Runes", sub, ComboBars(d.Runes), cfg),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

// RenderChampions writes an HTML page with the all-champions chart.
func RenderChampions(w io.Writer, stats []model.ChampionStat, cfg Config) error {
	bar := WinRateChart("Champions", fmt.Sprintf("%d champions", len(stats)), ChampionBars(stats), cfg)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render champions: %w", err)
	}
	return nil
}
