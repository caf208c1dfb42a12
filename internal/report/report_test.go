package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
)

func testIndex() *icons.Index {
	ix := icons.NewIndex("14.1.1", "en_US", time.Now())
	ix.Add(icons.Entry{Kind: icons.KindItem, ID: "3006", Name: "Berserker's Greaves", URL: "https://cdn/3006.png"})
	ix.Add(icons.Entry{Kind: icons.KindSpell, ID: "SummonerFlash", Name: "Flash", URL: "https://cdn/flash.png"})
	return ix
}

func TestPrintItemTableIcons(t *testing.T) {
	var buf bytes.Buffer
	PrintItemTable(&buf, []model.ItemStat{
		{Item: "berserkers greaves", TotalPicks: 60, Wins: 33, WinRate: 55, PickRate: 60},
		{Item: "Unknown Relic", TotalPicks: 3, Wins: 1, WinRate: 33.33, PickRate: 3},
	}, testIndex())

	out := buf.String()
	assert.Contains(t, out, "https://cdn/3006.png")
	assert.Contains(t, out, "55.00")
	assert.Contains(t, out, "VERY_LOW")
	assert.Contains(t, out, "OK")

	lines := strings.Split(out, "\n")
	var relic string
	for _, l := range lines {
		if strings.Contains(l, "Unknown Relic") {
			relic = l
		}
	}
	require.NotEmpty(t, relic)
	assert.Contains(t, relic, Missing)
}

func TestPrintItemTableNilResolver(t *testing.T) {
	var buf bytes.Buffer
	assert.NotPanics(t, func() {
		PrintItemTable(&buf, []model.ItemStat{{Item: "A", TotalPicks: 1}}, nil)
	})
	assert.Contains(t, buf.String(), Missing)
}

func TestPrintComboTable(t *testing.T) {
	var buf bytes.Buffer
	PrintComboTable(&buf, []model.ComboStat{
		{First: "Flash", Second: "Mark", TotalGames: 25, Wins: 15, WinRate: 60, PickRate: 50},
	}, icons.KindSpell, testIndex())

	out := buf.String()
	assert.Contains(t, out, "Flash")
	assert.Contains(t, out, "Mark")
	assert.Contains(t, out, "https://cdn/flash.png")
	assert.Contains(t, out, "LOW")
}

func TestPrintChampionTableKDA(t *testing.T) {
	stats := []model.ChampionStat{{Champion: "Ahri", TotalGames: 2, Wins: 1, WinRate: 50, PickRate: 100, AvgKDA: 2.4}}

	var with bytes.Buffer
	PrintChampionTable(&with, stats, true, nil)
	assert.Contains(t, with.String(), "2.40")

	var without bytes.Buffer
	PrintChampionTable(&without, stats, false, nil)
	assert.NotContains(t, without.String(), "2.40")
}

func TestPrintOverviewAndSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, "0123456789abcdef", model.Overview{Matches: 3, Rows: 30})
	assert.Contains(t, buf.String(), "0123456789ab ")
	assert.Contains(t, buf.String(), "Players: "+Missing)

	buf.Reset()
	PrintChampionSummary(&buf, model.ChampionSummary{Champion: "Ahri", GamesPlayed: 2, Wins: 1, WinRate: 50, PickRate: 66.67, TotalMatches: 3})
	assert.Contains(t, buf.String(), "Win rate: 50.00%")
	assert.Contains(t, buf.String(), "66.67% of 3 matches")
}

func TestPrintDashboardLimit(t *testing.T) {
	d := &model.Dashboard{
		Summary: model.ChampionSummary{Champion: "Ahri"},
		Items: []model.ItemStat{
			{Item: "first-item", TotalPicks: 1},
			{Item: "second-item", TotalPicks: 1},
		},
	}
	var buf bytes.Buffer
	PrintDashboard(&buf, d, 1, nil)
	assert.Contains(t, buf.String(), "first-item")
	assert.NotContains(t, buf.String(), "second-item")
}

func TestPrintIconCounts(t *testing.T) {
	var buf bytes.Buffer
	PrintIconCounts(&buf, nil)
	assert.Contains(t, buf.String(), "icons refresh")

	buf.Reset()
	PrintIconCounts(&buf, testIndex())
	assert.Contains(t, buf.String(), "14.1.1")
	assert.Contains(t, buf.String(), "champion")
}

func TestWilsonCI(t *testing.T) {
	lo, hi := wilsonCI(0, 0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = wilsonCI(50, 100)
	assert.InDelta(t, 0.404, lo, 0.001)
	assert.InDelta(t, 0.596, hi, 0.001)

	lo, hi = wilsonCI(10, 10)
	assert.Less(t, lo, 1.0)
	assert.InDelta(t, 1.0, hi, 1e-9)
}

func TestSampleFlag(t *testing.T) {
	assert.Equal(t, "VERY_LOW", sampleFlag(19))
	assert.Equal(t, "LOW", sampleFlag(20))
	assert.Equal(t, "OK", sampleFlag(50))
}
