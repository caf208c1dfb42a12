package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pable/aram-stats/internal/icons"
	"github.com/pable/aram-stats/internal/model"
	"github.com/pable/aram-stats/internal/storage"
)

const sampleCSV = `matchId,teamId,champion,win,item0,item1,spell1,spell2,rune_core,rune_sub
m1,100,Miss Fortune,True,Kraken Slayer,,Flash,Mark,Lethal Tempo,Precision
m1,100,Lux,True,Luden's Companion,,Flash,Mark,Arcane Comet,Sorcery
m2,200,Miss Fortune,False,Kraken Slayer,Berserker's Greaves,Flash,Heal,Lethal Tempo,Precision
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aram.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func memDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func withSource(t *testing.T, csv, prefix string) {
	t.Helper()
	oldCSV, oldDS, oldCfg := srcCSV, srcDataset, cfg
	srcCSV, srcDataset = csv, prefix
	t.Cleanup(func() { srcCSV, srcDataset, cfg = oldCSV, oldDS, oldCfg })
}

// ---- Source resolution tests ----

func TestLoadSource_CSVFlag(t *testing.T) {
	withSource(t, writeCSV(t), "")
	ds, err := loadSource(memDB(t))
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if ds.Table.Len() != 3 {
		t.Errorf("rows = %d, want 3", ds.Table.Len())
	}
}

func TestLoadSource_StoredByPrefixAndLatest(t *testing.T) {
	db := memDB(t)
	withSource(t, "", "")

	if _, err := loadSource(db); err == nil {
		t.Fatal("expected error with empty store and no flags")
	}

	withSource(t, writeCSV(t), "")
	ds, err := loadSource(db)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if err := db.InsertDataset(ds, time.Now()); err != nil {
		t.Fatalf("InsertDataset: %v", err)
	}

	withSource(t, "", ds.Hash[:8])
	got, err := loadSource(db)
	if err != nil {
		t.Fatalf("loadSource by prefix: %v", err)
	}
	if got.Hash != ds.Hash {
		t.Errorf("hash = %s, want %s", got.Hash, ds.Hash)
	}

	withSource(t, "", "")
	latest, err := loadSource(db)
	if err != nil {
		t.Fatalf("loadSource latest: %v", err)
	}
	if latest.Hash != ds.Hash {
		t.Errorf("latest hash = %s, want %s", latest.Hash, ds.Hash)
	}

	withSource(t, "", "ffffffff")
	if _, err := loadSource(db); err == nil {
		t.Error("expected error for unknown prefix")
	}
}

func TestSourceFile_ConfiguredCSV(t *testing.T) {
	path := writeCSV(t)
	withSource(t, "", "")

	cfg.Data.CSV = path
	if got := sourceFile(); got != path {
		t.Errorf("sourceFile = %q, want %q", got, path)
	}
	cfg.Data.CSV = filepath.Join(t.TempDir(), "missing.csv")
	if got := sourceFile(); got != "" {
		t.Errorf("missing configured file should be ignored, got %q", got)
	}
}

// ---- Helper tests ----

func TestResolveChampion(t *testing.T) {
	table := &model.Table{Rows: []model.Participant{{Champion: "Miss Fortune"}, {Champion: "Kai'Sa"}}}
	cases := map[string]string{
		"Miss Fortune": "Miss Fortune",
		"missfortune":  "Miss Fortune",
		"KAISA":        "Kai'Sa",
		"Teemo":        "Teemo",
	}
	for in, want := range cases {
		if got := resolveChampion(table, in); got != want {
			t.Errorf("resolveChampion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, b ,,c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("splitList = %q", got)
	}
	if len(splitList("")) != 0 {
		t.Error("empty input should give no items")
	}
}

func TestBuildExport(t *testing.T) {
	ix := icons.NewIndex("14.1.1", "en_US", time.Now())
	ix.Add(icons.Entry{Kind: icons.KindSpell, ID: "SummonerFlash", Name: "Flash", URL: "https://cdn/flash.png"})

	d := &model.Dashboard{
		DatasetHash: "abc",
		Summary:     model.ChampionSummary{Champion: "Lux", GamesPlayed: 2, Wins: 1, WinRate: 50, PickRate: 100, TotalMatches: 2},
		Items:       []model.ItemStat{{Item: "Luden's Companion", TotalPicks: 2, Wins: 1, WinRate: 50, PickRate: 100}},
		Spells:      []model.ComboStat{{First: "Flash", Second: "Mark", TotalGames: 2, Wins: 1, WinRate: 50, PickRate: 100}},
	}
	out := buildExport(d, ix, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	if out.GeneratedAt != "2025-01-01T00:00:00Z" {
		t.Errorf("GeneratedAt = %s", out.GeneratedAt)
	}
	if out.Spells[0].FirstIcon != "https://cdn/flash.png" || out.Spells[0].SecondIcon != "" {
		t.Errorf("spell icons = %+v", out.Spells[0])
	}
	if out.Runes == nil || len(out.Runes) != 0 {
		t.Errorf("runes should be an empty, non-nil slice: %#v", out.Runes)
	}

	b, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"runes":[]`) {
		t.Errorf("expected empty runes array in %s", b)
	}
	if strings.Contains(string(b), `"icon":""`) {
		t.Errorf("missing icons should be omitted: %s", b)
	}
}

func TestBuildChampionContext(t *testing.T) {
	d := &model.Dashboard{
		Summary: model.ChampionSummary{Champion: "Lux", GamesPlayed: 2},
		Items:   []model.ItemStat{{Item: "a"}, {Item: "b"}, {Item: "c"}},
	}
	js, err := buildChampionContext(d, nil, 2)
	if err != nil {
		t.Fatalf("buildChampionContext: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(js), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if items := payload["items"].([]any); len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
	if _, ok := payload["teammates"]; ok {
		t.Error("teammates should be omitted when empty")
	}
}

// ---- Icon refresh tests ----

func TestShouldRefreshIcons(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fresh := icons.NewIndex("14.1.1", "en_US", now.Add(-time.Hour))
	stale := icons.NewIndex("14.1.1", "en_US", now.Add(-48*time.Hour))

	tests := []struct {
		name        string
		ix          *icons.Index
		lastFailure time.Time
		want        bool
	}{
		{"fresh dictionary", fresh, time.Time{}, false},
		{"stale dictionary", stale, time.Time{}, true},
		{"no dictionary", nil, time.Time{}, true},
		{"no dictionary, recent failure", nil, now.Add(-5 * time.Minute), false},
		{"stale dictionary, recent failure", stale, now.Add(-59 * time.Minute), false},
		{"no dictionary, old failure", nil, now.Add(-iconRetryAfter), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldRefreshIcons(tc.ix, tc.lastFailure, now, 24*time.Hour); got != tc.want {
				t.Errorf("shouldRefreshIcons = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoadIcons_RecentFailureSkipsFetch(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	withSource(t, "", "")
	oldOffline := offline
	offline = false
	t.Cleanup(func() { offline = oldOffline })
	cfg.Icons.BaseURL = srv.URL

	db := memDB(t)
	if err := db.RecordIconRefreshFailure(time.Now().Add(-10 * time.Minute)); err != nil {
		t.Fatalf("RecordIconRefreshFailure: %v", err)
	}

	r := loadIcons(context.Background(), db)
	if r != icons.None {
		t.Errorf("expected the empty resolver without a stored dictionary, got %T", r)
	}
	if hits != 0 {
		t.Errorf("expected no request within the retry window, got %d", hits)
	}
}

func TestLoadIcons_FailedFetchIsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	withSource(t, "", "")
	oldOffline := offline
	offline = false
	t.Cleanup(func() { offline = oldOffline })
	cfg.Icons.BaseURL = srv.URL

	db := memDB(t)
	before := time.Now().Add(-time.Second)
	loadIcons(context.Background(), db)

	at, err := db.LastIconRefreshFailure()
	if err != nil {
		t.Fatalf("LastIconRefreshFailure: %v", err)
	}
	if at.Before(before) {
		t.Errorf("expected a recorded failure after %v, got %v", before, at)
	}
}
