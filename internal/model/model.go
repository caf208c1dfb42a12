package model

import (
	"sort"
	"strings"
	"time"
)

// ---- Normalized input rows ----

// Participant is one player's record in one ARAM match.
type Participant struct {
	MatchID  string
	Summoner string // empty when the CSV has no summonerName column
	TeamID   string // empty when the CSV has no teamId column
	Champion string
	Win      bool

	// Items holds one entry per item slot column, in header order.
	// An empty string marks an empty slot.
	Items []string

	Spell1, Spell2    string // order as given, never canonicalized
	RuneCore, RuneSub string

	Kills, Deaths, Assists int
}

// Columns records which optional columns were present in the source header.
type Columns struct {
	ItemSlots []string // item column names in header order
	Spells    bool
	Runes     bool
	Summoner  bool
	Team      bool
	KDA       bool
}

// Table is a validated, normalized set of participant rows.
type Table struct {
	Rows    []Participant
	Columns Columns
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// MatchCount returns the number of distinct match ids.
func (t *Table) MatchCount() int {
	if t == nil {
		return 0
	}
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		seen[r.MatchID] = struct{}{}
	}
	return len(seen)
}

// FilterChampion returns a new table holding only the rows for champion.
// The receiver is not modified.
func (t *Table) FilterChampion(champion string) *Table {
	out := &Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if r.Champion == champion {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Champions returns the distinct champion names, sorted.
func (t *Table) Champions() []string {
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		if r.Champion == "" {
			continue
		}
		seen[r.Champion] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dataset is a normalized table together with its identity.
// Hash is the SHA-256 of the source bytes and versions the data for caching.
type Dataset struct {
	Hash   string
	Source string
	Table  *Table
}

// DatasetInfo is the stored metadata of an imported dataset.
type DatasetInfo struct {
	Hash       string
	Source     string
	Rows       int
	Matches    int
	Champions  int
	ImportedAt time.Time
}

// ---- Derived statistics ----

// ChampionSummary is the headline block for one champion.
// PickRate is relative to every match in the dataset, not just the champion's.
type ChampionSummary struct {
	Champion     string
	GamesPlayed  int
	Wins         int
	WinRate      float64
	PickRate     float64
	TotalMatches int
}

// ItemStat aggregates one item across all pooled item slots.
type ItemStat struct {
	Item       string
	TotalPicks int
	Wins       int
	WinRate    float64
	PickRate   float64
}

// ComboStat aggregates one ordered pair (summoner spells or runes).
type ComboStat struct {
	First      string
	Second     string
	TotalGames int
	Wins       int
	WinRate    float64
	PickRate   float64
}

// SpellComboStat groups by (spell1, spell2).
type SpellComboStat = ComboStat

// RuneComboStat groups by (rune_core, rune_sub).
type RuneComboStat = ComboStat

// ChampionStat is one row of the all-champions table.
type ChampionStat struct {
	Champion   string
	TotalGames int
	Wins       int
	WinRate    float64
	PickRate   float64
	AvgKDA     float64 // 0 when the dataset has no kills/deaths/assists columns
}

// CoreComboStat aggregates an order-insensitive set of early item slots.
type CoreComboStat struct {
	Items      []string
	TotalGames int
	Wins       int
	WinRate    float64
}

// Key joins the core set with "|", matching how sets are grouped.
func (c CoreComboStat) Key() string {
	return strings.Join(c.Items, "|")
}

// TeammateStat is win rate of a champion when paired with a teammate.
type TeammateStat struct {
	Teammate      string
	GamesTogether int
	Wins          int
	WinRate       float64
}

// Overview summarizes a dataset.
type Overview struct {
	Matches int
	Players int
	Rows    int
}

// Dashboard is everything shown for one selected champion.
type Dashboard struct {
	DatasetHash string
	Summary     ChampionSummary
	Items       []ItemStat
	Spells      []SpellComboStat
	Runes       []RuneComboStat
}
