package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/aram-stats/internal/model"
)

// ErrMissingColumn matches any *MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s %q", ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Column name candidates, in order of preference.
var (
	matchIDColumns  = []string{"matchId", "match_id"}
	spellColumns    = [][2]string{{"spell1", "spell2"}, {"spell_1", "spell_2"}, {"spell1_name", "spell2_name"}}
	summonerColumns = []string{"summonerName", "summoner_name"}
	teamColumns     = []string{"teamId", "team_id"}
)

const (
	championColumn = "champion"
	winColumn      = "win"
	itemPrefix     = "item"
	runeCoreColumn = "rune_core"
	runeSubColumn  = "rune_sub"
)

// Schema maps logical fields to header positions. -1 means absent.
type Schema struct {
	MatchID, Champion, Win int
	Items                  []int
	ItemNames              []string
	Spell1, Spell2         int
	RuneCore, RuneSub      int
	Summoner, Team         int
	Kills, Deaths, Assists int
}

// ResolveSchema validates a header. Required columns are the match id,
// champion and win; everything else is optional.
func ResolveSchema(header []string) (*Schema, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	find := func(names ...string) int {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				return i
			}
		}
		return -1
	}

	s := &Schema{
		MatchID:  find(matchIDColumns...),
		Champion: find(championColumn),
		Win:      find(winColumn),
		Spell1:   -1,
		Spell2:   -1,
		RuneCore: find(runeCoreColumn),
		RuneSub:  find(runeSubColumn),
		Summoner: find(summonerColumns...),
		Team:     find(teamColumns...),
		Kills:    find("kills"),
		Deaths:   find("deaths"),
		Assists:  find("assists"),
	}
	switch {
	case s.MatchID < 0:
		return nil, &MissingColumnError{Column: strings.Join(matchIDColumns, "|")}
	case s.Champion < 0:
		return nil, &MissingColumnError{Column: championColumn}
	case s.Win < 0:
		return nil, &MissingColumnError{Column: winColumn}
	}

	for _, pair := range spellColumns {
		a, b := find(pair[0]), find(pair[1])
		if a >= 0 || b >= 0 {
			s.Spell1, s.Spell2 = a, b
			break
		}
	}
	for i, h := range header {
		if strings.HasPrefix(h, itemPrefix) {
			s.Items = append(s.Items, i)
			s.ItemNames = append(s.ItemNames, h)
		}
	}
	return s, nil
}

// Normalize validates raw and produces a typed table. Missing optional
// columns read as absent values and never drop rows.
func Normalize(raw *RawTable) (*model.Table, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil RawTable")
	}
	s, err := ResolveSchema(raw.Header)
	if err != nil {
		return nil, err
	}

	t := &model.Table{
		Rows: make([]model.Participant, 0, len(raw.Records)),
		Columns: model.Columns{
			ItemSlots: s.ItemNames,
			Spells:    s.Spell1 >= 0 || s.Spell2 >= 0,
			Runes:     s.RuneCore >= 0 || s.RuneSub >= 0,
			Summoner:  s.Summoner >= 0,
			Team:      s.Team >= 0,
			KDA:       s.Kills >= 0 && s.Deaths >= 0 && s.Assists >= 0,
		},
	}
	for _, rec := range raw.Records {
		t.Rows = append(t.Rows, s.row(rec))
	}
	return t, nil
}

func (s *Schema) row(rec []string) model.Participant {
	p := model.Participant{
		MatchID:  cell(rec, s.MatchID),
		Summoner: cell(rec, s.Summoner),
		TeamID:   cell(rec, s.Team),
		Champion: cell(rec, s.Champion),
		Win:      NormalizeWin(cell(rec, s.Win)),
		Spell1:   cell(rec, s.Spell1),
		Spell2:   cell(rec, s.Spell2),
		RuneCore: cell(rec, s.RuneCore),
		RuneSub:  cell(rec, s.RuneSub),
		Kills:    intCell(rec, s.Kills),
		Deaths:   intCell(rec, s.Deaths),
		Assists:  intCell(rec, s.Assists),
	}
	if len(s.Items) > 0 {
		p.Items = make([]string, len(s.Items))
		for i, col := range s.Items {
			p.Items[i] = cell(rec, col)
		}
	}
	return p
}

// NormalizeWin reports whether v is in the truthy vocabulary
// {"1", "true", "t", "yes"}, case-insensitively. Anything else is false.
func NormalizeWin(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes":
		return true
	}
	return false
}

// cell returns the trimmed value at i, or "" when the column is absent
// or the record is short.
func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func intCell(rec []string, i int) int {
	v := cell(rec, i)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	// pandas writes integer columns containing gaps as floats ("3.0").
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}
