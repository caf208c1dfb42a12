// Package aggregator computes champion, item, summoner spell and rune
// statistics from a normalized participation table.
//
// Every function here is pure: it never mutates its input and returns the
// same result for the same table, so callers may run them concurrently.
package aggregator

import (
	"math"
	"sort"
	"strings"

	"github.com/pable/aram-stats/internal/model"
)

// tally accumulates games and wins for one group key.
type tally struct {
	games int
	wins  int
}

func (t *tally) add(win bool) {
	t.games++
	if win {
		t.wins++
	}
}

// ChampionSummary computes the headline numbers for champion.
//
// PickRate divides by the distinct match count of the whole table, not of
// the champion's rows. A champion that never appears yields all zeros.
func ChampionSummary(t *model.Table, champion string) model.ChampionSummary {
	out := model.ChampionSummary{Champion: champion, TotalMatches: t.MatchCount()}
	if t == nil {
		return out
	}
	for _, r := range t.Rows {
		if r.Champion != champion {
			continue
		}
		out.GamesPlayed++
		if r.Win {
			out.Wins++
		}
	}
	out.WinRate = percent(out.Wins, out.GamesPlayed)
	out.PickRate = percent(out.GamesPlayed, out.TotalMatches)
	return out
}

// ItemStats pools every item slot of every row and groups by item.
//
// Empty slots are skipped. An item present in two slots of one row counts
// twice. PickRate divides by the distinct match count of t, so a
// champion-filtered table gives rates relative to that champion's matches.
// PickRate has no upper bound: an item bought by all five players of a team
// in every match has a pick rate of 500. WinRate stays within [0, 100].
func ItemStats(t *model.Table) []model.ItemStat {
	groups := make(map[string]*tally)
	for _, r := range rows(t) {
		for _, item := range r.Items {
			if item == "" {
				continue
			}
			g := groups[item]
			if g == nil {
				g = &tally{}
				groups[item] = g
			}
			g.add(r.Win)
		}
	}

	matches := t.MatchCount()
	out := make([]model.ItemStat, 0, len(groups))
	for item, g := range groups {
		out = append(out, model.ItemStat{
			Item:       item,
			TotalPicks: g.games,
			Wins:       g.wins,
			WinRate:    percent(g.wins, g.games),
			PickRate:   percent(g.games, matches),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.TotalPicks != b.TotalPicks {
			return a.TotalPicks > b.TotalPicks
		}
		return a.Item < b.Item
	})
	return out
}

// FilterItems keeps only the stats whose item is in names, preserving order.
// Grouping is per item, so filtering after aggregation equals filtering rows first.
func FilterItems(stats []model.ItemStat, names []string) []model.ItemStat {
	allow := make(map[string]struct{}, len(names))
	for _, n := range names {
		allow[strings.TrimSpace(n)] = struct{}{}
	}
	out := make([]model.ItemStat, 0, len(names))
	for _, s := range stats {
		if _, ok := allow[s.Item]; ok {
			out = append(out, s)
		}
	}
	return out
}

// SpellComboStats groups rows by the literal (spell1, spell2) pair.
// (A, B) and (B, A) are different groups. Rows missing either spell are skipped.
// PickRate divides games by distinct matches of t, so on an unfiltered table
// it can exceed 100 (up to 100 per player in a match).
func SpellComboStats(t *model.Table) []model.SpellComboStat {
	return comboStats(t, func(r model.Participant) (string, string) {
		return r.Spell1, r.Spell2
	})
}

// RuneComboStats groups rows by the (rune_core, rune_sub) pair.
// Like SpellComboStats, PickRate can exceed 100 on an unfiltered table.
func RuneComboStats(t *model.Table) []model.RuneComboStat {
	return comboStats(t, func(r model.Participant) (string, string) {
		return r.RuneCore, r.RuneSub
	})
}

func comboStats(t *model.Table, key func(model.Participant) (string, string)) []model.ComboStat {
	type pair struct{ first, second string }
	groups := make(map[pair]*tally)
	for _, r := range rows(t) {
		a, b := key(r)
		if a == "" || b == "" {
			continue
		}
		k := pair{a, b}
		g := groups[k]
		if g == nil {
			g = &tally{}
			groups[k] = g
		}
		g.add(r.Win)
	}

	matches := t.MatchCount()
	out := make([]model.ComboStat, 0, len(groups))
	for k, g := range groups {
		out = append(out, model.ComboStat{
			First:      k.first,
			Second:     k.second,
			TotalGames: g.games,
			Wins:       g.wins,
			WinRate:    percent(g.wins, g.games),
			PickRate:   percent(g.games, matches),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		if a.First != b.First {
			return a.First < b.First
		}
		return a.Second < b.Second
	})
	return out
}

// ChampionStats aggregates every champion in the table.
func ChampionStats(t *model.Table) []model.ChampionStat {
	type acc struct {
		tally
		kills, deaths, assists int
	}
	groups := make(map[string]*acc)
	for _, r := range rows(t) {
		if r.Champion == "" {
			continue
		}
		g := groups[r.Champion]
		if g == nil {
			g = &acc{}
			groups[r.Champion] = g
		}
		g.add(r.Win)
		g.kills += r.Kills
		g.deaths += r.Deaths
		g.assists += r.Assists
	}

	matches := t.MatchCount()
	out := make([]model.ChampionStat, 0, len(groups))
	for champ, g := range groups {
		s := model.ChampionStat{
			Champion:   champ,
			TotalGames: g.games,
			Wins:       g.wins,
			WinRate:    percent(g.wins, g.games),
			PickRate:   percent(g.games, matches),
		}
		if t.Columns.KDA {
			s.AvgKDA = kda(g.kills, g.deaths, g.assists)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.Champion < b.Champion
	})
	return out
}

// CoreComboStats groups rows by the set of items in their first slots.
// Order inside the set is ignored; rows with no items in those slots are skipped.
func CoreComboStats(t *model.Table, slots int) []model.CoreComboStat {
	groups := make(map[string]*tally)
	sets := make(map[string][]string)
	for _, r := range rows(t) {
		var set []string
		for i := 0; i < slots && i < len(r.Items); i++ {
			if r.Items[i] != "" {
				set = append(set, r.Items[i])
			}
		}
		if len(set) == 0 {
			continue
		}
		sort.Strings(set)
		k := strings.Join(set, "|")
		g := groups[k]
		if g == nil {
			g = &tally{}
			groups[k] = g
			sets[k] = set
		}
		g.add(r.Win)
	}

	out := make([]model.CoreComboStat, 0, len(groups))
	for k, g := range groups {
		out = append(out, model.CoreComboStat{
			Items:      sets[k],
			TotalGames: g.games,
			Wins:       g.wins,
			WinRate:    percent(g.wins, g.games),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.Key() < b.Key()
	})
	return out
}

// TeammateSynergy returns the topN teammates of champion by win rate.
// Teammates share a match id and team id. Wins are counted from the
// champion's rows. Without a team column the result is empty.
func TeammateSynergy(t *model.Table, champion string, topN int) []model.TeammateStat {
	if t == nil || !t.Columns.Team {
		return []model.TeammateStat{}
	}

	type side struct{ match, team string }
	bySide := make(map[side][]model.Participant)
	for _, r := range t.Rows {
		k := side{r.MatchID, r.TeamID}
		bySide[k] = append(bySide[k], r)
	}

	groups := make(map[string]*tally)
	for _, members := range bySide {
		for _, self := range members {
			if self.Champion != champion {
				continue
			}
			for _, mate := range members {
				if mate.Champion == self.Champion {
					continue
				}
				g := groups[mate.Champion]
				if g == nil {
					g = &tally{}
					groups[mate.Champion] = g
				}
				g.add(self.Win)
			}
		}
	}

	out := make([]model.TeammateStat, 0, len(groups))
	for mate, g := range groups {
		out = append(out, model.TeammateStat{
			Teammate:      mate,
			GamesTogether: g.games,
			Wins:          g.wins,
			WinRate:       percent(g.wins, g.games),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.GamesTogether != b.GamesTogether {
			return a.GamesTogether > b.GamesTogether
		}
		return a.Teammate < b.Teammate
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Overview counts distinct matches, distinct players and rows.
func Overview(t *model.Table) model.Overview {
	ov := model.Overview{Matches: t.MatchCount(), Rows: t.Len()}
	if t == nil || !t.Columns.Summoner {
		return ov
	}
	players := make(map[string]struct{})
	for _, r := range t.Rows {
		if r.Summoner != "" {
			players[r.Summoner] = struct{}{}
		}
	}
	ov.Players = len(players)
	return ov
}

func rows(t *model.Table) []model.Participant {
	if t == nil {
		return nil
	}
	return t.Rows
}

// percent returns num/den*100 rounded to 2 decimals, or 0 when den is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round2(float64(num) / float64(den) * 100)
}

// kda returns (kills+assists)/deaths rounded to 2 decimals; deathless counts as one death.
func kda(kills, deaths, assists int) float64 {
	if deaths == 0 {
		deaths = 1
	}
	return round2(float64(kills+assists) / float64(deaths))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
