package aggregator

import (
	"fmt"
	"log/slog"

	"github.com/pable/aram-stats/internal/cache"
	"github.com/pable/aram-stats/internal/model"
)

// Service memoizes per-champion dashboards in an injected store, keyed on
// the dataset hash and the champion.
type Service struct {
	store cache.Store[*model.Dashboard]
	log   *slog.Logger
}

// NewService returns a Service backed by store. A nil store disables memoization.
func NewService(store cache.Store[*model.Dashboard], log *slog.Logger) *Service {
	if store == nil {
		store = cache.Nop[*model.Dashboard]{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// Dashboard returns the summary, item, spell and rune tables for champion.
// Item, spell and rune rates are relative to the champion's own matches.
// The returned value is shared with the cache and must not be modified.
func (s *Service) Dashboard(ds *model.Dataset, champion string) (*model.Dashboard, error) {
	if ds == nil || ds.Table == nil {
		return nil, fmt.Errorf("dashboard: nil dataset")
	}
	key := cache.Key{Source: ds.Hash, Params: champion}
	if d, ok := s.store.Get(key); ok {
		s.log.Debug("dashboard cache hit", "key", key.String())
		return d, nil
	}

	sub := ds.Table.FilterChampion(champion)
	d := &model.Dashboard{
		DatasetHash: ds.Hash,
		Summary:     ChampionSummary(ds.Table, champion),
		Items:       ItemStats(sub),
		Spells:      SpellComboStats(sub),
		Runes:       RuneComboStats(sub),
	}
	s.store.Put(key, d)
	s.log.Debug("dashboard computed", "key", key.String(), "rows", sub.Len())
	return d, nil
}

// Invalidate drops every cached dashboard of ds.
func (s *Service) Invalidate(ds *model.Dataset) int {
	if ds == nil {
		return 0
	}
	n := s.store.Invalidate(ds.Hash)
	s.log.Debug("dashboard cache invalidated", "dataset", ds.Hash, "entries", n)
	return n
}

// Purge drops every cached dashboard of every dataset and returns how many were held.
func (s *Service) Purge() int {
	n := s.store.Len()
	s.store.Purge()
	s.log.Debug("dashboard cache purged", "entries", n)
	return n
}

// Cached reports how many dashboards are currently held.
func (s *Service) Cached() int {
	return s.store.Len()
}
