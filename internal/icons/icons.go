// Package icons maps display names of items, summoner spells, runes and
// champions to image URLs.
package icons

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Kind is the category a name belongs to.
type Kind string

const (
	KindItem     Kind = "item"
	KindSpell    Kind = "spell"
	KindRune     Kind = "rune"
	KindChampion Kind = "champion"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindItem, KindSpell, KindRune, KindChampion}

// ParseKind accepts the singular or plural form of a kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Resolver turns a name into an image URL. A miss is not an error.
type Resolver interface {
	Lookup(kind Kind, name string) (url string, ok bool)
}

// None resolves nothing.
var None Resolver = none{}

type none struct{}

func (none) Lookup(Kind, string) (string, bool) { return "", false }

// Entry is one named image.
type Entry struct {
	Kind  Kind
	ID    string // upstream id or key, e.g. "3006" or "SummonerFlash"
	Name  string // display name in the source locale
	Image string // upstream image file name or path
	URL   string
}

// NormalizeKey maps any string to the canonical lookup key: NFKC, case
// folded, with every rune that is not a letter or digit removed.
// "Berserker's Greaves", "berserkers greaves" and "BERSERKER’S-GREAVES"
// share a key, and Hangul names survive intact.
func NormalizeKey(s string) string {
	// Casers are stateful; one per call keeps NormalizeKey safe for concurrent use.
	s = cases.Fold().String(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Index is an icon dictionary for one upstream data version and locale.
// It is safe for concurrent use.
type Index struct {
	Version   string
	Locale    string
	FetchedAt time.Time

	mu      sync.RWMutex
	entries map[Kind]map[string]Entry
}

// NewIndex returns an empty index.
func NewIndex(version, locale string, fetchedAt time.Time) *Index {
	return &Index{
		Version:   version,
		Locale:    locale,
		FetchedAt: fetchedAt,
		entries:   make(map[Kind]map[string]Entry),
	}
}

// Add registers e under its normalized name and, when different, its id.
// The first entry for a key wins.
func (ix *Index) Add(e Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	m := ix.entries[e.Kind]
	if m == nil {
		m = make(map[string]Entry)
		ix.entries[e.Kind] = m
	}
	for _, raw := range []string{e.Name, e.ID} {
		k := NormalizeKey(raw)
		if k == "" {
			continue
		}
		if _, exists := m[k]; !exists {
			m[k] = e
		}
	}
}

// AddAll sorts entries into insertion order and adds them. Because the
// first entry for a key wins, this makes name collisions resolve the same
// way however the entries were fetched or loaded.
func (ix *Index) AddAll(entries []Entry) {
	SortEntries(entries)
	for _, e := range entries {
		ix.Add(e)
	}
}

// SortEntries orders entries by kind (in Kinds order), then numeric ids
// ascending, then remaining ids as strings. Base items such as "3006" thus
// precede their mode copies such as "223006".
func SortEntries(entries []Entry) {
	rank := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		rank[k] = i
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return rank[a.Kind] < rank[b.Kind]
		}
		na, errA := strconv.Atoi(a.ID)
		nb, errB := strconv.Atoi(b.ID)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				return na < nb
			}
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Name < b.Name
	})
}

// Get returns the entry for name.
func (ix *Index) Get(kind Kind, name string) (Entry, bool) {
	if ix == nil {
		return Entry{}, false
	}
	k := NormalizeKey(name)
	if k == "" {
		return Entry{}, false
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[kind][k]
	return e, ok
}

// Lookup implements Resolver.
func (ix *Index) Lookup(kind Kind, name string) (string, bool) {
	e, ok := ix.Get(kind, name)
	if !ok || e.URL == "" {
		return "", false
	}
	return e.URL, true
}

// Entries returns every distinct entry, grouped by kind in Kinds order.
func (ix *Index) Entries() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []Entry
	for _, kind := range Kinds {
		seen := make(map[Entry]struct{})
		var group []Entry
		for _, e := range ix.entries[kind] {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			group = append(group, e)
		}
		sort.Slice(group, func(i, j int) bool {
			if group[i].Name != group[j].Name {
				return group[i].Name < group[j].Name
			}
			return group[i].ID < group[j].ID
		})
		out = append(out, group...)
	}
	return out
}

// Count returns the number of distinct entries per kind.
func (ix *Index) Count() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range ix.Entries() {
		counts[e.Kind]++
	}
	return counts
}

// Stale reports whether the index is older than maxAge at now.
// A zero maxAge never goes stale.
func (ix *Index) Stale(now time.Time, maxAge time.Duration) bool {
	if ix == nil {
		return true
	}
	if maxAge <= 0 {
		return false
	}
	return now.Sub(ix.FetchedAt) > maxAge
}
