package icons

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Berserker's Greaves":   "berserkersgreaves",
		"BERSERKER’S-GREAVES":   "berserkersgreaves",
		"  berserkers greaves ": "berserkersgreaves",
		"광전사의 군화":              "광전사의군화",
		"Ｆｌａｓｈ":                "flash",
		"":                      "",
		"!!!":                   "",
		"Item 3006":             "item3006",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeKey(in), "NormalizeKey(%q)", in)
	}
}

func TestIndex_LookupByNameAndID(t *testing.T) {
	ix := NewIndex("14.24.1", "en_US", time.Now())
	ix.Add(Entry{Kind: KindItem, ID: "3006", Name: "Berserker's Greaves", Image: "3006.png", URL: "https://cdn/3006.png"})
	ix.Add(Entry{Kind: KindSpell, ID: "SummonerFlash", Name: "Flash", Image: "SummonerFlash.png", URL: "https://cdn/flash.png"})

	url, ok := ix.Lookup(KindItem, "berserkers greaves")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/3006.png", url)

	url, ok = ix.Lookup(KindItem, "3006")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/3006.png", url)

	_, ok = ix.Lookup(KindSpell, "Berserker's Greaves")
	assert.False(t, ok, "kinds are separate namespaces")

	_, ok = ix.Lookup(KindSpell, "Ghost")
	assert.False(t, ok)

	_, ok = ix.Lookup(KindItem, "")
	assert.False(t, ok)
}

func TestIndex_FirstEntryWins(t *testing.T) {
	ix := NewIndex("v", "en_US", time.Now())
	ix.Add(Entry{Kind: KindRune, ID: "8100", Name: "Domination", URL: "tree"})
	ix.Add(Entry{Kind: KindRune, ID: "9999", Name: "Domination", URL: "other"})

	url, ok := ix.Lookup(KindRune, "Domination")
	require.True(t, ok)
	assert.Equal(t, "tree", url)
	assert.Equal(t, 2, ix.Count()[KindRune])
}

func TestIndex_EntriesDistinctAndSorted(t *testing.T) {
	ix := NewIndex("v", "en_US", time.Now())
	ix.Add(Entry{Kind: KindItem, ID: "2", Name: "Zeal"})
	ix.Add(Entry{Kind: KindItem, ID: "1", Name: "Amp"})
	ix.Add(Entry{Kind: KindChampion, ID: "Ahri", Name: "Ahri"})

	entries := ix.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Amp", entries[0].Name)
	assert.Equal(t, "Zeal", entries[1].Name)
	assert.Equal(t, KindChampion, entries[2].Kind)
}

func TestNilIndexAndNone(t *testing.T) {
	var ix *Index
	_, ok := ix.Lookup(KindItem, "anything")
	assert.False(t, ok)
	assert.True(t, ix.Stale(time.Now(), time.Hour))

	_, ok = None.Lookup(KindItem, "anything")
	assert.False(t, ok)
}

func TestStale(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	ix := NewIndex("v", "en_US", now.Add(-48*time.Hour))
	assert.True(t, ix.Stale(now, 24*time.Hour))
	assert.False(t, ix.Stale(now, 72*time.Hour))
	assert.False(t, ix.Stale(now, 0))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Items")
	require.True(t, ok)
	assert.Equal(t, KindItem, k)

	k, ok = ParseKind("rune")
	require.True(t, ok)
	assert.Equal(t, KindRune, k)

	_, ok = ParseKind("shard")
	assert.False(t, ok)
}

func TestAddAll_NameCollisionIsOrderIndependent(t *testing.T) {
	base := Entry{Kind: KindItem, ID: "3006", Name: "Berserker's Greaves", URL: "https://cdn/3006.png"}
	arena := Entry{Kind: KindItem, ID: "223006", Name: "Berserker's Greaves", URL: "https://cdn/223006.png"}

	for _, order := range [][]Entry{{base, arena}, {arena, base}} {
		ix := NewIndex("14.1.1", "en_US", time.Now())
		ix.AddAll(order)
		url, ok := ix.Lookup(KindItem, "Berserker's Greaves")
		require.True(t, ok)
		assert.Equal(t, "https://cdn/3006.png", url)

		url, ok = ix.Lookup(KindItem, "223006")
		require.True(t, ok)
		assert.Equal(t, "https://cdn/223006.png", url)
	}
}

func TestSortEntries(t *testing.T) {
	entries := []Entry{
		{Kind: KindSpell, ID: "SummonerFlash"},
		{Kind: KindItem, ID: "223006"},
		{Kind: KindSpell, ID: "4"},
		{Kind: KindItem, ID: "3006"},
		{Kind: KindItem, ID: "1001"},
	}
	SortEntries(entries)
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"1001", "3006", "223006", "4", "SummonerFlash"}, ids)
}
