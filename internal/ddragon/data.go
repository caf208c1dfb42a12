package ddragon

import (
	"context"
	"fmt"
	"time"

	"github.com/pable/aram-stats/internal/icons"
)

// imageRef is the image block shared by items, spells and champions.
type imageRef struct {
	Full string `json:"full"`
}

type namedData struct {
	ID    string   `json:"id"`
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Image imageRef `json:"image"`
}

type runeTree struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Icon  string `json:"icon"`
	Name  string `json:"name"`
	Slots []struct {
		Runes []struct {
			ID   int    `json:"id"`
			Key  string `json:"key"`
			Icon string `json:"icon"`
			Name string `json:"name"`
		} `json:"runes"`
	} `json:"slots"`
}

// LatestVersion returns the newest published data version.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	var versions []string
	if err := c.get(ctx, "/api/versions.json", &versions); err != nil {
		return "", fmt.Errorf("fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("fetch versions: no versions available")
	}
	return versions[0], nil
}

// Items returns every item of version in locale.
func (c *Client) Items(ctx context.Context, version, locale string) ([]icons.Entry, error) {
	var resp struct {
		Data map[string]namedData `json:"data"`
	}
	if err := c.get(ctx, dataPath(version, locale, "item.json"), &resp); err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	out := make([]icons.Entry, 0, len(resp.Data))
	for id, it := range resp.Data {
		out = append(out, icons.Entry{
			Kind:  icons.KindItem,
			ID:    id,
			Name:  it.Name,
			Image: it.Image.Full,
			URL:   c.imageURL(version, "item", it.Image.Full),
		})
	}
	return out, nil
}

// SummonerSpells returns every summoner spell. Spells are registered under
// their numeric key as well, since match data usually carries spell ids.
func (c *Client) SummonerSpells(ctx context.Context, version, locale string) ([]icons.Entry, error) {
	var resp struct {
		Data map[string]namedData `json:"data"`
	}
	if err := c.get(ctx, dataPath(version, locale, "summoner.json"), &resp); err != nil {
		return nil, fmt.Errorf("fetch summoner spells: %w", err)
	}
	out := make([]icons.Entry, 0, 2*len(resp.Data))
	for id, sp := range resp.Data {
		e := icons.Entry{
			Kind:  icons.KindSpell,
			ID:    id,
			Name:  sp.Name,
			Image: sp.Image.Full,
			URL:   c.imageURL(version, "spell", sp.Image.Full),
		}
		out = append(out, e)
		if sp.Key != "" {
			e.ID = sp.Key
			out = append(out, e)
		}
	}
	return out, nil
}

// Runes returns every rune tree and rune. Trees are included because
// secondary rune columns usually hold the tree name.
func (c *Client) Runes(ctx context.Context, version, locale string) ([]icons.Entry, error) {
	var trees []runeTree
	if err := c.get(ctx, dataPath(version, locale, "runesReforged.json"), &trees); err != nil {
		return nil, fmt.Errorf("fetch runes: %w", err)
	}
	var out []icons.Entry
	for _, tree := range trees {
		out = append(out, icons.Entry{
			Kind:  icons.KindRune,
			ID:    fmt.Sprintf("%d", tree.ID),
			Name:  tree.Name,
			Image: tree.Icon,
			URL:   c.baseURL + "/cdn/img/" + tree.Icon,
		})
		for _, slot := range tree.Slots {
			for _, r := range slot.Runes {
				out = append(out, icons.Entry{
					Kind:  icons.KindRune,
					ID:    fmt.Sprintf("%d", r.ID),
					Name:  r.Name,
					Image: r.Icon,
					URL:   c.baseURL + "/cdn/img/" + r.Icon,
				})
			}
		}
	}
	return out, nil
}

// Champions returns every champion.
func (c *Client) Champions(ctx context.Context, version, locale string) ([]icons.Entry, error) {
	var resp struct {
		Data map[string]namedData `json:"data"`
	}
	if err := c.get(ctx, dataPath(version, locale, "champion.json"), &resp); err != nil {
		return nil, fmt.Errorf("fetch champions: %w", err)
	}
	out := make([]icons.Entry, 0, len(resp.Data))
	for id, ch := range resp.Data {
		out = append(out, icons.Entry{
			Kind:  icons.KindChampion,
			ID:    id, // "MonkeyKing" for Wukong
			Name:  ch.Name,
			Image: ch.Image.Full,
			URL:   c.imageURL(version, "champion", ch.Image.Full),
		})
	}
	return out, nil
}

// BuildIndex fetches every category and assembles an icon dictionary.
// An empty version or "latest" resolves to the newest version.
func (c *Client) BuildIndex(ctx context.Context, version, locale string) (*icons.Index, error) {
	if version == "" || version == "latest" {
		v, err := c.LatestVersion(ctx)
		if err != nil {
			return nil, err
		}
		version = v
	}

	ix := icons.NewIndex(version, locale, time.Now())
	fetchers := []func(context.Context, string, string) ([]icons.Entry, error){
		c.Items, c.SummonerSpells, c.Runes, c.Champions,
	}
	var all []icons.Entry
	for _, fetch := range fetchers {
		entries, err := fetch(ctx, version, locale)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	// upstream data is keyed by id in JSON objects; fix the order before adding
	ix.AddAll(all)
	c.log.Info("icon index built", "version", version, "locale", locale, "entries", len(ix.Entries()))
	return ix, nil
}

func dataPath(version, locale, file string) string {
	return fmt.Sprintf("/cdn/%s/data/%s/%s", version, locale, file)
}

func (c *Client) imageURL(version, group, file string) string {
	if file == "" {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/%s/%s", c.baseURL, version, group, file)
}
