package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/aram-stats/internal/aggregator"
	"github.com/pable/aram-stats/internal/model"
)

const analyzeSystemPrompt = `You are a League of Legends ARAM build analyst. You are given aggregated
statistics for one champion computed from a dataset of ARAM matches, and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers (games and win rate) when making a claim.
- Treat groups with fewer than 20 games as anecdotal and say so.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable.

Glossary:
- win_rate: wins / games * 100 for the group.
- pick_rate (items): item picks / distinct matches of this champion. Items are pooled across all slots.
- pick_rate (spells, runes): games with the pair / distinct matches of this champion.
- Spell pairs are ordered: (Flash, Mark) and (Mark, Flash) are different groups.
- teammates: win rate of this champion when the named champion was on the same team.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeTop    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <champion> <question>",
	Short: "AI-powered grounded analysis of one champion (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyze,
}

func init() {
	addSourceFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default analyze.model from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 15, "rows per table sent to the model")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := args[1]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadSource(db)
	if err != nil {
		return err
	}
	champ := resolveChampion(ds.Table, args[0])
	d, err := aggregator.NewService(nil, log).Dashboard(ds, champ)
	if err != nil {
		return err
	}
	if d.Summary.GamesPlayed == 0 {
		return fmt.Errorf("no games found for %q", champ)
	}

	var mates []model.TeammateStat
	if ds.Table.Columns.Team {
		mates = aggregator.TeammateSynergy(ds.Table, champ, analyzeTop)
	}
	contextJSON, err := buildChampionContext(d, mates, analyzeTop)
	if err != nil {
		return err
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.Analyze.Model
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, question)
}

// buildChampionContext serializes the dashboard into the JSON payload sent to the model.
func buildChampionContext(d *model.Dashboard, mates []model.TeammateStat, top int) (string, error) {
	type row map[string]any

	items := make([]row, 0, top)
	for _, s := range head(d.Items, top) {
		items = append(items, row{"item": s.Item, "games": s.TotalPicks, "win_rate": s.WinRate, "pick_rate": s.PickRate})
	}
	combos := func(stats []model.ComboStat) []row {
		out := make([]row, 0, top)
		for _, s := range head(stats, top) {
			out = append(out, row{"pair": []string{s.First, s.Second}, "games": s.TotalGames, "win_rate": s.WinRate, "pick_rate": s.PickRate})
		}
		return out
	}
	teammates := make([]row, 0, len(mates))
	for _, m := range mates {
		teammates = append(teammates, row{"champion": m.Teammate, "games": m.GamesTogether, "win_rate": m.WinRate})
	}

	payload := map[string]any{
		"champion":        d.Summary.Champion,
		"games":           d.Summary.GamesPlayed,
		"wins":            d.Summary.Wins,
		"win_rate":        d.Summary.WinRate,
		"pick_rate":       d.Summary.PickRate,
		"total_matches":   d.Summary.TotalMatches,
		"items":           items,
		"summoner_spells": combos(d.Spells),
		"runes":           combos(d.Runes),
	}
	if len(teammates) > 0 {
		payload["teammates"] = teammates
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}
	return string(b), nil
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY (or add it to .env) or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)
	log.Debug("calling anthropic", "model", modelID, "context_bytes", len(dataJSON))

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
