package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debatelab/debatesearch/internal/backend"
	"github.com/debatelab/debatesearch/services"
)

var (
	searchK    int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a ranked keyword query against the search backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	b := backend.NewHTTP(cfg.Backend.URL, cfg.Backend.Timeout)

	result, err := b.Search(cmd.Context(), services.SearchQuery{Query: args[0], K: searchK})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result.Hits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result.Hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, hit := range result.Hits {
		cmd.Printf("%2d. [%.3f] %s (%s)\n    %s\n", i+1, hit.Score, hit.ID, hit.Source,
			truncateBody(hit.Body, 120))
	}
	return nil
}

// truncateBody shortens a body for table output, cutting on a character
// boundary so a multi-byte character is never split.
func truncateBody(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit]) + "..."
}
