package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/debatelab/debatesearch/internal/backend"
	"github.com/debatelab/debatesearch/internal/loader"
)

var loadCorpusPath string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load the merged corpus into the search backend",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadCorpusPath, "corpus", "", "corpus artifact to load (defaults to the configured corpus path)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	corpusPath := loadCorpusPath
	if corpusPath == "" {
		corpusPath = cfg.Pipeline.CorpusPath
	}
	log.Printf("Using corpus: %s", corpusPath)

	file, err := os.Open(corpusPath) // #nosec G304 -- path comes from config/flag
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close %s: %v", corpusPath, closeErr)
		}
	}()

	b := backend.NewHTTP(cfg.Backend.URL, cfg.Backend.Timeout)
	l := loader.New(b, loader.Options{
		BatchSize:   cfg.Pipeline.BatchSize,
		MaxAttempts: cfg.Pipeline.MaxRetries,
	})

	report, err := l.Load(cmd.Context(), file)
	if err != nil {
		return err
	}

	cmd.Printf("attempted=%d succeeded=%d failed=%d skipped_lines=%d batches=%d failed_batches=%d elapsed=%.1fs\n",
		report.Attempted, report.Succeeded, report.Failed, report.SkippedLines,
		report.Batches, report.FailedBatches, report.Elapsed.Seconds())

	// Partial failure still exits zero with the counts above; only a run
	// that indexed nothing at all is treated as a failure.
	if report.Attempted > 0 && report.Succeeded == 0 {
		return fmt.Errorf("no documents were indexed")
	}
	return nil
}
