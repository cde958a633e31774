package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debatelab/debatesearch/internal/corpus"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the canonical corpus from raw source files",
	Long: `Parses every configured raw source, normalizes records into the
canonical document schema, writes one clean artifact per source, and merges
them in source order into the corpus file the loader consumes.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	pipeline, err := corpus.NewPipeline(cfg.Pipeline)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	result, err := pipeline.Run()
	if err != nil {
		return err
	}

	for _, src := range result.Sources {
		cmd.Printf("%s: %d files, %d read, %d kept, %d skipped -> %s\n",
			src.Source, src.Files, src.Stats.Read, src.Stats.Kept,
			src.Stats.SkippedTotal(), src.Artifact)
	}
	cmd.Printf("merged: %d rows -> %s\n", result.MergedTotal, result.MergedPath)

	if result.MergedTotal == 0 {
		return fmt.Errorf("no records survived normalization; check raw inputs under %s", cfg.Pipeline.RawDir)
	}
	return nil
}
