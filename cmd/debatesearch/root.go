package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debatelab/debatesearch/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "debatesearch",
	Short: "Corpus pipeline and search service for debate documents",
	Long: `debatesearch normalizes heterogeneous text corpora (stance-annotated
tweets, social-media comment dumps) into one canonical corpus, loads it into
a full-text index, and serves ranked keyword queries over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
}
