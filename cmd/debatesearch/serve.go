package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/debatelab/debatesearch/api"
	"github.com/debatelab/debatesearch/config"
	"github.com/debatelab/debatesearch/internal/engine"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search backend and query API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Printf("Using data directory: %s", cfg.Server.DataDir)
	eng := engine.NewEngine(cfg.Server.DataDir, config.DefaultSchema(cfg.Index.Name))

	// The index is ensured at startup so the write and read endpoints never
	// see a missing index.
	if _, err := eng.EnsureIndex(); err != nil {
		return err
	}

	router := gin.Default()
	api.SetupRoutes(router, eng)

	log.Printf("Starting server on port %s...", cfg.Server.Port)
	return router.Run(":" + cfg.Server.Port)
}
