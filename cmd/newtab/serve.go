package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/newtab/internal/app"
	"github.com/MrSnakeDoc/newtab/internal/config"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the start page and its API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			a, err := app.New(cmd.Context(), cfg, logger.New(cfg.LogLevel, cfg.PrettyLog))
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}
