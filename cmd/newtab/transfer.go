package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/newtab/internal/app"
	"github.com/MrSnakeDoc/newtab/internal/config"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/sources/netscape"
	"github.com/MrSnakeDoc/newtab/internal/utils"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored bookmarks as a Netscape bookmark file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)

			store, backend, err := app.OpenBookmarks(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.MustClose(backend, "storage", log)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer utils.MustClose(f, out, log)
				w = f
			}
			return netscape.Export(w, store.List(), store.Registry())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a Netscape bookmark file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer utils.Close(f)

			store, backend, err := app.OpenBookmarks(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer utils.MustClose(backend, "storage", log)

			entries, err := netscape.Parse(f, store.Registry())
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			added, err := store.Import(cmd.Context(), entries)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d bookmarks\n", added, len(entries))
			return err
		},
	}
}
