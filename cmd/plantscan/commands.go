package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/plantscan/internal/domain"
	"github.com/vbonduro/plantscan/internal/market"
	"github.com/vbonduro/plantscan/internal/prompt"
	"github.com/vbonduro/plantscan/internal/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			server := web.NewServer(a.service, a.photos, a.logger)
			return server.ListenAndServe(cmd.Context(), a.cfg.ListenAddr)
		},
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan IMAGE...",
		Short: "Diagnose plant photos and add them to the history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			images := make([]prompt.Image, len(args))
			for i, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				images[i] = prompt.Image{Data: data, MIMEType: mimeFromPath(path)}
			}

			// Analyses run concurrently; identical files share one request.
			analyses := make([]domain.PlantAnalysis, len(images))
			fallback := make([]bool, len(images))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.ScanConcurrency)
			for i, img := range images {
				g.Go(func() error {
					var ok bool
					analyses[i], ok = a.advisor.AnalyzePlantImage(ctx, img)
					fallback[i] = !ok
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, img := range images {
				outcome, err := a.service.Record(cmd.Context(), img, analyses[i], fallback[i])
				if err != nil {
					return fmt.Errorf("failed to record %s: %w", args[i], err)
				}
				fmt.Fprintln(out, renderAnalysis(args[i], outcome))
			}
			return nil
		},
	}
}

func locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate QUERY...",
		Short: "Assess a place for farming this month",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			outcome, err := a.service.SearchLocation(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderLocation(outcome))
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or edit past scans",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List past scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(a.service.History(cmd.Context())))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete one scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.service.DeleteHistoryItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("deleted "+args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			a.service.ClearHistory(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("history cleared"))
			return nil
		},
	})

	return cmd
}

func marketCmd() *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Browse marketplace listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), renderMarket(a.service.Market(category, search)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", market.AllCategories, "category filter (All, Seeds, Plants, Tools, Fertilizer)")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	return cmd
}

// mimeFromPath guesses the image type from the file extension.
func mimeFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
