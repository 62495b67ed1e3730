package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/flopwatch/internal/config"
	"github.com/Clark-Hu/flopwatch/internal/repository"
	"github.com/Clark-Hu/flopwatch/internal/store"
)

func newReportCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize flops in the movies database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStore()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			logger := log.New(io.Discard, "", 0)
			st, err := store.New(ctx, cfg.DBURL, store.OptionsFromConfig(cfg, logger))
			if err != nil {
				return err
			}
			defer st.Close()

			return report(ctx, cmd.OutOrStdout(), repository.New(st).Movies, list)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "also print the title of every flop")
	return cmd
}

func report(ctx context.Context, out io.Writer, movies *repository.MoviesRepository, list bool) error {
	summary, err := movies.FlopSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "threshold\t%d\ntotal\t%d\nflops\t%d\nhits\t%d\n",
		summary.Threshold, summary.Total, summary.Flops, summary.Hits)
	if !list {
		return nil
	}

	flop := true
	filters := repository.MovieListFilters{Flop: &flop, Limit: 100}
	for {
		page, err := movies.List(ctx, filters)
		if err != nil {
			return fmt.Errorf("list flops: %w", err)
		}
		for _, m := range page.Items {
			gross := "-"
			if m.TotalGross != nil {
				gross = fmt.Sprint(*m.TotalGross)
			}
			fmt.Fprintf(out, "flop\t%s\t%s\n", m.Title, gross)
		}
		if page.NextCursor == nil {
			return nil
		}
		cursor, err := repository.DecodeCursor(*page.NextCursor)
		if err != nil {
			return err
		}
		filters.Cursor = cursor
	}
}
