package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/natours/modules/tours"
	"github.com/dmitrymomot/natours/pkg/logger"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-slugs",
	Short: "Generate slugs for tours stored without one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return backfill(cmd.Context(), cmd)
	},
}

func backfill(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.close(context.WithoutCancel(ctx)); err != nil {
			log.ErrorContext(ctx, "failed to close storage", logger.Error(err), logger.Component("storage"))
		}
	}()

	n, err := tours.BackfillSlugs(ctx, store.models.Tours, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %d tours\n", n)
	return nil
}
