// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/internal/history"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded digest runs",
	Long: `History lists past digest runs from the local run-history database,
newest first: target date, keywords, paper count, recipients, and delivery
status.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(types.HistoryConfig{Path: viper.GetString("history.path")})
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	history.FormatRuns(runs, os.Stdout)
	return nil
}
