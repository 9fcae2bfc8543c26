// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/internal/arxiv"
	"github.com/pdiddy/arxiv-digest/internal/digest"
	"github.com/pdiddy/arxiv-digest/internal/history"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "arxiv-digest/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch papers for the target date and print the digest",
	Long: `Fetch queries arXiv for computer-science papers matching each configured
keyword, keeps those published on the target date, merges them into a single
deduplicated collection, and prints the digest to stdout.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("date", "", "target publication date YYYY-MM-DD (default: yesterday UTC)")
	fetchCmd.Flags().String("keywords", "", "search keywords (comma-separated)")
	fetchCmd.Flags().Int("page-size", 0, "entries per API page (default 10)")
	fetchCmd.Flags().Int("max-retries", 0, "retry budget per page fetch (default 3)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	fetchCmd.Flags().Bool("json", false, "output papers as JSON instead of the digest text")
	fetchCmd.Flags().String("save", "", "also save the run to a YAML digest file")

	rootCmd.AddCommand(fetchCmd)
}

// fetchConfig assembles the fetch stage configuration from flags with
// config-file fallbacks.
func fetchConfig(cmd *cobra.Command) (types.FetchConfig, error) {
	keywordsRaw, _ := cmd.Flags().GetString("keywords")
	keywords := splitList(keywordsRaw)
	if len(keywords) == 0 {
		keywords = viper.GetStringSlice("fetch.keywords")
	}
	if len(keywords) == 0 {
		return types.FetchConfig{}, fmt.Errorf("no keywords configured: pass --keywords or set fetch.keywords")
	}

	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize == 0 {
		pageSize = viper.GetInt("fetch.page_size")
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if maxRetries == 0 {
		maxRetries = viper.GetInt("fetch.max_retries")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		Keywords:   keywords,
		PageSize:   pageSize,
		MaxRetries: maxRetries,
	}, nil
}

// collect runs the per-keyword pipelines sequentially and merges the
// results. Failures inside a keyword are warnings; the merged collection
// always comes back, even empty.
func collect(cmd *cobra.Command, cfg types.FetchConfig, target time.Time) *digest.Collection {
	client := arxiv.NewClient(cfg)
	c := digest.NewCollection()

	for _, kw := range cfg.Keywords {
		fmt.Fprintf(os.Stderr, "searching %q for papers published %s...\n", kw, target.Format("2006-01-02"))
		papers := client.CollectKeyword(cmd.Context(), kw, target, os.Stderr)
		inserted := c.Add(kw, papers)
		fmt.Fprintf(os.Stderr, "  %d matches, %d new\n", len(papers), inserted)
	}
	return c
}

func runFetch(cmd *cobra.Command, args []string) error {
	dateRaw, _ := cmd.Flags().GetString("date")
	target, err := parseDate(dateRaw)
	if err != nil {
		return err
	}
	cfg, err := fetchConfig(cmd)
	if err != nil {
		return err
	}

	c := collect(cmd, cfg, target)

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := digest.WriteFile(save, c, target); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved digest to %s\n", save)
		recordRun(cmd, history.Run{
			Date:     target.Format("2006-01-02"),
			Keywords: cfg.Keywords,
			Papers:   c.Len(),
			Status:   history.StatusFetched,
		})
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return digest.RenderJSON(c, os.Stdout)
	}
	fmt.Print(digest.Render(c, target))
	return nil
}
