// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-digest/internal/digest"
	"github.com/pdiddy/arxiv-digest/internal/enrich"
	"github.com/pdiddy/arxiv-digest/internal/history"
	"github.com/pdiddy/arxiv-digest/internal/mail"
	"github.com/pdiddy/arxiv-digest/internal/secrets"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Run the full pipeline and deliver the digest by email",
	Long: `Send fetches papers for the target date (or loads a saved digest file),
optionally enriches each paper with an AI-generated translation and
contribution summary, renders the digest, emails it to the configured
recipients, and records the run in the history database.

An empty result still produces a short notification email.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().String("date", "", "target publication date YYYY-MM-DD (default: yesterday UTC)")
	sendCmd.Flags().String("keywords", "", "search keywords (comma-separated)")
	sendCmd.Flags().Int("page-size", 0, "entries per API page (default 10)")
	sendCmd.Flags().Int("max-retries", 0, "retry budget per page fetch (default 3)")
	sendCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	sendCmd.Flags().String("input", "", "send a previously saved digest file instead of fetching")
	sendCmd.Flags().Bool("enrich", false, "add AI translations and contribution summaries")
	sendCmd.Flags().String("model", "", "AI model identifier")
	sendCmd.Flags().String("language", "", "translation target language (default Chinese)")
	sendCmd.Flags().Bool("dry-run", false, "print the digest instead of emailing it")

	rootCmd.AddCommand(sendCmd)
}

// mailConfig assembles delivery settings from the config file and secrets.
func mailConfig() types.MailConfig {
	return types.MailConfig{
		Host:       viper.GetString("mail.host"),
		Port:       viper.GetInt("mail.port"),
		From:       viper.GetString("mail.from"),
		FromName:   viper.GetString("mail.from_name"),
		Password:   secretDefault(secrets.KeySMTPPassword, viper.GetString("mail.password")),
		To:         viper.GetStringSlice("mail.to"),
		MaxRetries: viper.GetInt("mail.max_retries"),
	}
}

// enrichConfig assembles AI enrichment settings from flags, config, and secrets.
func enrichConfig(cmd *cobra.Command) types.EnrichConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("enrich.model")
	}
	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = viper.GetString("enrich.language")
	}
	return types.EnrichConfig{
		AIConfig: types.AIConfig{
			Model:      model,
			APIKey:     secretDefault(secrets.KeyOpenAI, viper.GetString("enrich.api_key")),
			BaseURL:    viper.GetString("enrich.base_url"),
			MaxRetries: viper.GetInt("enrich.max_retries"),
		},
		Language:         language,
		MaxAbstractChars: viper.GetInt("enrich.max_abstract_chars"),
	}
}

func runSend(cmd *cobra.Command, args []string) error {
	var (
		c        *digest.Collection
		target   time.Time
		keywords []string
	)

	if input, _ := cmd.Flags().GetString("input"); input != "" {
		f, err := digest.ReadFile(input)
		if err != nil {
			return err
		}
		target, err = f.TargetDate()
		if err != nil {
			return err
		}
		c = f.Collection()
		keywords = f.Keywords
	} else {
		dateRaw, _ := cmd.Flags().GetString("date")
		var err error
		target, err = parseDate(dateRaw)
		if err != nil {
			return err
		}
		cfg, err := fetchConfig(cmd)
		if err != nil {
			return err
		}
		c = collect(cmd, cfg, target)
		keywords = cfg.Keywords
	}

	if doEnrich, _ := cmd.Flags().GetBool("enrich"); doEnrich && c.Len() > 0 {
		ecfg := enrichConfig(cmd)
		if ecfg.APIKey == "" {
			fmt.Fprintln(os.Stderr, "warning: no AI API key configured, skipping enrichment")
		} else {
			backend := enrich.NewOpenAIBackend(&http.Client{Timeout: 60 * time.Second}, ecfg.AIConfig)
			n := enrich.EnrichAll(cmd.Context(), backend, c, ecfg, os.Stderr)
			fmt.Fprintf(os.Stderr, "Enriched %d of %d papers\n", n, c.Len())
		}
	}

	subject := digest.Subject(c, target)
	body := digest.Render(c, target)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Println(subject)
		fmt.Print(body)
		return nil
	}

	mcfg := mailConfig()
	sender, err := mail.NewSender(mcfg)
	if err != nil {
		return err
	}

	status := history.StatusSent
	sendErr := sender.Send(cmd.Context(), subject, body)
	if sendErr != nil {
		status = history.StatusFailed
	} else {
		fmt.Fprintf(os.Stderr, "Sent digest to %d recipients\n", len(mcfg.To))
	}

	recordRun(cmd, history.Run{
		Date:       target.Format("2006-01-02"),
		Keywords:   keywords,
		Papers:     c.Len(),
		Recipients: len(mcfg.To),
		Status:     status,
	})

	return sendErr
}

// recordRun appends the run to the history database. History is best
// effort: a failure warns and never fails the send.
func recordRun(cmd *cobra.Command, run history.Run) {
	store, err := history.NewStore(types.HistoryConfig{Path: viper.GetString("history.path")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open history database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(cmd.Context(), run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}
