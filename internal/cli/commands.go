package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"BitcoinHindsight/internal/agent"
	"BitcoinHindsight/internal/collector"
	"BitcoinHindsight/internal/config"
	"BitcoinHindsight/internal/dialogflow"
	"BitcoinHindsight/internal/logger"
	"BitcoinHindsight/internal/model"
	"BitcoinHindsight/internal/scheduler"
	"BitcoinHindsight/internal/server"
)

// Version is set at build time with -ldflags "-X BitcoinHindsight/internal/cli.Version=...".
var Version = "dev"

const (
	defaultConfigPath = "configs/config.yaml"
	// mockPrice is what the mock provider quotes for every date.
	mockPrice       = 30000
	shutdownTimeout = 10 * time.Second
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webhook",
		Short: "BitcoinHindsight - Dialogflow fulfillment for hypothetical Bitcoin investments",
		Long: `BitcoinHindsight answers "what if I had bought Bitcoin back then" questions
for a Dialogflow agent, using historical closing prices.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().String("config", "", "Configuration file path (default $CONFIG_PATH or "+defaultConfigPath+")")

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer one question locally, without Dialogflow",
		Long: `Build a webhook request from flags and print the agent's reply.
Example: webhook ask --unit year --period end --number 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			intent, _ := cmd.Flags().GetString("intent")
			unit, _ := cmd.Flags().GetString("unit")
			period, _ := cmd.Flags().GetString("period")
			number, _ := cmd.Flags().GetInt("number")
			amount, _ := cmd.Flags().GetFloat64("amount")
			asJSON, _ := cmd.Flags().GetBool("json")

			req := buildRequest(intent, unit, period, number, amount)
			return runAsk(cmd, cfg, req, asJSON)
		},
	}

	cmd.Flags().String("intent", "", "Intent display name (derived from --unit when empty)")
	cmd.Flags().String("unit", "", "Date unit: day, month or year")
	cmd.Flags().String("period", "", "Date period: beginning or end")
	cmd.Flags().Int("number", 0, "Offset, or an absolute year above 2000")
	cmd.Flags().Float64("amount", 0, "Investment amount kept in session data")
	cmd.Flags().Bool("json", false, "Print the full webhook response")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "BitcoinHindsight %s\n", Version)
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = defaultConfigPath
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newFetcher picks the price source named by the config.
func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderCoindesk:
		return collector.NewCoindeskFetcher(ds.BaseURL, ds.Currency, cfg.Proxy, ds.Timeout), nil
	case config.ProviderCryptoCompare:
		return collector.NewCryptoCompareFetcher(ds.BaseURL, ds.Currency, cfg.Proxy, ds.Timeout), nil
	case config.ProviderMock:
		return &collector.MockFetcher{Fallback: mockPrice}, nil
	default:
		return nil, fmt.Errorf("unknown price provider %q", ds.Provider)
	}
}

func newAgent(cfg *config.Config, fetcher collector.Fetcher, log zerolog.Logger) (*agent.Agent, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	col := collector.NewCollector(fetcher, log)
	return agent.New(col, agent.Config{
		DefaultAmount: cfg.Investment.DefaultAmount,
		Currency:      cfg.Investment.CurrencyLabel,
		ImageURL:      cfg.Card.ImageURL,
		LinkURL:       cfg.Card.LinkURL,
		Location:      loc,
	}, log), nil
}

func runServe(cfg *config.Config) error {
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info().Str("version", Version).Msg("BitcoinHindsight starting")

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	log.Info().Str("source", fetcher.Name()).Str("currency", cfg.DataSource.Currency).Msg("Price source configured")

	ag, err := newAgent(cfg, fetcher, log)
	if err != nil {
		return err
	}
	loc, _ := cfg.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, fetcher, loc, log)
	if err := sched.RegisterAll(cfg.Schedule.ProbeCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, probing price source now")
		go sched.RunProbeNow()
	}

	srv := server.New(server.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout,
		Log:            log,
		Agent:          ag,
		Probe:          sched,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received, stopping...")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("BitcoinHindsight stopped")
	return nil
}

// buildRequest assembles what Dialogflow would send for the given parameters.
func buildRequest(intent, unit, period string, number int, amount float64) *dialogflow.WebhookRequest {
	session := "projects/local/agent/sessions/" + uuid.NewString()
	req := &dialogflow.WebhookRequest{
		ResponseID: uuid.NewString(),
		Session:    session,
	}

	if intent == "" {
		intent = agent.IntentEarn.String()
		if unit != "" {
			intent = agent.IntentEarnInPeriod.String()
		}
	}
	req.QueryResult.Intent.DisplayName = intent
	req.QueryResult.LanguageCode = "en"
	req.QueryResult.AllRequiredParamsPresent = true

	if unit != "" {
		b, _ := json.Marshal(map[string]any{
			"date-unit":   unit,
			"date-period": period,
			"number":      number,
		})
		req.QueryResult.Parameters = map[string]json.RawMessage{agent.DateParameter: b}
	}
	if amount > 0 {
		req.QueryResult.OutputContexts = []dialogflow.Context{
			dialogflow.SessionContext(session, model.SessionData{BitcoinInvestment: amount}),
		}
	}
	return req
}

func runAsk(cmd *cobra.Command, cfg *config.Config, req *dialogflow.WebhookRequest, asJSON bool) error {
	// stdout carries the answer only.
	log := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Pretty: true}, cmd.ErrOrStderr())

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	ag, err := newAgent(cfg, fetcher, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
	defer cancel()

	resp, err := ag.Handle(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if resp.FulfillmentText == "" {
		fmt.Fprintf(out, "(no reply for intent %q)\n", req.IntentName())
		return nil
	}
	fmt.Fprintln(out, resp.FulfillmentText)
	return nil
}
