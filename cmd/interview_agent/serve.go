package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/followup"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/logger"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for resume analysis and mock interviews.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		return err
	}
	gateway := llm.NewGateway(llm.NewRegistry(providers...), log)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	interviews := interview.NewService(
		database,
		questions.NewGenerator(gateway, log),
		followup.NewEngine(gateway, log),
		scoring.NewScorer(gateway, log),
		log,
	)

	srv, err := server.New(server.Config{Port: cfg.Port}, server.Dependencies{
		Logger:     log,
		Database:   database,
		Analyzer:   analysis.NewAnalyzer(gateway, log),
		Interviews: interviews,
	})
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("provider chain assembled", zap.Int("providers", len(providers)))
	return srv.Start()
}

// buildProviders assembles the fallback chain in fixed order: OpenAI, then
// Groq (OpenAI-compatible API), then Gemini. Providers without a configured
// key are skipped.
func buildProviders(ctx context.Context, cfg *config.Config) ([]llm.Provider, error) {
	var providers []llm.Provider

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, llm.NewChatProvider(
			"openai", "https://api.openai.com/v1", cfg.OpenAIModel, cfg.OpenAIAPIKey))
	}
	if cfg.GroqAPIKey != "" {
		providers = append(providers, llm.NewChatProvider(
			"groq", "https://api.groq.com/openai/v1", cfg.GroqModel, cfg.GroqAPIKey))
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		providers = append(providers, gemini)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no LLM provider configured: set OPENAI_API_KEY, GROQ_API_KEY, or GEMINI_API_KEY")
	}
	return providers, nil
}
