package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/server"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the generation orchestrator: session creation, the four generation operations, provider/model selection and overlay editing.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(serveConfigPath)
	if err != nil {
		return err
	}

	// Flags win over the config file, which wins over built-in defaults.
	flagCfg := config.Config{Port: servePort}
	merged := flagCfg.MergeWithDefaults(*cfg)
	merged = merged.MergeWithDefaults(config.Config{Port: 8080})
	cfg = &merged

	client, closeClient, err := buildClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create session-token config: %w", err)
	}

	var store *db.Store
	if cfg.DatabaseURL != "" {
		store, err = db.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: failed to connect to database: %v", err)
			log.Printf("Continuing without persistence...")
		}
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		Client:          client,
		Store:           store,
		JWT:             jwtCfg,
		DefaultProvider: cfg.Provider,
		DefaultModel:    cfg.Model,
		UseBrowser:      cfg.UseBrowser,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadMergedConfig loads the optional config file, applies environment
// variables and validates the result.
func loadMergedConfig(path string) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildClient creates the backend client: an HTTP client when a backend URL
// is configured, otherwise a direct Gemini client.
func buildClient(ctx context.Context, cfg *config.Config) (backend.Client, func(), error) {
	if cfg.BackendURL != "" {
		client, err := backend.NewHTTPClient(cfg.BackendURL, cfg.BackendKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create backend client: %w", err)
		}
		return client, func() {}, nil
	}

	client, err := backend.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}
