package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"learntrack/internal/api/v1/router"
	"learntrack/internal/config"
	"learntrack/internal/logger"
	"learntrack/internal/repository"
	"learntrack/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	log     zerolog.Logger
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operational commands for the learning progress backend",
	Long: `admin runs maintenance tasks against the same services the API uses.

Available subcommands:
  seed           - Load a YAML course catalog
  sync-progress  - Recompute a learner's course progress
  token          - Mint a development access token
  jwks-pem       - Convert a JWKS signing key to PEM`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		log = logger.New()
	},
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(syncProgressCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(jwksPEMCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openServices connects to the configured database and wires the service
// layer the way the API server does.
func openServices(ctx context.Context) (*service.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	uri, err := service.ResolveMongoURI(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := repository.Connect(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	svcs, cleanup, err := router.Wire(ctx, cfg, db, log)
	closeAll := func() {
		if err := cleanup(); err != nil {
			log.Warn().Err(err).Msg("Failed to release resources")
		}
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return svcs, closeAll, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
