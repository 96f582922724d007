package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/consult-hub/cmd/cli/commands"
	"github.com/jakechorley/consult-hub/internal/config"
	"github.com/jakechorley/consult-hub/pkg/clients/sheetsclient"
	"github.com/jakechorley/consult-hub/pkg/clients/webappclient"
	"github.com/jakechorley/consult-hub/pkg/core/gateway"
	"github.com/jakechorley/consult-hub/pkg/core/lifecycle"
	"github.com/jakechorley/consult-hub/pkg/core/model"
	"github.com/jakechorley/consult-hub/pkg/core/syncer"
	"github.com/jakechorley/consult-hub/pkg/db"
	"github.com/jakechorley/consult-hub/pkg/localstore"
	"github.com/jakechorley/consult-hub/pkg/postgres"
	"github.com/jakechorley/consult-hub/pkg/sharelink"
	"github.com/jakechorley/consult-hub/pkg/summary"
	"github.com/jakechorley/consult-hub/pkg/utils/logging"
)

var (
	env      string
	roleName string
	userName string
	fromLink string
	verbose  bool

	appCtx = &commands.AppContext{Out: os.Stdout, In: os.Stdin}

	// closers run after the command, in reverse order
	closers []func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Consult Hub CLI - Manage student consultation requests",
		Long: `A CLI tool for homeroom teachers and subject instructors to track student
consultation requests kept in a shared remote store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVar(&roleName, "as", "homeroom", "Role to act as: homeroom or instructor")
	rootCmd.PersistentFlags().StringVar(&userName, "name", "", "Your display name (defaults to the last name used for the role)")
	rootCmd.PersistentFlags().StringVar(&fromLink, "from-link", "", "Start from the requests carried by a share link")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	// Add all commands
	rootCmd.AddCommand(commands.ListCmd(appCtx))
	rootCmd.AddCommand(commands.ShowCmd(appCtx))
	rootCmd.AddCommand(commands.CreateCmd(appCtx))
	rootCmd.AddCommand(commands.AcceptCmd(appCtx))
	rootCmd.AddCommand(commands.ProposeCmd(appCtx))
	rootCmd.AddCommand(commands.NotesCmd(appCtx))
	rootCmd.AddCommand(commands.ConfirmCmd(appCtx))
	rootCmd.AddCommand(commands.CompleteCmd(appCtx))
	rootCmd.AddCommand(commands.SummarizeCmd(appCtx))
	rootCmd.AddCommand(commands.ShareCmd(appCtx))
	rootCmd.AddCommand(commands.RefreshCmd(appCtx))
	rootCmd.AddCommand(commands.WatchCmd(appCtx))
	rootCmd.AddCommand(commands.InteractiveCmd(appCtx))

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, backend, local store and the sync controller
func initApp() error {
	ctx := context.Background()
	appCtx.Ctx = ctx

	// Initialize logger
	logger, err := logging.InitLoggerWithOptions(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	appCtx.Logger = logger
	closers = append(closers, func() { logger.Sync() })

	logger.Debug("Starting application", zap.String("environment", env))

	role, ok := model.ParseRole(roleName)
	if !ok {
		return fmt.Errorf("unknown role %q: use homeroom or instructor", roleName)
	}
	appCtx.Role = role

	// Load configuration
	logger.Debug("Loading configuration")
	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appCtx.Cfg = cfg
	logger.Debug("Configuration loaded successfully", zap.String("backend", cfg.Backend))

	// Local snapshot and identity store
	kv, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	store := localstore.NewRecordStore(kv, logger)
	appCtx.Store = store

	appCtx.Name = strings.TrimSpace(userName)
	if appCtx.Name != "" {
		if err := store.SaveLastName(ctx, role, appCtx.Name); err != nil {
			logger.Warn("Failed to remember name", zap.Error(err))
		}
	} else {
		appCtx.Name = store.LastName(ctx, role)
	}

	// Remote store
	remote, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	appCtx.Controller = syncer.New(
		gateway.WithSnapshots(remote, store, logger),
		store,
		logger,
		syncer.WithPollInterval(cfg.Sync.PollInterval),
		syncer.WithReconcileDelay(cfg.Sync.ReconcileDelay),
		syncer.WithFetchTimeout(cfg.Sync.FetchTimeout),
		syncer.WithPolicy(lifecycle.Policy{RequireProposedSlot: cfg.RequireProposedSlot}),
	)
	closers = append(closers, appCtx.Controller.Stop)

	if fromLink != "" {
		records, err := sharelink.FromURL(fromLink)
		if err != nil {
			logger.Warn("Ignoring unreadable share link", zap.Error(err))
		} else {
			appCtx.Controller.Seed(records)
			logger.Info("Seeded requests from share link", zap.Int("count", len(records)))
		}
	}

	if cfg.GeminiAPIKey != "" {
		generator, err := summary.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.SummaryModel)
		if err != nil {
			return fmt.Errorf("failed to create summary generator: %w", err)
		}
		appCtx.Summarizer = summary.NewNotesSummarizer(generator, logger)
	}

	logger.Debug("Application initialized",
		zap.String("role", string(role)),
		zap.String("name", appCtx.Name))

	return nil
}

// openBackend connects to the configured remote store
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (gateway.Gateway, error) {
	switch cfg.Backend {
	case config.BackendSheets:
		logger.Debug("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		logger.Debug("Initializing sheets client")
		sheetsClient, err := sheetsclient.NewClient(ctx, oauthCfg, env, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}

		logger.Debug("Connecting to database", zap.String("spreadsheet_id", cfg.DatabaseSheetID))
		database, err := db.Open(ctx, sheetsClient, cfg.DatabaseSheetID, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return database, nil

	default:
		client, err := webappclient.NewClient(cfg.WebAppURL, cfg.Sync.FetchTimeout, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create web app client: %w", err)
		}
		return client, nil
	}
}

// openCache opens the KV backend holding the last known snapshot
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (localstore.KV, error) {
	switch cfg.Cache.Driver {
	case config.CachePostgres:
		logger.Debug("Connecting to cache database")
		pg, err := postgres.NewDB(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to cache database: %w", err)
		}
		closers = append(closers, pg.Close)

		if err := pg.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate cache database: %w", err)
		}
		return pg, nil

	default:
		path, err := cfg.CachePath(env)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using file cache", zap.String("path", path))
		return localstore.NewFileKV(path), nil
	}
}

// shutdown stops background work, waits for pending writes and releases resources
func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
