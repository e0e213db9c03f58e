package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/rmf-ai/dreams-engine/internal/compiler"
	"github.com/rmf-ai/dreams-engine/internal/config"
	"github.com/rmf-ai/dreams-engine/internal/memory"
	"github.com/rmf-ai/dreams-engine/internal/provenance"
	"github.com/rmf-ai/dreams-engine/internal/provider"
	"github.com/rmf-ai/dreams-engine/internal/shadow"
)

// #region main

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "dreams",
		Short:         "Decision-learning and shadow-planning engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "engine.yaml", "path to engine config")

	cmd.AddCommand(
		newConsoleCmd(&cfgPath),
		newReconstructCmd(),
		newPlansCmd(&cfgPath),
		newBriefingCmd(&cfgPath),
		newPredictCmd(&cfgPath),
		newOutcomeCmd(&cfgPath),
		newStatsCmd(&cfgPath),
		newInspectCmd(&cfgPath),
	)
	return cmd
}

// #endregion main

// #region engine

// engine bundles the wired components behind one handle for the CLI.
type engine struct {
	cfg      config.Config
	db       *sql.DB
	memory   *memory.DecisionMemory
	planner  *shadow.Planner
	compiler *compiler.Compiler
	registry *provider.Registry
}

func openEngine(cfgPath string) (*engine, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	mem, err := memory.NewDecisionMemory(db, memory.Config{CacheLimit: cfg.CacheLimit})
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := provenance.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	registry := provider.NewRegistry()
	var inference compiler.Inference
	if cfg.Provider.APIKey != "" {
		client, err := provider.NewGeminiClient(context.Background(), cfg.Provider.APIKey)
		if err != nil {
			log.Printf("[ENGINE] inference disabled: %v", err)
		} else {
			registry.RegisterClient(provider.ProviderGoogle, client)
			inference = pinnedProvider{registry: registry, name: provider.ProviderGoogle}
		}
	}

	planner := shadow.NewPlanner()
	return &engine{
		cfg:      cfg,
		db:       db,
		memory:   mem,
		planner:  planner,
		compiler: compiler.NewCompiler(planner, inference),
		registry: registry,
	}, nil
}

func (e *engine) Close() error {
	return e.db.Close()
}

// pinnedProvider routes every request through one registered provider,
// since the capability table spans backends the operator may not have
// credentials for.
type pinnedProvider struct {
	registry *provider.Registry
	name     provider.Name
}

func (p pinnedProvider) Execute(ctx context.Context, req provider.Request) (provider.Response, error) {
	if req.PreferredProvider == "" {
		req.PreferredProvider = p.name
	}
	return p.registry.Execute(ctx, req)
}

// #endregion engine
