package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/anvilmerge/internal/config"
	"github.com/udisondev/anvilmerge/internal/data"
	"github.com/udisondev/anvilmerge/internal/game/anvil"
)

const defaultConfigPath = "config/anvilmerge.yaml"

// app holds what every subcommand needs after the root pre-run.
type app struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "anvilmerge",
		Short: "Anvil enchantment merge engine",
		Long: `anvilmerge computes anvil merges that combine mutually exclusive
enchantments, prices them like the base game and serves the result to a
host server plugin over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	defaultPath := defaultConfigPath
	if p := os.Getenv("ANVILMERGE_CONFIG"); p != "" {
		defaultPath = p
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultPath, "path to the YAML config")

	root.AddCommand(newServeCmd(a), newEvalCmd(a), newCatalogCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	return nil
}

// engine loads the rule tables named by the config and builds an engine.
func (a *app) engine() (*anvil.Engine, error) {
	rules, err := data.Load(a.cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	return anvil.NewEngine(rules.Conflicts, rules.Costs), nil
}
