// SPDX-License-Identifier: MIT

// Command gameinfo inspects, edits and serves game catalogs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chrootRISCassembler/GameInfo/internal/config"
	"github.com/chrootRISCassembler/GameInfo/internal/docstore"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/chrootRISCassembler/GameInfo/internal/version"
	"github.com/spf13/cobra"
)

// errDiagnostics marks a command that completed but found decode problems
// while --strict was set.
var errDiagnostics = errors.New("diagnostics reported")

// cli carries state shared by all subcommands.
type cli struct {
	configPath string
	logLevel   string
	backend    string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "gameinfo",
		Short:         "Inspect, edit and serve game catalogs",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("GAMEINFO_CONFIG"), "path to YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides config)")
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "document store backend: file, sqlite, redis, badger, memory")

	root.AddCommand(
		c.checkCmd(),
		c.queryCmd(),
		c.addCmd(),
		c.fmtCmd(),
		c.signatureCmd(),
		c.serveCmd(),
		c.storeCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	c.cfg = cfg

	logCfg := cfg.LogOptions()
	logCfg.Output = os.Stderr
	gilog.Configure(logCfg)
	return nil
}

func (c *cli) openStore(ctx context.Context) (docstore.Store, error) {
	return docstore.Open(ctx, c.cfg.StoreOptions())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
