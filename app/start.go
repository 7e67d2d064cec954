package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/authvault/authvault/internal/audit"
	"github.com/authvault/authvault/internal/authz"
	"github.com/authvault/authvault/internal/config"
	"github.com/authvault/authvault/internal/console"
	"github.com/authvault/authvault/internal/db"
	"github.com/authvault/authvault/internal/hashing"
	"github.com/authvault/authvault/internal/identity"
	"github.com/authvault/authvault/internal/logger"
	"github.com/authvault/authvault/internal/policy"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration file

	cfg     config.Config
	err     error
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the AuthVault interactive console",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			store, auditLog, err := buildCore(&cfg)
			if err != nil {
				return err
			}

			c := console.New(os.Stdin, os.Stdout, store, authz.Default(), auditLog, cfg.Title)

			return c.Run()
		},
	}
)

// buildCore wires config, logging, storage and the identity store.
func buildCore(cfg *config.Config) (*identity.Store, *audit.Log, error) {
	if err := logger.Init(cfg.Log); err != nil {
		return nil, nil, err
	}

	gdb, err := db.Open(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	auditLog, err := audit.New(cfg.Storage.Dir)
	if err != nil {
		return nil, nil, err
	}

	store := identity.New(cfg, gdb, hashing.New(cfg.Hash), policy.New(cfg.Policy), auditLog)

	return store, auditLog, nil
}
