package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/authvault/authvault/internal/config"
	"github.com/authvault/authvault/internal/identity"
)

func init() { //nolint: gochecknoinits
	preloadCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	preloadCmd.Flags().BoolVar(&exportCSV, "export", true, "Export the temporary passwords as CSV")

	rootCmd.AddCommand(preloadCmd)
}

var (
	exportCSV bool

	preloadCmd = &cobra.Command{
		Use:   "preload",
		Short: "Preload the faculty roster with temporary passwords",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			store, _, err := buildCore(&cfg)
			if err != nil {
				return err
			}

			results, err := store.Preload(identity.FacultyRoster(), exportCSV)
			if err != nil {
				return err
			}

			for _, r := range results {
				log.Info().
					Str("username", r.Username).
					Str("code", r.Result.Code).
					Msg("roster account created")
			}

			return nil
		},
	}
)
