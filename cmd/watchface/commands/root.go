package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/aatuh/envvar"
	"github.com/spf13/cobra"
	"github.com/zgpcy/watchface/internal/config"
	"github.com/zgpcy/watchface/internal/version"
)

type configKey struct{}

// NewRootCmd builds the watchface command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "watchface",
		Short: "Analog clock face renderer and live hand-angle service",
		Long: strings.TrimSpace(`
watchface draws an analog clock face: a ring, twelve numerals, sixty
minute marks and three hands that follow the wall clock. It can serve
live faces over HTTP, render a single face as SVG, or print the hand
angles for a given time.`),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Commands that never read configuration
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = envvar.Get("WATCHFACE_CONFIG")
			}

			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (env: WATCHFACE_CONFIG)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newAnglesCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// getConfig returns the configuration loaded by PersistentPreRunE
func getConfig(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
