package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wlkit/wlkit"
	"github.com/wlkit/wlkit/internal/config"
	"github.com/wlkit/wlkit/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string

	rootCmd = &cobra.Command{
		Use:   "wlkit",
		Short: "wlkit - Wayland client toolkit inspector",
		Long: `wlkit inspects a Wayland session through the toolkit's own managers:
outputs, seats, the clipboard and the windows of other clients.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				config.SetConfigPath(configPath)
			}
			if err := config.Init(); err != nil {
				return err
			}
			if level := config.Get().Logging.LogLevel; level != "" {
				logger.SetLevel(level)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
}

// connect builds an environment from the active configuration.
func connect() (*wlkit.Environment, error) {
	c := config.Get()
	env, err := wlkit.Connect(wlkit.Options{
		Socket:      c.Display.Socket,
		CursorTheme: c.Cursor.Theme,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to compositor: %w", err)
	}
	return env, nil
}
