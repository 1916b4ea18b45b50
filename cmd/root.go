// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/internal/config"
	"github.com/xkilldash9x/screenfit/internal/observability"
)

// appState carries the configuration resolved by the root command's
// PersistentPreRunE into the subcommands that run after it.
type appState struct {
	cfgFile string
	cfg     config.Interface
}

// NewRootCommand builds a fresh root command tree. Each call gets its own
// viper instance and configuration state, so flags and config from one
// execution never leak into the next.
func NewRootCommand() *cobra.Command {
	rootCmd, _ := newRootCommand()
	return rootCmd
}

// newRootCommand also returns the command's state, for tests that need to
// inspect the configuration resolved by PersistentPreRunE.
func newRootCommand() (*cobra.Command, *appState) {
	st := &appState{}

	rootCmd := &cobra.Command{
		Use:   "screenfit",
		Short: "Screenfit adapts fixed-size page designs to whatever screen they land on.",
		// Version is dynamically set at build time. See cmd/version.go.
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(st.cfgFile)
			if err != nil {
				// Initialize a fallback logger so the failure is still visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "screenfit"})
				return err
			}
			st.cfg = cfg

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Info("Starting screenfit.", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&st.cfgFile, "config", "c", "", "config file (default is ./screenfit.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newFitCmd(st))
	rootCmd.AddCommand(newKioskCmd(st))

	return rootCmd, st
}

// Execute builds the command tree and runs it under the supplied context.
// The caller owns the process exit code.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			observability.GetLogger().Info("Command canceled.")
		} else {
			observability.GetLogger().Error("Command execution failed.", zap.Error(err))
		}
		return err
	}
	return nil
}

// loadConfig reads the config file and environment into a validated
// configuration, starting from the package defaults.
func loadConfig(cfgFile string) (config.Interface, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		expanded, err := homedir.Expand(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("could not resolve config path '%s': %w", cfgFile, err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName("screenfit")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SCREENFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}

	return config.NewConfigFromViper(v)
}

// parseDimensions splits a "WIDTHxHEIGHT" value such as "1920x1080".
func parseDimensions(s string) (float64, float64, error) {
	rawW, rawH, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("dimensions %q must be in WIDTHxHEIGHT form", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(rawW), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(rawH), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("dimensions %q must be positive", s)
	}
	return width, height, nil
}
