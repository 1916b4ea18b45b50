// File: cmd/kiosk.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/internal/config"
	"github.com/xkilldash9x/screenfit/internal/engine"
	"github.com/xkilldash9x/screenfit/internal/kiosk"
	"github.com/xkilldash9x/screenfit/internal/observability"
)

// newKioskCmd creates and configures the `kiosk` command.
func newKioskCmd(st *appState) *cobra.Command {
	kioskCmd := &cobra.Command{
		Use:   "kiosk [url]",
		Short: "Drives a browser in kiosk mode and keeps the page fitted to its window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := st.cfg

			// 1. Fold changed flags into the resolved configuration.
			if err := applyKioskOverrides(cmd, cfg); err != nil {
				return err
			}

			target, err := normalizeTarget(args[0])
			if err != nil {
				return err
			}

			// 2. Launch the browser session.
			session, err := kiosk.NewSession(ctx, cfg.Kiosk(), logger)
			if err != nil {
				return fmt.Errorf("failed to launch browser session: %w", err)
			}
			// Shutdown runs on a fresh context; the signal context is
			// already canceled by the time we get here.
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := session.Close(closeCtx); err != nil {
					logger.Warn("Error during browser shutdown.", zap.Error(err))
				}
			}()

			navCtx, cancel := context.WithTimeout(ctx, cfg.Kiosk().NavigationTimeout)
			defer cancel()
			if err := session.Navigate(navCtx, target); err != nil {
				return fmt.Errorf("failed to load %s: %w", target, err)
			}

			// 3. Attach the engine so the page tracks the window from now on.
			surface := kiosk.NewSurface(session, logger)
			engCfg := cfg.Engine()

			eng := engine.New(surface, engine.Config{
				Options:          engCfg.Options,
				DebounceInterval: engCfg.DebounceInterval,
			}, logger)
			defer eng.Destroy()

			if err := eng.Attach(ctx, engCfg.ViewportSelector, engCfg.ContentSelector); err != nil {
				return fmt.Errorf("failed to fit page: %w", err)
			}

			logger.Info("Display fitted; press Ctrl+C to exit.",
				zap.String("target", target),
				zap.String("mode", string(eng.Mode())),
				zap.Float64("scale", eng.Scale()),
			)

			// 4. Hold the session open until the user interrupts it. Resize
			// events keep flowing through the engine in the background.
			<-ctx.Done()
			return nil
		},
	}

	kioskCmd.Flags().Bool("headless", false, "Run the browser without a visible window. (Overrides config/env)")
	kioskCmd.Flags().String("window", "", "Initial window size as WIDTHxHEIGHT. (Overrides config/env)")
	kioskCmd.Flags().StringP("mode", "m", "", "Display mode: 'proportional' or 'fullscreen'. (Overrides config/env)")
	kioskCmd.Flags().String("design", "", "Design size as WIDTHxHEIGHT. Unset lets the page declare it.")
	kioskCmd.Flags().String("aspect-ratio", "", "Design aspect ratio, either 'W:H' or a plain number. (Overrides config/env)")

	return kioskCmd
}

// applyKioskOverrides applies changed command-line flags onto the resolved
// configuration.
func applyKioskOverrides(cmd *cobra.Command, cfg config.Interface) error {
	flags := cmd.Flags()

	if flags.Changed("headless") {
		headless, _ := flags.GetBool("headless")
		cfg.SetKioskHeadless(headless)
	}
	if flags.Changed("window") {
		raw, _ := flags.GetString("window")
		w, h, err := parseDimensions(raw)
		if err != nil {
			return err
		}
		cfg.SetKioskWindow(int(w), int(h))
	}
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		cfg.SetEngineMode(mode)
	}
	if flags.Changed("design") {
		raw, _ := flags.GetString("design")
		w, h, err := parseDimensions(raw)
		if err != nil {
			return err
		}
		cfg.SetEngineDesignSize(w, h)
	}
	if flags.Changed("aspect-ratio") {
		ratio, _ := flags.GetString("aspect-ratio")
		cfg.SetEngineAspectRatio(ratio)
	}
	return nil
}

// normalizeTarget turns the positional argument into a navigable URL.
// Existing local files become file:// URLs; bare hosts get an https scheme.
func normalizeTarget(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", fmt.Errorf("could not resolve path '%s': %w", arg, err)
		}
		return "file://" + abs, nil
	}
	return "https://" + arg, nil
}
