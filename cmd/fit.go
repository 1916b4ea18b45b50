package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/screenfit/internal/config"
	"github.com/xkilldash9x/screenfit/internal/dom"
	"github.com/xkilldash9x/screenfit/internal/engine"
	"github.com/xkilldash9x/screenfit/internal/observability"
	"github.com/xkilldash9x/screenfit/internal/report"
)

// newFitCmd creates and configures the `fit` command.
func newFitCmd(st *appState) *cobra.Command {
	fitCmd := &cobra.Command{
		Use:   "fit [files...]",
		Short: "Adapts HTML documents to a target viewport and writes the fitted copies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := st.cfg

			// 1. Fold changed flags into the resolved configuration.
			if err := applyFitOverrides(cmd, cfg); err != nil {
				return err
			}

			fitCfg := cfg.Fit()
			logger.Info("Starting fit batch.",
				zap.Int("files", len(args)),
				zap.Float64("viewport_width", fitCfg.ViewportWidth),
				zap.Float64("viewport_height", fitCfg.ViewportHeight),
				zap.Int("concurrency", fitCfg.Concurrency),
			)

			// 2. Reporting sink, if requested.
			var reporter report.Reporter
			if fitCfg.ReportPath != "" {
				var err error
				reporter, err = report.New(fitCfg.ReportPath, Version)
				if err != nil {
					return fmt.Errorf("failed to initialize reporter: %w", err)
				}
				defer func() {
					if err := reporter.Close(); err != nil {
						logger.Error("Failed to close reporter.", zap.Error(err))
					}
				}()
			}

			output, _ := cmd.Flags().GetString("output")
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output requires a single input file, got %d", len(args))
			}

			// 3. Fit every document, bounded by the configured concurrency.
			failed, err := fitAll(ctx, cfg, args, output, reporter, logger)
			if err != nil {
				return err
			}

			// 4. Watch mode keeps re-fitting until the context is canceled.
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return watchAndRefit(ctx, cfg, args, output, reporter, logger)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed to fit", failed, len(args))
			}

			fmt.Printf("\nFitted %d document(s).\n", len(args))
			return nil
		},
	}

	fitCmd.Flags().StringP("output", "o", "", "Output path; requires a single input file. Default is writing next to the input.")
	fitCmd.Flags().String("viewport", "", "Target viewport as WIDTHxHEIGHT, e.g. 1280x720. (Overrides config/env)")
	fitCmd.Flags().StringP("mode", "m", "", "Display mode: 'proportional' or 'fullscreen'. (Overrides config/env)")
	fitCmd.Flags().String("design", "", "Design size as WIDTHxHEIGHT. Unset lets the document declare it.")
	fitCmd.Flags().String("aspect-ratio", "", "Design aspect ratio, either 'W:H' or a plain number. (Overrides config/env)")
	fitCmd.Flags().StringP("report", "r", "", "Write a JSON fit report to this path ('stdout' for standard output).")
	fitCmd.Flags().IntP("concurrency", "j", 0, "Number of documents fitted in parallel. (Overrides config/env)")
	fitCmd.Flags().String("suffix", "", "Suffix inserted before the output file extension. (Overrides config/env)")
	fitCmd.Flags().BoolP("watch", "w", false, "Keep watching the input files and re-fit them on change.")

	return fitCmd
}

// applyFitOverrides applies changed command-line flags onto the resolved
// configuration so they take precedence over file and environment values.
func applyFitOverrides(cmd *cobra.Command, cfg config.Interface) error {
	flags := cmd.Flags()

	if flags.Changed("viewport") {
		raw, _ := flags.GetString("viewport")
		w, h, err := parseDimensions(raw)
		if err != nil {
			return err
		}
		cfg.SetFitViewport(w, h)
	}
	if flags.Changed("design") {
		raw, _ := flags.GetString("design")
		w, h, err := parseDimensions(raw)
		if err != nil {
			return err
		}
		cfg.SetEngineDesignSize(w, h)
	}
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		cfg.SetEngineMode(mode)
	}
	if flags.Changed("aspect-ratio") {
		ratio, _ := flags.GetString("aspect-ratio")
		cfg.SetEngineAspectRatio(ratio)
	}
	if flags.Changed("concurrency") {
		n, _ := flags.GetInt("concurrency")
		if n <= 0 {
			return fmt.Errorf("concurrency must be positive, got %d", n)
		}
		cfg.SetFitConcurrency(n)
	}
	if flags.Changed("report") {
		path, _ := flags.GetString("report")
		expanded, err := homedir.Expand(path)
		if err != nil {
			return fmt.Errorf("could not resolve report path '%s': %w", path, err)
		}
		cfg.SetFitReportPath(expanded)
	}
	if flags.Changed("suffix") {
		suffix, _ := flags.GetString("suffix")
		cfg.SetFitOutputSuffix(suffix)
	}
	return nil
}

// fitAll fits the given files concurrently and returns how many of them
// failed. Per-file failures are logged and recorded but do not abort the
// batch; only context cancellation or a reporting failure does.
func fitAll(ctx context.Context, cfg config.Interface, files []string, output string, reporter report.Reporter, logger *zap.Logger) (int, error) {
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Fit().Concurrency)

	var failed atomic.Int64

	for _, file := range files {
		g.Go(func() error {
			rec, err := fitDocument(groupCtx, cfg, file, output, logger)
			if err != nil {
				failed.Add(1)
				logger.Error("Failed to fit document.", zap.String("file", file), zap.Error(err))
			}
			if reporter != nil && rec != nil {
				if werr := reporter.Write(rec); werr != nil {
					return fmt.Errorf("failed to record fit result for %s: %w", file, werr)
				}
			}
			return groupCtx.Err()
		})
	}

	err := g.Wait()
	return int(failed.Load()), err
}

// fitDocument runs one full adapt cycle for a single HTML file and writes
// the fitted copy to the output path, or next to the input when output is
// empty. The returned record is always non-nil and carries the error
// message on failure, so callers can report both outcomes uniformly.
func fitDocument(ctx context.Context, cfg config.Interface, path, output string, logger *zap.Logger) (*report.Record, error) {
	start := time.Now()
	rec := &report.Record{File: path, FittedAt: start.UTC()}

	fail := func(err error) (*report.Record, error) {
		rec.Error = err.Error()
		rec.DurationMS = time.Since(start).Seconds() * 1000
		return rec, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read document: %w", err))
	}

	doc, err := dom.ParseString(string(data))
	if err != nil {
		return fail(fmt.Errorf("failed to parse document: %w", err))
	}

	engCfg := cfg.Engine()
	surface := dom.NewSurface(doc, cfg.Fit().Viewport(), logger)

	eng := engine.New(surface, engine.Config{
		Options:          engCfg.Options,
		DebounceInterval: engCfg.DebounceInterval,
	}, logger)
	defer eng.Destroy()

	if err := eng.Attach(ctx, engCfg.ViewportSelector, engCfg.ContentSelector); err != nil {
		return fail(fmt.Errorf("failed to fit document: %w", err))
	}

	plan, ok := eng.LastPlan()
	if !ok {
		return fail(fmt.Errorf("no style plan was produced"))
	}

	fitted, err := surface.Document().HTML()
	if err != nil {
		return fail(fmt.Errorf("failed to render fitted document: %w", err))
	}

	out := output
	if out == "" {
		out = outputPath(path, cfg.Fit().OutputSuffix)
	}
	if err := os.WriteFile(out, []byte(fitted), 0644); err != nil {
		return fail(fmt.Errorf("failed to write fitted document: %w", err))
	}

	rec.EngineID = eng.ID()
	rec.Plan = plan
	rec.Output = out
	rec.DurationMS = time.Since(start).Seconds() * 1000

	logger.Info("Fitted document.",
		zap.String("file", path),
		zap.String("output", out),
		zap.Float64("scale", eng.Scale()),
	)
	return rec, nil
}

// outputPath derives the fitted file's path. "page.html" with the default
// ".fitted" suffix becomes "page.fitted.html".
func outputPath(path, suffix string) string {
	if suffix == "" {
		suffix = ".fitted"
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// watchAndRefit blocks, re-fitting any watched input that changes on disk,
// until the context is canceled. Directories are watched rather than the
// files themselves because most editors replace files on save.
func watchAndRefit(ctx context.Context, cfg config.Interface, files []string, output string, reporter report.Reporter, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("could not resolve path '%s': %w", f, err)
		}
		watched[abs] = f
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory '%s': %w", dir, err)
		}
	}

	logger.Info("Watching input documents for changes.",
		zap.Int("files", len(watched)),
		zap.Int("directories", len(dirs)),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			orig, ok := watched[abs]
			if !ok {
				continue
			}
			logger.Info("Input changed; re-fitting.", zap.String("file", orig))
			rec, err := fitDocument(ctx, cfg, orig, output, logger)
			if err != nil {
				logger.Warn("Re-fit failed.", zap.String("file", orig), zap.Error(err))
			}
			if reporter != nil && rec != nil {
				if werr := reporter.Write(rec); werr != nil {
					logger.Warn("Failed to record re-fit result.", zap.Error(werr))
				}
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", zap.Error(werr))
		}
	}
}
