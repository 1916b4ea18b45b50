// internal/kiosk/session.go
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/screenfit/internal/config"
)

// ErrSessionClosed is returned for operations on a closed session.
var ErrSessionClosed = errors.New("kiosk session is already closed")

const closeGracePeriod = 10 * time.Second

// Session owns one browser process and the tab showing the display page.
// Script evaluations are paced by a rate limiter so a misbehaving resize
// storm cannot saturate the CDP connection.
type Session struct {
	id     string
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	limiter *rate.Limiter

	mu       sync.Mutex
	isClosed bool
}

// NewSession launches a browser and connects a tab. The caller must Close
// the session to release the process.
func NewSession(ctx context.Context, cfg config.KioskConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sessionID := uuid.New().String()
	sessionLogger := logger.Named("kiosk").With(zap.String("session_id", sessionID))

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// Materialize the target so CDP is connected before the first command.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to initialize browser target connection: %w", err)
	}

	limit := rate.Inf
	if cfg.EvalRate > 0 {
		limit = rate.Limit(cfg.EvalRate)
	}

	s := &Session{
		id:          sessionID,
		logger:      sessionLogger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         tabCtx,
		cancel:      tabCancel,
		limiter:     rate.NewLimiter(limit, 1),
	}
	sessionLogger.Info("Kiosk session started.",
		zap.Bool("headless", cfg.Headless),
		zap.Bool("kiosk_mode", cfg.KioskMode))
	return s, nil
}

func execOptions(cfg config.KioskConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.KioskMode {
		opts = append(opts, chromedp.Flag("kiosk", true))
	}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}
	for _, arg := range cfg.Args {
		// Handle both boolean flags and key=value arguments.
		key, value, found := strings.Cut(arg, "=")
		key = strings.TrimPrefix(key, "--")
		if found {
			opts = append(opts, chromedp.Flag(key, value))
		} else {
			opts = append(opts, chromedp.Flag(key, true))
		}
	}
	return opts
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Navigate loads the display page and waits for its body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating kiosk display.", zap.String("url", url))
	return s.runActions(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Evaluate runs a script in the page, decoding its result into res when res
// is non-nil. Evaluations are paced by the session rate limiter.
func (s *Session) Evaluate(ctx context.Context, script string, res interface{}) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.runActions(ctx, chromedp.Evaluate(script, res))
}

// ExposeBinding registers a page binding and dispatches every call to fn
// with the raw string payload. Listener dispatch runs on chromedp's event
// goroutine, so fn must not block.
func (s *Session) ExposeBinding(ctx context.Context, name string, fn func(payload string)) error {
	if err := s.runActions(ctx, runtime.AddBinding(name)); err != nil {
		return fmt.Errorf("failed to add binding %q: %w", name, err)
	}

	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		if ev, ok := ev.(*runtime.EventBindingCalled); ok && ev.Name == name {
			fn(ev.Payload)
		}
	})
	return nil
}

// InjectScriptPersistently adds a script that runs in every new document in
// this tab, surviving navigations.
func (s *Session) InjectScriptPersistently(ctx context.Context, script string) error {
	var scriptID page.ScriptIdentifier
	err := s.runActions(ctx, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		scriptID, err = page.AddScriptToEvaluateOnNewDocument(script).Do(c)
		return err
	}))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("could not inject persistent script: %w", err)
	}
	s.logger.Debug("Injected persistent script.", zap.String("script_id", string(scriptID)))
	return nil
}

// Close terminates the tab and browser process gracefully, falling back to a
// hard cancel when the browser does not exit within the grace period.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing kiosk session.")

	done := make(chan error, 1)
	go func() {
		// chromedp.Cancel blocks until the browser acknowledges shutdown.
		done <- chromedp.Cancel(s.ctx)
	}()

	graceCtx, graceCancel := context.WithTimeout(ctx, closeGracePeriod)
	defer graceCancel()

	var closeErr error
	select {
	case err := <-done:
		closeErr = err
	case <-graceCtx.Done():
		s.logger.Warn("Graceful browser shutdown timed out; cancelling forcefully.")
	}

	s.cancel()
	s.allocCancel()
	return closeErr
}

// runActions executes chromedp actions bound to both the session lifetime
// and the caller's context.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// combineContext derives from ctx1 (keeping its values, which carry the CDP
// target) and cancels when either input context is done.
func combineContext(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-ctx2.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()
	return combinedCtx, cancel
}
