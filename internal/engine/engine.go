// internal/engine/engine.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/api/schemas"
	"github.com/xkilldash9x/screenfit/internal/fit"
)

// DefaultDebounceInterval is the quiescence window applied to raw resize
// events before a recompute runs.
const DefaultDebounceInterval = 100 * time.Millisecond

var (
	// ErrDestroyed is returned when attaching through an engine that has
	// already been torn down.
	ErrDestroyed = errors.New("engine has been destroyed")
	// ErrAlreadyAttached is returned by a second Attach on the same engine.
	ErrAlreadyAttached = errors.New("engine is already attached")
	// ErrElementNotFound is returned when a selector matches nothing on the
	// bound surface.
	ErrElementNotFound = errors.New("element not found")
)

// Config carries the per-instance settings an Engine is constructed with.
type Config struct {
	// Options is the scaling option surface. Callers should start from
	// schemas.DefaultOptions.
	Options schemas.Options
	// DebounceInterval overrides the resize quiescence window. Zero means
	// DefaultDebounceInterval.
	DebounceInterval time.Duration
}

// Engine is the mode state machine. It owns the current display mode, the
// resolved design size, and the computed scale factors for one bound
// container, recomputing and re-emitting them on demand. All node mutation
// is delegated to the surface's StyleApplier; the engine itself only
// computes.
//
// Engines are logically single-owner, but resize events arrive on binding
// goroutines, so all state sits behind a mutex.
type Engine struct {
	id       string
	logger   *zap.Logger
	surface  schemas.Surface
	debounce time.Duration

	mu          sync.Mutex
	opts        schemas.Options
	mode        schemas.DisplayMode
	strategy    schemas.FillStrategy
	explicit    schemas.Size
	detected    schemas.Size
	designSize  schemas.Size
	scale       float64
	independent *schemas.ScalePair
	lastPlan    schemas.StylePlan
	initialized bool
	destroyed   bool

	attachCtx   context.Context
	viewportEl  schemas.Element
	contentEl   schemas.Element
	unsubscribe func()
	debouncer   *Debouncer
}

// New builds an engine over the given surface. A nil logger is replaced
// with a no-op logger so library use stays quiet by default.
func New(surface schemas.Surface, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New().String()

	interval := cfg.DebounceInterval
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}

	return &Engine{
		id:       id,
		logger:   logger.Named("engine").With(zap.String("engine_id", id)),
		surface:  surface,
		debounce: interval,
		opts:     cfg.Options,
		mode:     cfg.Options.DisplayMode(),
		strategy: cfg.Options.Fill(),
		explicit: schemas.Size{Width: cfg.Options.DesignWidth, Height: cfg.Options.DesignHeight},
	}
}

// ID returns the engine's instance identifier, as used in its log fields.
func (e *Engine) ID() string { return e.id }

// Attach resolves both target elements, subscribes to the surface's resize
// events, and runs the first refresh. A selector that matches nothing
// abandons the attach with the engine's prior state intact. The context is
// retained for debounced refreshes triggered by later resize events.
func (e *Engine) Attach(ctx context.Context, viewportSelector, contentSelector string) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	if e.viewportEl != nil {
		e.mu.Unlock()
		return ErrAlreadyAttached
	}

	viewportEl, ok := e.surface.Lookup(ctx, viewportSelector)
	if !ok {
		e.mu.Unlock()
		e.logger.Warn("viewport element not found, abandoning attach",
			zap.String("selector", viewportSelector))
		return fmt.Errorf("viewport selector %q: %w", viewportSelector, ErrElementNotFound)
	}
	contentEl, ok := e.surface.Lookup(ctx, contentSelector)
	if !ok {
		e.mu.Unlock()
		e.logger.Warn("content element not found, abandoning attach",
			zap.String("selector", contentSelector))
		return fmt.Errorf("content selector %q: %w", contentSelector, ErrElementNotFound)
	}

	debouncer := NewDebouncer(e.debounce, e.onQuiescentResize, e.logger)
	cancel, err := e.surface.Subscribe(func(s schemas.Size) {
		debouncer.Signal(s)
	})
	if err != nil {
		e.mu.Unlock()
		debouncer.Stop()
		return fmt.Errorf("subscribing to resize events: %w", err)
	}

	e.attachCtx = ctx
	e.viewportEl = viewportEl
	e.contentEl = contentEl
	e.unsubscribe = cancel
	e.debouncer = debouncer

	e.logger.Info("attached to surface",
		zap.String("viewport_selector", viewportSelector),
		zap.String("content_selector", contentSelector),
		zap.String("mode", string(e.mode)))

	notify := e.refreshLocked(ctx)
	e.mu.Unlock()
	notify()
	return nil
}

// SetMode switches the display policy. The input is normalized through
// ResolveDisplayMode, so any string is safe. A changed mode on an
// initialized engine recomputes immediately and emits the mode-change
// notification; before initialization, or when the mode is unchanged, the
// value is stored silently.
func (e *Engine) SetMode(input string) {
	mode := schemas.ResolveDisplayMode(input)

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		e.logger.Debug("set mode ignored on destroyed engine")
		return
	}
	previous := e.mode
	e.mode = mode
	if mode == previous || !e.initialized {
		e.mu.Unlock()
		return
	}

	e.logger.Info("display mode changed",
		zap.String("from", string(previous)), zap.String("to", string(mode)))
	notify := e.refreshLocked(e.attachCtx)
	onModeChange := e.opts.OnModeChange
	e.mu.Unlock()

	notify()
	if onModeChange != nil {
		onModeChange(mode)
	}
}

// SetDesignSize pins an explicit design size and recomputes. Non-positive
// dimensions are ignored outright so an invalid size can never propagate
// into the scale math.
func (e *Engine) SetDesignSize(width, height float64) {
	if width <= 0 || height <= 0 {
		e.logger.Debug("ignoring invalid design size",
			zap.Float64("width", width), zap.Float64("height", height))
		return
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.explicit = schemas.Size{Width: width, Height: height}
	notify := e.refreshLocked(e.attachCtx)
	e.mu.Unlock()
	notify()
}

// Refresh recomputes the design size and scale factors and reapplies the
// style plan. It is a no-op until both targets are bound and after the
// engine is destroyed.
func (e *Engine) Refresh() {
	e.mu.Lock()
	notify := e.refreshLocked(e.attachCtx)
	e.mu.Unlock()
	notify()
}

// Destroy tears the engine down: the resize subscription is released and
// the debouncer stopped, exactly once. Further calls are safe no-ops, and
// every other operation degrades to a no-op afterwards.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		e.logger.Debug("destroy called on already destroyed engine")
		return
	}
	e.destroyed = true
	unsubscribe := e.unsubscribe
	debouncer := e.debouncer
	e.unsubscribe = nil
	e.debouncer = nil
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if debouncer != nil {
		debouncer.Stop()
	}
	e.logger.Info("engine destroyed")
}

// -- Accessors --

// Mode returns the current display mode.
func (e *Engine) Mode() schemas.DisplayMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// DesignSize returns the most recently resolved design size.
func (e *Engine) DesignSize() schemas.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.designSize
}

// Scale returns the most recently computed uniform scale factor.
func (e *Engine) Scale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale
}

// Independent returns the fill-mode scale pair, or nil outside fill mode.
func (e *Engine) Independent() *schemas.ScalePair {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.independent == nil {
		return nil
	}
	pair := *e.independent
	return &pair
}

// Initialized reports whether a refresh has completed successfully since
// the engine attached.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// LastPlan returns the most recently applied style plan. The second return
// is false before the first successful refresh.
func (e *Engine) LastPlan() (schemas.StylePlan, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastPlan, e.initialized
}

// -- Internals --

// onQuiescentResize runs after the debounce window closes behind a burst of
// resize events.
func (e *Engine) onQuiescentResize(s schemas.Size) {
	e.logger.Debug("viewport resize settled",
		zap.Float64("width", s.Width), zap.Float64("height", s.Height))

	e.mu.Lock()
	notify := e.refreshLocked(e.attachCtx)
	e.mu.Unlock()
	notify()
}

// refreshLocked recomputes and applies the current layout. The caller holds
// e.mu. Callbacks must not run under the lock, so the pending resize
// notification is returned as a closure for the caller to invoke after
// unlocking.
func (e *Engine) refreshLocked(ctx context.Context) func() {
	noop := func() {}

	if e.destroyed || e.viewportEl == nil || e.contentEl == nil {
		e.logger.Debug("refresh skipped, no targets bound")
		return noop
	}
	if ctx == nil {
		ctx = context.Background()
	}

	viewport := e.surface.ViewportSize(ctx)

	detected := e.detected
	if e.opts.AutoDetect && !detected.IsValid() {
		box, err := e.contentEl.Metrics(ctx)
		if err != nil {
			e.logger.Debug("content measurement unavailable", zap.Error(err))
		} else if measured := fit.NaturalSize(box); measured.IsValid() {
			detected = measured
		}
	}

	design := fit.ResolveDesignSize(fit.ResolveInput{
		Explicit:   e.explicit,
		Ratio:      e.ratio(),
		Viewport:   viewport,
		Detected:   e.detected,
		AutoDetect: e.opts.AutoDetect,
		Measured:   detected,
	})

	// Degenerate geometry on either side neutralizes the scale instead of
	// propagating a division artifact.
	scale := 1.0
	pair := schemas.ScalePair{X: 1, Y: 1}
	if viewport.IsValid() && design.IsValid() {
		scale = fit.ProportionalScale(viewport, design, e.mode == schemas.ModeFill)
		pair = fit.IndependentScale(viewport, design)
	}

	var independent *schemas.ScalePair
	if e.mode == schemas.ModeFill {
		independent = &pair
	}

	plan := BuildStylePlan(PlanInput{
		Options:     e.opts,
		Mode:        e.mode,
		Strategy:    e.strategy,
		Viewport:    viewport,
		Design:      design,
		Scale:       scale,
		Independent: independent,
	})

	if err := e.surface.Apply(ctx, e.viewportEl, e.contentEl, plan); err != nil {
		e.logger.Warn("style application failed, keeping last applied layout", zap.Error(err))
		return noop
	}

	e.detected = detected
	e.designSize = design
	e.scale = scale
	e.independent = independent
	e.lastPlan = plan
	e.initialized = true

	e.logger.Debug("layout refreshed",
		zap.String("mode", string(e.mode)),
		zap.Float64("viewport_width", viewport.Width),
		zap.Float64("viewport_height", viewport.Height),
		zap.Float64("design_width", design.Width),
		zap.Float64("design_height", design.Height),
		zap.Float64("scale", scale))

	if onResize := e.opts.OnResize; onResize != nil {
		pairCopy := independent
		if pairCopy != nil {
			c := *pairCopy
			pairCopy = &c
		}
		return func() {
			onResize(viewport.Width, viewport.Height, scale, pairCopy)
		}
	}
	return noop
}

// ratio resolves the configured aspect ratio, 0 when absent or malformed.
func (e *Engine) ratio() float64 {
	if r, ok := e.opts.Ratio(); ok {
		return r
	}
	return 0
}
