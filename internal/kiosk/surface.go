// internal/kiosk/surface.go
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// ErrForeignElement is returned when Apply receives a handle that was not
// produced by this surface's Lookup.
var ErrForeignElement = errors.New("element was not produced by this surface")

// Surface adapts a live browser tab to the display surface contract.
// Elements are selector-bound handles; every interaction re-resolves the
// selector inside the page, so handles stay valid across reflows.
type Surface struct {
	session *Session
	logger  *zap.Logger

	mu        sync.Mutex
	handlers  map[int]func(schemas.Size)
	handlerID int
	hooked    bool
}

var _ schemas.Surface = (*Surface)(nil)

// NewSurface wraps an active session.
func NewSurface(session *Session, logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surface{
		session:  session,
		logger:   logger.Named("kiosk_surface"),
		handlers: make(map[int]func(schemas.Size)),
	}
}

// -- Element Lookup --

func (s *Surface) Lookup(ctx context.Context, selector string) (schemas.Element, bool) {
	if selector == "" {
		return nil, false
	}
	var exists bool
	if err := s.session.Evaluate(ctx, existsScript(selector), &exists); err != nil {
		s.logger.Debug("Element existence check failed.",
			zap.String("selector", selector),
			zap.Error(err))
		return nil, false
	}
	if !exists {
		return nil, false
	}
	return &element{surface: s, selector: selector}, true
}

// -- Viewport and Resize Events --

// ViewportSize reads the page's inner dimensions. A zero size is returned
// when the page cannot be reached; the engine treats that as degenerate and
// keeps a neutral scale.
func (s *Surface) ViewportSize(ctx context.Context) schemas.Size {
	var size schemas.Size
	if err := s.session.Evaluate(ctx, viewportSizeScript, &size); err != nil {
		s.logger.Warn("Could not read viewport size from page.", zap.Error(err))
		return schemas.Size{}
	}
	return size
}

// Subscribe installs the in-page resize hook on first use and registers the
// handler. Handlers run on the CDP event goroutine and must not block.
func (s *Surface) Subscribe(handler func(schemas.Size)) (func(), error) {
	if handler == nil {
		return nil, errors.New("resize handler must not be nil")
	}
	if err := s.ensureHook(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	id := s.handlerID
	s.handlerID++
	s.handlers[id] = handler
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
	return cancel, nil
}

// ensureHook wires the viewport binding exactly once per surface: the
// binding itself, a persistent script so navigations re-arm the listener,
// and an immediate evaluation to arm the current document.
func (s *Surface) ensureHook() error {
	s.mu.Lock()
	if s.hooked {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	ctx := s.session.ctx
	if err := s.session.ExposeBinding(ctx, viewportBinding, s.onViewportEvent); err != nil {
		return err
	}
	script := hookScript()
	if err := s.session.InjectScriptPersistently(ctx, script); err != nil {
		return err
	}
	if err := s.session.Evaluate(ctx, script, nil); err != nil {
		return fmt.Errorf("could not arm resize hook in current document: %w", err)
	}

	s.mu.Lock()
	s.hooked = true
	s.mu.Unlock()
	return nil
}

func (s *Surface) onViewportEvent(payload string) {
	size, err := parseViewportPayload(payload)
	if err != nil {
		s.logger.Warn("Dropping malformed viewport event.", zap.Error(err))
		return
	}

	s.mu.Lock()
	notify := make([]func(schemas.Size), 0, len(s.handlers))
	for _, h := range s.handlers {
		notify = append(notify, h)
	}
	s.mu.Unlock()

	for _, h := range notify {
		h(size)
	}
}

// -- Style Application --

// Apply pushes the plan's rules into the page in a single evaluation. The
// script reports false when either bound element has vanished, in which case
// the previous layout stays in place.
func (s *Surface) Apply(ctx context.Context, viewport, content schemas.Element, plan schemas.StylePlan) error {
	vp, err := s.ownElement(viewport)
	if err != nil {
		return fmt.Errorf("viewport element: %w", err)
	}
	ct, err := s.ownElement(content)
	if err != nil {
		return fmt.Errorf("content element: %w", err)
	}

	script, err := applyScript(vp.selector, ct.selector, plan.Rules)
	if err != nil {
		return err
	}

	var applied bool
	if err := s.session.Evaluate(ctx, script, &applied); err != nil {
		return fmt.Errorf("apply evaluation failed: %w", err)
	}
	if !applied {
		return fmt.Errorf("display elements %q/%q are no longer present", vp.selector, ct.selector)
	}
	return nil
}

func (s *Surface) ownElement(el schemas.Element) (*element, error) {
	handle, ok := el.(*element)
	if !ok || handle.surface != s {
		return nil, ErrForeignElement
	}
	return handle, nil
}

// element is a selector-bound handle onto the live page.
type element struct {
	surface  *Surface
	selector string
}

var _ schemas.Element = (*element)(nil)

func (e *element) Metrics(ctx context.Context) (schemas.BoxMetrics, error) {
	var out *schemas.BoxMetrics
	if err := e.surface.session.Evaluate(ctx, metricsScript(e.selector), &out); err != nil {
		return schemas.BoxMetrics{}, err
	}
	if out == nil {
		return schemas.BoxMetrics{}, fmt.Errorf("element %q is no longer present", e.selector)
	}
	return *out, nil
}
