// internal/dom/surface.go
package dom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// ErrForeignElement is returned when Apply receives a handle that was not
// produced by this surface's Lookup.
var ErrForeignElement = errors.New("element was not produced by this surface")

// Surface adapts a parsed HTML document to the display surface contract.
// The viewport is a synthetic value injected by the caller; SetViewport
// stands in for a window resize and feeds any subscribed handlers.
type Surface struct {
	logger *zap.Logger

	mu        sync.Mutex
	doc       *Document
	viewport  schemas.Size
	handlers  map[int]func(schemas.Size)
	handlerID int
}

var _ schemas.Surface = (*Surface)(nil)

// NewSurface wraps doc with an initial synthetic viewport.
func NewSurface(doc *Document, viewport schemas.Size, logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Surface{
		logger:   logger.Named("dom"),
		doc:      doc,
		viewport: viewport,
		handlers: make(map[int]func(schemas.Size)),
	}
}

// Document returns the underlying document so callers can re-serialize it
// after fitting.
func (s *Surface) Document() *Document {
	return s.doc
}

// -- Element Lookup --

// Lookup resolves a selector against the document. CSS-flavored id, class,
// and tag selectors are bridged to XPath; expressions starting with "/" or
// "(" pass through as raw XPath.
func (s *Surface) Lookup(ctx context.Context, selector string) (schemas.Element, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	expr := toXPath(selector)
	if expr == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := htmlquery.Query(s.doc.Root(), expr)
	if err != nil {
		s.logger.Debug("Selector did not compile to a valid XPath query.",
			zap.String("selector", selector),
			zap.Error(err))
		return nil, false
	}
	if node == nil {
		return nil, false
	}
	return &element{surface: s, node: node}, true
}

func toXPath(selector string) string {
	selector = strings.TrimSpace(selector)
	switch {
	case selector == "":
		return ""
	case strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "("):
		return selector
	case strings.HasPrefix(selector, "#"):
		return fmt.Sprintf("//*[@id='%s']", selector[1:])
	case strings.HasPrefix(selector, "."):
		return fmt.Sprintf("//*[contains(concat(' ', normalize-space(@class), ' '), ' %s ')]", selector[1:])
	default:
		return "//" + selector
	}
}

// -- Viewport and Resize Events --

func (s *Surface) ViewportSize(ctx context.Context) schemas.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// SetViewport changes the synthetic viewport and notifies subscribers, the
// headless analogue of a window resize event.
func (s *Surface) SetViewport(size schemas.Size) {
	s.mu.Lock()
	s.viewport = size
	notify := make([]func(schemas.Size), 0, len(s.handlers))
	for _, h := range s.handlers {
		notify = append(notify, h)
	}
	s.mu.Unlock()

	for _, h := range notify {
		h(size)
	}
}

func (s *Surface) Subscribe(handler func(schemas.Size)) (func(), error) {
	if handler == nil {
		return nil, errors.New("resize handler must not be nil")
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

// -- Style Application --

// Apply rewrites the style attributes of the viewport and content nodes (and
// the content's first element child, when the plan asks for it) in rule
// order. Properties already present keep their position in the attribute.
func (s *Surface) Apply(ctx context.Context, viewport, content schemas.Element, plan schemas.StylePlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vp, err := s.ownElement(viewport)
	if err != nil {
		return fmt.Errorf("viewport element: %w", err)
	}
	ct, err := s.ownElement(content)
	if err != nil {
		return fmt.Errorf("content element: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targets := map[schemas.StyleTarget]*html.Node{
		schemas.TargetViewport:   vp.node,
		schemas.TargetContent:    ct.node,
		schemas.TargetFirstChild: firstElementChild(ct.node),
	}

	touched := make(map[*html.Node][]declaration)
	order := make([]*html.Node, 0, len(targets))
	for _, rule := range plan.Rules {
		node := targets[rule.Target]
		if node == nil {
			s.logger.Debug("Skipping style rule with no resolvable target.",
				zap.String("target", string(rule.Target)),
				zap.String("property", rule.Property))
			continue
		}
		list, seen := touched[node]
		if !seen {
			if raw, has := attrValue(node, "style"); has {
				list = parseInlineStyle(raw)
			}
			order = append(order, node)
		}
		touched[node] = setDeclaration(list, rule.Property, rule.Value)
	}

	for _, node := range order {
		setAttrValue(node, "style", serializeInlineStyle(touched[node]))
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
