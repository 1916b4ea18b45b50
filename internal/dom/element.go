// internal/dom/element.go
package dom

import (
	"context"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// element is a handle onto a node owned by a Surface. Without a layout pass
// the box metrics come from declared values only: the style attribute stands
// in for the computed box, and width/height attributes stand in for author
// supplied inline dimensions.
type element struct {
	surface *Surface
	node    *html.Node
}

var _ schemas.Element = (*element)(nil)

func (e *element) Metrics(ctx context.Context) (schemas.BoxMetrics, error) {
	if err := ctx.Err(); err != nil {
		return schemas.BoxMetrics{}, err
	}

	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()

	var metrics schemas.BoxMetrics
	if w, ok := styleLength(e.node, "width"); ok {
		metrics.Computed.Width = w
	}
	if h, ok := styleLength(e.node, "height"); ok {
		metrics.Computed.Height = h
	}
	if w, ok := attrLength(e.node, "width"); ok {
		metrics.Inline.Width = w
	}
	if h, ok := attrLength(e.node, "height"); ok {
		metrics.Inline.Height = h
	}

	for _, child := range elementChildren(e.node) {
		metrics.Children = append(metrics.Children, childRect(child))
	}
	return metrics, nil
}

// childRect builds a declared-position rectangle for one child. Offsets
// default to zero and dimensions prefer the style attribute over width and
// height attributes.
func childRect(node *html.Node) schemas.Rect {
	var rect schemas.Rect
	if x, ok := styleLength(node, "left"); ok {
		rect.X = x
	}
	if y, ok := styleLength(node, "top"); ok {
		rect.Y = y
	}
	if w, ok := styleLength(node, "width"); ok {
		rect.Width = w
	} else if w, ok := attrLength(node, "width"); ok {
		rect.Width = w
	}
	if h, ok := styleLength(node, "height"); ok {
		rect.Height = h
	} else if h, ok := attrLength(node, "height"); ok {
		rect.Height = h
	}
	return rect
}
