package schemas

import "context"

// -- Display Surface Interfaces --

// Element is an opaque handle to one node on a display surface. Handles are
// only valid for the surface that produced them.
type Element interface {
	// Metrics measures the element's box. Zero dimensions inside the
	// returned metrics mean "absent"; an error means the element could not
	// be measured at all. Callers treat both as missing measurements rather
	// than failures.
	Metrics(ctx context.Context) (BoxMetrics, error)
}

// ElementLocator resolves selectors to elements on a display surface.
type ElementLocator interface {
	// Lookup resolves a selector to a single element. The second return is
	// false when nothing matches; lookup failures are absent values, never
	// errors.
	Lookup(ctx context.Context, selector string) (Element, bool)
}

// StyleApplier is the single mutation point between the scaling core and a
// live display surface. The core computes plans; only the applier touches
// nodes.
type StyleApplier interface {
	// Apply mutates the given viewport and content elements according to
	// the plan. Rules addressing the first child resolve against content's
	// first child element. Applying an identical plan twice must leave the
	// surface unchanged.
	Apply(ctx context.Context, viewport, content Element, plan StylePlan) error
}

// ResizeSource delivers viewport size changes. An engine subscribes exactly
// once per attach and releases the subscription on teardown.
type ResizeSource interface {
	// Subscribe registers a handler for raw resize events and returns a
	// cancel function that deregisters it. Handlers may be invoked from a
	// different goroutine than the subscriber's.
	Subscribe(handler func(Size)) (cancel func(), err error)
}

// Surface is a complete display binding: element lookup, viewport
// measurement, style application, and resize events for one document or
// page.
type Surface interface {
	ElementLocator
	StyleApplier
	ResizeSource

	// ViewportSize reports the current viewport dimensions. A zero Size
	// means the viewport is unknown or unmeasurable.
	ViewportSize(ctx context.Context) Size
}
