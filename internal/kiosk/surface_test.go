// internal/kiosk/surface_test.go
package kiosk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

func TestViewportEventDispatch(t *testing.T) {
	t.Parallel()

	s := NewSurface(nil, zap.NewNop())
	var first, second []schemas.Size
	s.handlers[0] = func(sz schemas.Size) { first = append(first, sz) }
	s.handlers[1] = func(sz schemas.Size) { second = append(second, sz) }

	s.onViewportEvent(`{"width": 800, "height": 600}`)

	want := []schemas.Size{{Width: 800, Height: 600}}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestViewportEventDropsMalformedPayload(t *testing.T) {
	t.Parallel()

	s := NewSurface(nil, zap.NewNop())
	called := false
	s.handlers[0] = func(schemas.Size) { called = true }

	s.onViewportEvent(`not json`)

	assert.False(t, called, "handlers must not see undecodable payloads")
}

func TestSubscribeRejectsNilHandler(t *testing.T) {
	t.Parallel()

	s := NewSurface(nil, zap.NewNop())
	cancel, err := s.Subscribe(nil)
	require.Error(t, err)
	assert.Nil(t, cancel)
}

// stubElement satisfies schemas.Element without belonging to any surface.
type stubElement struct{}

func (stubElement) Metrics(context.Context) (schemas.BoxMetrics, error) {
	return schemas.BoxMetrics{}, nil
}

func TestApplyRejectsForeignElements(t *testing.T) {
	t.Parallel()

	home := NewSurface(nil, zap.NewNop())
	away := NewSurface(nil, zap.NewNop())
	ours := &element{surface: home, selector: "#viewport"}
	theirs := &element{surface: away, selector: "#viewport"}

	err := home.Apply(context.Background(), theirs, ours, schemas.StylePlan{})
	require.ErrorIs(t, err, ErrForeignElement)

	err = home.Apply(context.Background(), ours, stubElement{}, schemas.StylePlan{})
	require.ErrorIs(t, err, ErrForeignElement)
	assert.Contains(t, err.Error(), "content element")
}
