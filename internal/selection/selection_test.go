package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdiagram/internal/domain"
)

type highlights map[domain.DeviceID]Highlight

func (h highlights) SetHighlight(id domain.DeviceID, v Highlight) {
	if v == None {
		delete(h, id)
		return
	}
	h[id] = v
}

func setup(t *testing.T) (*domain.Graph, highlights, *Protocol, []domain.DeviceID) {
	t.Helper()
	g := domain.NewGraph()
	ids := []domain.DeviceID{
		g.AddDevice(domain.KindHost, 0, 0).ID,
		g.AddDevice(domain.KindHost, 10, 0).ID,
		g.AddDevice(domain.KindRouter, 20, 0).ID,
	}
	hl := highlights{}
	return g, hl, New(g, hl), ids
}

func TestStartBothHighlightsEveryDevice(t *testing.T) {
	_, hl, p, ids := setup(t)

	p.StartBoth()

	assert.True(t, p.Active())
	assert.Equal(t, 0, p.Chosen())
	for _, id := range ids {
		assert.Equal(t, Selectable, hl[id])
	}
}

func TestSelectionCompletesLink(t *testing.T) {
	g, hl, p, ids := setup(t)
	p.StartBoth()

	l, err := p.Select(ids[0])
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.Equal(t, Selected, hl[ids[0]])
	assert.Equal(t, 1, p.Chosen())

	l, err = p.Select(ids[2])
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.ElementsMatch(t, []domain.DeviceID{ids[0], ids[2]}, []domain.DeviceID{l.A, l.B})
	assert.Equal(t, 1, g.LinkCount())
	assert.False(t, p.Active())
	assert.Empty(t, hl)
}

func TestStartFromChoosesFirstDevice(t *testing.T) {
	g, hl, p, ids := setup(t)

	l, err := p.StartFrom(ids[1])
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.Equal(t, Selected, hl[ids[1]])
	assert.Equal(t, Selectable, hl[ids[0]])

	l, err = p.Select(ids[0])
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, 1, g.LinkCount())
}

func TestSelectIgnored(t *testing.T) {
	t.Run("while idle", func(t *testing.T) {
		g, hl, p, ids := setup(t)

		l, err := p.Select(ids[0])

		assert.NoError(t, err)
		assert.Nil(t, l)
		assert.Empty(t, hl)
		assert.Zero(t, g.LinkCount())
	})

	t.Run("same device twice", func(t *testing.T) {
		g, _, p, ids := setup(t)
		p.StartBoth()
		p.Select(ids[0])

		l, err := p.Select(ids[0])

		assert.NoError(t, err)
		assert.Nil(t, l)
		assert.Equal(t, 1, p.Chosen())
		assert.Zero(t, g.LinkCount())
	})
}

func TestCancel(t *testing.T) {
	for _, n := range []int{0, 1} {
		g, hl, p, ids := setup(t)
		p.StartBoth()
		for i := range n {
			p.Select(ids[i])
		}

		p.Cancel()

		assert.False(t, p.Active(), "after %d selections", n)
		assert.Empty(t, hl, "after %d selections", n)
		assert.Zero(t, g.LinkCount(), "after %d selections", n)
	}
}

func TestStartBothRestartsGesture(t *testing.T) {
	_, hl, p, ids := setup(t)
	p.StartBoth()
	p.Select(ids[0])

	p.StartBoth()

	assert.Equal(t, 0, p.Chosen())
	assert.Equal(t, Selectable, hl[ids[0]])
}

func TestForgetCancelsGestureOnRemovedDevice(t *testing.T) {
	g, _, p, ids := setup(t)
	p.StartBoth()
	p.Select(ids[0])

	assert.False(t, p.Forget(ids[1]), "unchosen device should not cancel")
	assert.True(t, p.Active())

	require.NoError(t, g.RemoveDevice(ids[0]))
	assert.True(t, p.Forget(ids[0]))
	assert.False(t, p.Active())
}

func TestFailedLinkReturnsToIdle(t *testing.T) {
	g, hl, p, ids := setup(t)
	p.StartBoth()
	p.Select(ids[0])
	require.NoError(t, g.RemoveDevice(ids[0]))

	l, err := p.Select(ids[1])

	assert.ErrorIs(t, err, domain.ErrUnknownDevice)
	assert.Nil(t, l)
	assert.False(t, p.Active())
	assert.Empty(t, hl)
}

func TestHighlightText(t *testing.T) {
	for _, h := range []Highlight{None, Selectable, Selected} {
		text, err := h.MarshalText()
		require.NoError(t, err)

		var got Highlight
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, h, got)
	}

	var h Highlight
	assert.Error(t, h.UnmarshalText([]byte("glowing")))
}
