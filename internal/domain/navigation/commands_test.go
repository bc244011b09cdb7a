package navigation

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

func TestHandle(t *testing.T) {
	h := newHarness(t, Options{})

	res := h.core.Handle(types.Command{Type: types.CommandOpenTab, Title: "Start"})
	require.NoError(t, res.Err)
	opened := h.event(t)
	assert.Equal(t, res.Tab, opened.Tab)
	assert.Equal(t, "Start", opened.Snapshot.TitleOr(""))

	res = h.core.Handle(types.Navigate(opened.Tab, "http://example.test"))
	require.NoError(t, res.Err)
	assert.Equal(t, opened.Tab, res.Tab)
	assert.True(t, h.event(t).Snapshot.Loading)

	res = h.core.Handle(types.Stop(opened.Tab))
	require.NoError(t, res.Err)
	assert.Equal(t, types.StatusCancelled, h.idle(t, opened.Tab).LastResponse.Status)

	res = h.core.Handle(types.Command{Type: "bookmark", Tab: opened.Tab})
	assert.ErrorIs(t, res.Err, ErrUnknownCommand)

	res = h.core.Handle(types.CloseTab(opened.Tab))
	require.NoError(t, res.Err)
	assert.Equal(t, types.EventTabClosed, h.event(t).Type)
}

func TestRuntimeSubmit(t *testing.T) {
	h := newHarness(t, Options{})
	rt := NewRuntime(h.core, 0)
	ctx := context.Background()

	res, err := rt.Submit(ctx, types.OpenTab())
	require.NoError(t, err)
	assert.Equal(t, types.EventTabOpened, h.event(t).Type)

	_, err = rt.Submit(ctx, types.Navigate("tab_unknown", "http://example.test"))
	assert.ErrorIs(t, err, ErrTabNotFound)

	_, err = rt.Submit(ctx, types.Navigate(res.Tab, "http://example.test"))
	require.NoError(t, err)
	h.transport.next(t).respond(http.StatusOK, "hello")
	assert.Equal(t, "hello", h.idle(t, res.Tab).LastResponse.BodyText())

	snap, err := rt.Snapshot(res.Tab)
	require.NoError(t, err)
	assert.Equal(t, types.StatusOK, snap.LastResponse.Status)
	assert.Len(t, rt.Tabs(), 1)
	assert.Same(t, h.core, rt.Orchestrator())
}

func TestRuntimeSendReply(t *testing.T) {
	h := newHarness(t, Options{})
	rt := NewRuntime(h.core, 4)

	reply := make(chan types.CommandResult, 1)
	cmd := types.OpenTab()
	cmd.Reply = reply
	require.NoError(t, rt.Send(context.Background(), cmd))

	res := <-reply
	require.NoError(t, res.Err)
	assert.NotEmpty(t, res.Tab)

	// Fire and forget
	require.NoError(t, rt.Send(context.Background(), types.CloseTab(res.Tab)))
	h.until(t, func(ev types.Event) bool { return ev.Type == types.EventTabClosed })
}

func TestRuntimeClose(t *testing.T) {
	h := newHarness(t, Options{})
	rt := NewRuntime(h.core, 0)
	ctx := context.Background()

	res, err := rt.Submit(ctx, types.OpenTab())
	require.NoError(t, err)

	require.NoError(t, rt.Close(ctx))
	require.NoError(t, rt.Close(ctx), "close is idempotent")

	_, err = rt.Submit(ctx, types.Navigate(res.Tab, "http://example.test"))
	assert.ErrorIs(t, err, ErrShutdown)
	assert.ErrorIs(t, rt.Send(ctx, types.Stop(res.Tab)), ErrShutdown)

	_, err = h.core.OpenTab()
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestRuntimeDrainAnswersQueuedCommands(t *testing.T) {
	h := newHarness(t, Options{})
	rt := &Runtime{
		orchestrator: h.core,
		commands:     make(chan types.Command, 2),
		done:         make(chan struct{}),
		log:          h.core.log,
	}

	reply := make(chan types.CommandResult, 1)
	cmd := types.OpenTab()
	cmd.Reply = reply
	rt.commands <- cmd

	rt.drain()
	res := <-reply
	assert.ErrorIs(t, res.Err, ErrShutdown)
	h.expectNoEvent(t)
}

func TestRuntimeSubmitHonoursContext(t *testing.T) {
	h := newHarness(t, Options{})
	rt := NewRuntime(h.core, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Either the context or the dispatcher answers first
	_, err := rt.Submit(ctx, types.Navigate("tab_unknown", "http://example.test"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, ErrTabNotFound), "got %v", err)
}
