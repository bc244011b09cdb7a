package navigation

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/asterix/internal/document"
	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/transport"
)

const waitTimeout = 2 * time.Second

// pendingFetch is one transport call held until the test releases it
type pendingFetch struct {
	url     string
	ctx     context.Context
	release chan fetchResult
}

type fetchResult struct {
	resp  *transport.Response
	err   error
	panic bool
}

func (p *pendingFetch) respond(status int, body string) {
	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	p.release <- fetchResult{resp: &transport.Response{URL: p.url, StatusCode: status, Header: header, Body: []byte(body)}}
}

func (p *pendingFetch) respondHTML(html string) {
	header := http.Header{}
	header.Set("Content-Type", "text/html")
	p.release <- fetchResult{resp: &transport.Response{URL: p.url, StatusCode: http.StatusOK, Header: header, Body: []byte(html)}}
}

func (p *pendingFetch) explode() {
	p.release <- fetchResult{panic: true}
}

// fakeTransport hands every call to the test through calls
type fakeTransport struct {
	calls chan *pendingFetch

	// ignoreCancel keeps calls blocked after their context ends, so a
	// superseded fetch can finish after its successor
	ignoreCancel bool

	inflight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{calls: make(chan *pendingFetch, 128)}
}

func (f *fakeTransport) Fetch(ctx context.Context, url string) (*transport.Response, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	call := &pendingFetch{url: url, ctx: ctx, release: make(chan fetchResult, 1)}
	f.calls <- call

	var result fetchResult
	if f.ignoreCancel {
		result = <-call.release
	} else {
		select {
		case result = <-call.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if result.panic {
		panic("transport exploded")
	}
	return result.resp, result.err
}

func (f *fakeTransport) next(t *testing.T) *pendingFetch {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a fetch")
		return nil
	}
}

func (f *fakeTransport) expectNoCall(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case call := <-f.calls:
		t.Fatalf("unexpected fetch of %s", call.url)
	case <-time.After(within):
	}
}

type harness struct {
	core      *Orchestrator
	transport *fakeTransport
	sub       *events.Subscription
	metrics   *monitoring.Metrics
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	tr := newFakeTransport()
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics(prometheus.NewRegistry())
	}
	core := New(document.NewPipeline(tr, document.Options{}), events.NewBus(), opts)
	h := &harness{
		core:      core,
		transport: tr,
		sub:       core.Subscribe(),
		metrics:   opts.Metrics,
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
		defer cancel()
		_ = core.Shutdown(ctx)
	})
	return h
}

func (h *harness) event(t *testing.T) types.Event {
	t.Helper()
	select {
	case ev, ok := <-h.sub.Events():
		require.True(t, ok, "event stream closed")
		return ev
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for an event")
		return types.Event{}
	}
}

// until reads events until one matches
func (h *harness) until(t *testing.T, match func(types.Event) bool) types.Event {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case ev, ok := <-h.sub.Events():
			require.True(t, ok, "event stream closed")
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for a matching event")
			return types.Event{}
		}
	}
}

func (h *harness) expectNoEvent(t *testing.T) {
	t.Helper()
	select {
	case ev := <-h.sub.Events():
		t.Fatalf("unexpected event %s for %s", ev.Type, ev.Tab)
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *harness) open(t *testing.T) types.TabID {
	t.Helper()
	tabID, err := h.core.OpenTab()
	require.NoError(t, err)
	ev := h.event(t)
	require.Equal(t, types.EventTabOpened, ev.Type)
	return tabID
}

// idle waits for the tab's next update that leaves it not loading
func (h *harness) idle(t *testing.T, tabID types.TabID) types.TabSnapshot {
	t.Helper()
	ev := h.until(t, func(ev types.Event) bool {
		return ev.Tab == tabID && ev.Type == types.EventTabUpdated && !ev.Snapshot.Loading
	})
	return *ev.Snapshot
}

// recorder collects events from a subscription in the background
type recorder struct {
	mu     sync.Mutex
	events []types.Event
	done   chan struct{}
}

func record(sub *events.Subscription) *recorder {
	r := &recorder{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		for ev := range sub.Events() {
			r.mu.Lock()
			r.events = append(r.events, ev)
			r.mu.Unlock()
		}
	}()
	return r
}

func (r *recorder) all() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Event(nil), r.events...)
}
