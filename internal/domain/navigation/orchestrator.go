package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/GriffinCanCode/asterix/internal/document"
	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/domain/tab"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/config"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/asterix/internal/shared/id"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

var (
	ErrTabNotFound     = tab.ErrNotFound
	ErrInvalidURL      = errors.New("invalid url")
	ErrNothingToReload = errors.New("tab has no url to reload")
	ErrInternal        = errors.New("internal error")
	ErrShutdown        = errors.New("browser is shutting down")
)

// Defaults used when Options leaves a field zero
const (
	DefaultMaxInFlight  = 16
	DefaultFetchTimeout = 30 * time.Second
)

// Options configures an Orchestrator
type Options struct {
	MaxInFlight   int
	FetchTimeout  time.Duration
	DefaultScheme string
	Logger        *logging.Logger
	Metrics       *monitoring.Metrics
	IDs           *id.Generator
}

// OptionsFromConfig maps browser configuration onto Options
func OptionsFromConfig(cfg config.BrowserConfig) Options {
	return Options{
		MaxInFlight:   cfg.MaxInFlight,
		FetchTimeout:  cfg.FetchTimeout,
		DefaultScheme: cfg.DefaultScheme,
	}
}

// Orchestrator owns the tab registry and drives every navigation.
//
// mu serialises registry mutation with event publication so subscribers
// observe events in the same order the state changed. It is never held
// across I/O: fetches run on their own goroutines.
type Orchestrator struct {
	mu       sync.Mutex
	closed   bool // Protected by mu
	registry *tab.Registry
	bus      *events.Bus
	fetcher  document.Fetcher

	sem     *semaphore.Weighted
	timeout time.Duration
	scheme  string

	baseCtx context.Context
	stopAll context.CancelFunc
	wg      sync.WaitGroup

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New creates an orchestrator that fetches through fetcher and publishes
// on bus
func New(fetcher document.Fetcher, bus *events.Bus, opts Options) *Orchestrator {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics(prometheus.NewRegistry())
	}

	baseCtx, stopAll := context.WithCancel(context.Background())

	return &Orchestrator{
		registry: tab.NewRegistry(opts.IDs),
		bus:      bus,
		fetcher:  fetcher,
		sem:      semaphore.NewWeighted(int64(opts.MaxInFlight)),
		timeout:  opts.FetchTimeout,
		scheme:   opts.DefaultScheme,
		baseCtx:  baseCtx,
		stopAll:  stopAll,
		log:      opts.Logger.Named("navigation"),
		metrics:  opts.Metrics,
	}
}

// OpenTab opens a blank tab and announces it with TabOpened
func (o *Orchestrator) OpenTab() (types.TabID, error) {
	return o.OpenTabWithTitle("")
}

// OpenTabWithTitle opens a blank tab with an initial title. An empty title
// leaves it unset.
func (o *Orchestrator) OpenTabWithTitle(title string) (tabID types.TabID, err error) {
	defer o.guard("open", "", &err)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return "", ErrShutdown
	}

	if title == "" {
		tabID = o.registry.Open()
	} else {
		tabID = o.registry.OpenWithTitle(title)
	}
	snap, _ := o.registry.Snapshot(tabID)
	o.bus.Publish(types.TabOpened(snap))
	o.metrics.SetTabsOpen(o.registry.Len())

	o.log.Debug("Tab opened", logging.Tab(tabID))
	return tabID, nil
}

// CloseTab closes a tab and cancels its fetch. Closing an unknown or
// already closed tab does nothing.
func (o *Orchestrator) CloseTab(tabID types.TabID) (err error) {
	defer o.guard("close", tabID, &err)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrShutdown
	}
	if !o.registry.Close(tabID) {
		return nil
	}

	o.bus.Publish(types.TabClosed(tabID))
	o.metrics.SetTabsOpen(o.registry.Len())

	o.log.Debug("Tab closed", logging.Tab(tabID))
	return nil
}

// Navigate points a tab at rawURL. Input without a scheme gets the
// configured default. The previous fetch of the tab is cancelled and its
// result, should it still arrive, is discarded.
func (o *Orchestrator) Navigate(tabID types.TabID, rawURL string) (err error) {
	defer o.guard("navigate", tabID, &err)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrShutdown
	}
	if _, ok := o.registry.Snapshot(tabID); !ok {
		o.metrics.RecordNavigation(monitoring.NavigationRejected)
		return fmt.Errorf("navigate %s: %w", tabID, ErrTabNotFound)
	}

	target, err := utils.NormalizeURL(rawURL, o.scheme)
	if err != nil {
		o.metrics.RecordNavigation(monitoring.NavigationRejected)
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	return o.begin(tabID, target)
}

// Reload navigates a tab to its current url again
func (o *Orchestrator) Reload(tabID types.TabID) (err error) {
	defer o.guard("reload", tabID, &err)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrShutdown
	}
	snap, ok := o.registry.Snapshot(tabID)
	if !ok {
		o.metrics.RecordNavigation(monitoring.NavigationRejected)
		return fmt.Errorf("reload %s: %w", tabID, ErrTabNotFound)
	}
	if snap.URL == "" {
		o.metrics.RecordNavigation(monitoring.NavigationRejected)
		return fmt.Errorf("reload %s: %w", tabID, ErrNothingToReload)
	}

	return o.begin(tabID, snap.URL)
}

// Stop cancels the tab's fetch without starting a new navigation. The
// cancelled result is applied, so the tab goes idle. Stopping an idle tab
// does nothing.
func (o *Orchestrator) Stop(tabID types.TabID) (err error) {
	defer o.guard("stop", tabID, &err)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrShutdown
	}
	if _, ok := o.registry.Snapshot(tabID); !ok {
		return fmt.Errorf("stop %s: %w", tabID, ErrTabNotFound)
	}

	if o.registry.Cancel(tabID) {
		o.log.Debug("Fetch stopped", logging.Tab(tabID))
	}
	return nil
}

// Tabs returns snapshots of every open tab, oldest first
func (o *Orchestrator) Tabs() []types.TabSnapshot {
	return o.registry.List()
}

// Snapshot returns the current state of one tab
func (o *Orchestrator) Snapshot(tabID types.TabID) (types.TabSnapshot, error) {
	snap, ok := o.registry.Snapshot(tabID)
	if !ok {
		return types.TabSnapshot{}, fmt.Errorf("snapshot %s: %w", tabID, ErrTabNotFound)
	}
	return snap, nil
}

// Subscribe starts a new event stream
func (o *Orchestrator) Subscribe() *events.Subscription {
	return o.bus.Subscribe()
}

// Unsubscribe ends an event stream
func (o *Orchestrator) Unsubscribe(sub *events.Subscription) {
	o.bus.Unsubscribe(sub)
}

// Shutdown rejects new commands, cancels every fetch and waits for fetch
// goroutines to finish or ctx to end. The event bus is closed last, so the
// final cancelled states still reach subscribers.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	cancelled := o.registry.CancelAll()
	o.stopAll()
	o.mu.Unlock()

	o.log.Info("Shutting down", zap.Int("cancelled_fetches", cancelled))

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	defer o.bus.Close()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

// begin starts a navigation. Caller holds mu.
func (o *Orchestrator) begin(tabID types.TabID, url string) error {
	req, ctx, snap, err := o.registry.Begin(o.baseCtx, tabID, url)
	if err != nil {
		o.metrics.RecordNavigation(monitoring.NavigationRejected)
		return fmt.Errorf("navigate %s: %w", tabID, err)
	}

	o.bus.Publish(types.TabUpdated(snap))
	o.metrics.RecordNavigation(monitoring.NavigationAccepted)

	o.log.Debug("Navigation started",
		logging.Tab(tabID),
		logging.Generation(req.Generation),
		logging.URL(url))

	o.wg.Add(1)
	go o.fetch(ctx, req)
	return nil
}

// fetch runs one navigation to completion and applies its result
func (o *Orchestrator) fetch(ctx context.Context, req types.PageRequest) {
	defer o.wg.Done()
	o.complete(req, o.run(ctx, req))
}

func (o *Orchestrator) run(ctx context.Context, req types.PageRequest) (resp types.PageResponse) {
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.metrics.IncPanics()
			o.log.Error("Fetch panicked",
				logging.Tab(req.Tab),
				logging.Generation(req.Generation),
				logging.URL(req.URL),
				zap.Any("panic", r),
				zap.Stack("stack"))
			resp = types.NetworkFailure(req.URL, types.KindInternal, started, time.Now())
		}
	}()

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return types.Cancelled(req.URL, started, time.Now())
	}
	defer o.sem.Release(1)

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	timer := monitoring.NewTimer(o.metrics)
	status := types.StatusNetworkError
	defer func() { timer.Stop(string(status)) }()

	resp = o.fetcher.FetchDocument(fetchCtx, req.URL)
	status = resp.Status
	return resp
}

// complete applies resp if it belongs to the tab's current generation
func (o *Orchestrator) complete(req types.PageRequest, resp types.PageResponse) {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap, outcome := o.registry.Complete(req, resp)
	o.metrics.RecordResult(outcome.String())

	switch outcome {
	case tab.Applied:
		o.bus.Publish(types.TabUpdated(snap))
		o.log.Debug("Navigation finished",
			logging.Tab(req.Tab),
			logging.Generation(req.Generation),
			zap.String("status", string(resp.Status)),
			zap.Int("code", resp.Code))
	case tab.Stale:
		o.log.Debug("Discarded stale result",
			logging.Tab(req.Tab),
			logging.Generation(req.Generation),
			zap.Uint64("current_generation", uint64(snap.Generation)))
	case tab.Gone:
		o.log.Debug("Discarded result for closed tab", logging.Tab(req.Tab))
	}
}

// guard turns a panic in a command handler into ErrInternal for that caller
func (o *Orchestrator) guard(op string, tabID types.TabID, err *error) {
	r := recover()
	if r == nil {
		return
	}
	o.metrics.IncPanics()
	o.log.Error("Command panicked",
		zap.String("command", op),
		logging.Tab(tabID),
		zap.Any("panic", r),
		zap.Stack("stack"))
	*err = fmt.Errorf("%s: %w", op, ErrInternal)
}
