package tab

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/GriffinCanCode/asterix/internal/shared/id"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

// ErrNotFound is returned for ids that were never opened or are closed
var ErrNotFound = errors.New("tab not found")

// Outcome says what Complete did with a fetch result
type Outcome int

const (
	Applied Outcome = iota
	Stale
	Gone
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Gone:
		return "gone"
	default:
		return "unknown"
	}
}

type entry struct {
	snapshot types.TabSnapshot
	cancel   context.CancelFunc // nil when idle
}

// Registry owns every open tab. Locks cover in-memory work only.
type Registry struct {
	mu   sync.RWMutex
	tabs map[types.TabID]*entry // Protected by mu
	ids  *id.Generator
}

// NewRegistry creates an empty registry. A nil generator uses id.Default().
func NewRegistry(ids *id.Generator) *Registry {
	if ids == nil {
		ids = id.Default()
	}
	return &Registry{
		tabs: make(map[types.TabID]*entry),
		ids:  ids,
	}
}

// Open creates a blank, idle tab at generation 0
func (r *Registry) Open() types.TabID {
	return r.open(nil)
}

// OpenWithTitle creates a blank tab with an initial title
func (r *Registry) OpenWithTitle(title string) types.TabID {
	return r.open(&title)
}

func (r *Registry) open(title *string) types.TabID {
	tab := r.ids.NewTab()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tabs[tab] = &entry{
		snapshot: types.TabSnapshot{ID: tab, Title: title},
	}
	return tab
}

// Close removes a tab and cancels its fetch. Unknown ids return false.
func (r *Registry) Close(tab types.TabID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tabs[tab]
	if !ok {
		return false
	}
	if e.cancel != nil {
		e.cancel()
	}
	delete(r.tabs, tab)
	return true
}

// Snapshot returns a copy of the tab's state
func (r *Registry) Snapshot(tab types.TabID) (types.TabSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.tabs[tab]
	if !ok {
		return types.TabSnapshot{}, false
	}
	return e.snapshot.Clone(), true
}

// Update mutates a tab through fn. ID and Generation are restored after fn
// runs; only Begin moves the generation.
func (r *Registry) Update(tab types.TabID, fn func(*types.TabSnapshot)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tabs[tab]
	if !ok {
		return false
	}
	tabID, generation := e.snapshot.ID, e.snapshot.Generation
	fn(&e.snapshot)
	e.snapshot.ID, e.snapshot.Generation = tabID, generation
	return true
}

// List returns copies of all tabs, oldest first
func (r *Registry) List() []types.TabSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]types.TabSnapshot, 0, len(r.tabs))
	for _, e := range r.tabs {
		list = append(list, e.snapshot.Clone())
	}
	// ULIDs sort in creation order
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Begin starts a navigation: it bumps the generation, records url, marks
// the tab loading and cancels the previous fetch. The returned context is
// cancelled by the next Begin, Cancel or Close.
func (r *Registry) Begin(parent context.Context, tab types.TabID, url string) (types.PageRequest, context.Context, types.TabSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tabs[tab]
	if !ok {
		return types.PageRequest{}, nil, types.TabSnapshot{}, ErrNotFound
	}

	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	e.cancel = cancel

	e.snapshot.Generation++
	e.snapshot.URL = url
	e.snapshot.Loading = true

	req := types.PageRequest{
		Tab:        tab,
		URL:        url,
		Generation: e.snapshot.Generation,
	}
	return req, ctx, e.snapshot.Clone(), nil
}

// Complete applies resp if req is still the tab's current navigation
func (r *Registry) Complete(req types.PageRequest, resp types.PageResponse) (types.TabSnapshot, Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tabs[req.Tab]
	if !ok {
		return types.TabSnapshot{}, Gone
	}
	if e.snapshot.Generation != req.Generation {
		return e.snapshot.Clone(), Stale
	}

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}

	applied := resp.Clone()
	e.snapshot.Loading = false
	e.snapshot.LastResponse = &applied

	switch resp.Status {
	case types.StatusOK, types.StatusHTTPError:
		if resp.URL != "" {
			e.snapshot.URL = resp.URL
		}
		loaded := resp.FetchedAt
		e.snapshot.LastLoaded = &loaded
		if resp.Title != nil {
			title := *resp.Title
			e.snapshot.Title = &title
		}
	}

	return e.snapshot.Clone(), Applied
}

// Cancel aborts the tab's in-flight fetch without moving the generation.
// It reports whether a fetch was running.
func (r *Registry) Cancel(tab types.TabID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tabs[tab]
	if !ok || e.cancel == nil {
		return false
	}
	e.cancel()
	return true
}

// CancelAll aborts every in-flight fetch
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancelled := 0
	for _, e := range r.tabs {
		if e.cancel != nil {
			e.cancel()
			cancelled++
		}
	}
	return cancelled
}

// Len returns the number of open tabs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tabs)
}

// Loading returns the number of tabs with a fetch in flight
func (r *Registry) Loading() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loading := 0
	for _, e := range r.tabs {
		if e.snapshot.Loading {
			loading++
		}
	}
	return loading
}
