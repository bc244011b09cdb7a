package resilience

import (
	"sync"
)

// HostSet hands out one breaker per host so a failing site cannot trip
// navigation to healthy ones.
type HostSet struct {
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewHostSet creates an empty set; every breaker shares settings.
func NewHostSet(settings Settings) *HostSet {
	return &HostSet{
		settings: settings,
		breakers: make(map[string]*Breaker),
	}
}

// For returns the breaker for host, creating it on first use.
func (h *HostSet) For(host string) *Breaker {
	h.mu.Lock()
	defer h.mu.Unlock()

	b, ok := h.breakers[host]
	if !ok {
		b = New(host, h.settings)
		h.breakers[host] = b
	}
	return b
}

// States reports the current state of every known host.
func (h *HostSet) States() map[string]State {
	h.mu.Lock()
	breakers := make([]*Breaker, 0, len(h.breakers))
	for _, b := range h.breakers {
		breakers = append(breakers, b)
	}
	h.mu.Unlock()

	states := make(map[string]State, len(breakers))
	for _, b := range breakers {
		states[b.Name()] = b.State()
	}
	return states
}
