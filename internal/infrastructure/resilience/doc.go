/*
Package resilience provides the circuit breakers the transport puts in front
of each remote host.

# States

- Closed: requests pass through
- Open: the host is failing, requests fail immediately with ErrCircuitOpen
- Half-Open: a limited number of probes test whether the host recovered

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           v
	                                         Open

Requests abandoned through context cancellation (not deadline expiry) are neither successes nor
failures: a user navigating away says nothing about the host.

# Usage

	hosts := resilience.NewHostSet(resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 10
		},
	})

	err := hosts.For("example.test").Do(ctx, func() error {
		return roundTrip(ctx)
	})
*/
package resilience
