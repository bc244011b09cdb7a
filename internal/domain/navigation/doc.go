/*
Package navigation is the browser core: it turns commands from a front end
into fetches and fetch results into tab state and events.

Each tab moves between idle and loading. Every accepted navigation bumps
the tab's generation and cancels the previous fetch; a result is applied
only while its generation is still current, so the last navigation always
wins regardless of completion order.

	bus := events.NewBus()
	core := navigation.New(pipeline, bus, navigation.Options{MaxInFlight: 16})
	rt := navigation.NewRuntime(core, 0)

	sub := rt.Subscribe()
	res, err := rt.Submit(ctx, types.OpenTab())
	_, err = rt.Submit(ctx, types.Navigate(res.Tab, "example.test"))

Fetches are bounded by a weighted semaphore and a per-fetch timeout. A panic
in a fetch becomes a NetworkError(internal) for that tab only; a panic in a
command becomes ErrInternal for that caller.
*/
package navigation
