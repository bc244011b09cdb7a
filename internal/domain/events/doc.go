/*
Package events carries state changes from the browser core to its front ends.

Every published event gets a bus-wide sequence number. Subscribers receive
events in that order, without loss or duplication, from the moment they
subscribe:

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	for ev := range sub.Events() {
		render(ev)
	}
*/
package events
