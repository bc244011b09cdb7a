package types

// EventType names a core to UI event
type EventType string

const (
	EventTabOpened  EventType = "tab_opened"
	EventTabUpdated EventType = "tab_updated"
	EventTabClosed  EventType = "tab_closed"
)

// Event is delivered to the presentation layer in publication order
type Event struct {
	Seq      uint64       `json:"seq"`
	Type     EventType    `json:"type"`
	Tab      TabID        `json:"tab_id"`
	Snapshot *TabSnapshot `json:"snapshot,omitempty"`
}

// TabOpened builds a TabOpened event
func TabOpened(snapshot TabSnapshot) Event {
	s := snapshot.Clone()
	return Event{Type: EventTabOpened, Tab: s.ID, Snapshot: &s}
}

// TabUpdated builds a TabUpdated event
func TabUpdated(snapshot TabSnapshot) Event {
	s := snapshot.Clone()
	return Event{Type: EventTabUpdated, Tab: s.ID, Snapshot: &s}
}

// TabClosed builds a TabClosed event
func TabClosed(tab TabID) Event {
	return Event{Type: EventTabClosed, Tab: tab}
}
