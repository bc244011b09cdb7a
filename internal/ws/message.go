package ws

import (
	"time"

	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

// Inbound message types
const (
	TypeOpen     = "open"
	TypeClose    = "close"
	TypeNavigate = "navigate"
	TypeStop     = "stop"
	TypeReload   = "reload"
	TypePing     = "ping"
)

// Outbound message types
const (
	TypeWelcome = "welcome"
	TypeAck     = "ack"
	TypeError   = "error"
	TypeEvent   = "event"
	TypePong    = "pong"
)

// Request is a client message
type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	TabID     string `json:"tab_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Reply is a server message. Only the fields of its type are set.
type Reply struct {
	Type         string              `json:"type"`
	RequestID    string              `json:"request_id,omitempty"`
	ConnectionID string              `json:"connection_id,omitempty"`
	Command      string              `json:"command,omitempty"`
	TabID        types.TabID         `json:"tab_id,omitempty"`
	Error        string              `json:"error,omitempty"`
	Code         int                 `json:"code,omitempty"`
	Event        *types.Event        `json:"event,omitempty"`
	Tabs         []types.TabSnapshot `json:"tabs,omitempty"`
	Timestamp    int64               `json:"timestamp"`
}

func newReply(kind string) Reply {
	return Reply{Type: kind, Timestamp: time.Now().Unix()}
}

// command maps a request onto a core command
func (r Request) command() (types.Command, bool) {
	tab := types.TabID(r.TabID)
	switch r.Type {
	case TypeOpen:
		return types.Command{Type: types.CommandOpenTab, Title: r.Title}, true
	case TypeClose:
		return types.CloseTab(tab), true
	case TypeNavigate:
		return types.Navigate(tab, r.URL), true
	case TypeStop:
		return types.Stop(tab), true
	case TypeReload:
		return types.Reload(tab), true
	default:
		return types.Command{}, false
	}
}
