package shell

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

const commandTimeout = 5 * time.Second

// eventMsg carries one core event into the update loop
type eventMsg struct {
	event types.Event
}

// streamClosedMsg reports that the core closed the event stream
type streamClosedMsg struct{}

// commandDoneMsg reports the result of a submitted command
type commandDoneMsg struct {
	command types.CommandType
	result  types.CommandResult
	err     error
}

// waitForEvent blocks on the subscription for the next event
func waitForEvent(sub *events.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// submit runs cmd against the core off the update loop
func submit(core Core, cmd types.Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		res, err := core.Submit(ctx, cmd)
		return commandDoneMsg{command: cmd.Type, result: res, err: err}
	}
}
