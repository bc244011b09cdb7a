package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
)

// ErrUnknownCommand is returned for command types the core does not handle
var ErrUnknownCommand = errors.New("unknown command")

// DefaultCommandBuffer is the command queue length used by NewRuntime
const DefaultCommandBuffer = 64

// Handle executes one command synchronously
func (o *Orchestrator) Handle(cmd types.Command) types.CommandResult {
	switch cmd.Type {
	case types.CommandOpenTab:
		tabID, err := o.OpenTabWithTitle(cmd.Title)
		return types.CommandResult{Tab: tabID, Err: err}
	case types.CommandCloseTab:
		return types.CommandResult{Tab: cmd.Tab, Err: o.CloseTab(cmd.Tab)}
	case types.CommandNavigate:
		return types.CommandResult{Tab: cmd.Tab, Err: o.Navigate(cmd.Tab, cmd.URL)}
	case types.CommandStop:
		return types.CommandResult{Tab: cmd.Tab, Err: o.Stop(cmd.Tab)}
	case types.CommandReload:
		return types.CommandResult{Tab: cmd.Tab, Err: o.Reload(cmd.Tab)}
	default:
		return types.CommandResult{Tab: cmd.Tab, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)}
	}
}

// Runtime is the command channel into the core: one dispatcher goroutine
// handles commands in arrival order.
type Runtime struct {
	orchestrator *Orchestrator
	commands     chan types.Command
	done         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	log          *logging.Logger
}

// NewRuntime starts a dispatcher for o. buffer <= 0 uses DefaultCommandBuffer.
func NewRuntime(o *Orchestrator, buffer int) *Runtime {
	if buffer <= 0 {
		buffer = DefaultCommandBuffer
	}
	r := &Runtime{
		orchestrator: o,
		commands:     make(chan types.Command, buffer),
		done:         make(chan struct{}),
		log:          o.log.Named("runtime"),
	}

	r.wg.Add(1)
	go r.dispatch()
	return r
}

// Orchestrator returns the core behind the runtime
func (r *Runtime) Orchestrator() *Orchestrator {
	return r.orchestrator
}

// Send queues cmd without waiting. The result, if wanted, arrives on
// cmd.Reply, which needs room for one value.
func (r *Runtime) Send(ctx context.Context, cmd types.Command) error {
	select {
	case <-r.done:
		return ErrShutdown
	default:
	}

	select {
	case r.commands <- cmd:
		return nil
	case <-r.done:
		return ErrShutdown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit queues cmd and waits for its result
func (r *Runtime) Submit(ctx context.Context, cmd types.Command) (types.CommandResult, error) {
	reply := make(chan types.CommandResult, 1)
	cmd.Reply = reply

	if err := r.Send(ctx, cmd); err != nil {
		return types.CommandResult{}, err
	}

	select {
	case res := <-reply:
		return res, res.Err
	case <-r.done:
		return types.CommandResult{}, ErrShutdown
	case <-ctx.Done():
		return types.CommandResult{}, ctx.Err()
	}
}

// Tabs returns snapshots of every open tab
func (r *Runtime) Tabs() []types.TabSnapshot {
	return r.orchestrator.Tabs()
}

// Snapshot returns the current state of one tab
func (r *Runtime) Snapshot(tabID types.TabID) (types.TabSnapshot, error) {
	return r.orchestrator.Snapshot(tabID)
}

// Subscribe starts a new event stream
func (r *Runtime) Subscribe() *events.Subscription {
	return r.orchestrator.Subscribe()
}

// Unsubscribe ends an event stream
func (r *Runtime) Unsubscribe(sub *events.Subscription) {
	r.orchestrator.Unsubscribe(sub)
}

// Close stops the dispatcher and shuts the orchestrator down
func (r *Runtime) Close(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.done) })
	r.wg.Wait()
	return r.orchestrator.Shutdown(ctx)
}

func (r *Runtime) dispatch() {
	defer r.wg.Done()

	for {
		select {
		case cmd := <-r.commands:
			r.reply(cmd, r.orchestrator.Handle(cmd))
		case <-r.done:
			r.drain()
			return
		}
	}
}

// drain answers queued commands after Close so no caller waits forever
func (r *Runtime) drain() {
	for {
		select {
		case cmd := <-r.commands:
			r.reply(cmd, types.CommandResult{Tab: cmd.Tab, Err: ErrShutdown})
		default:
			return
		}
	}
}

func (r *Runtime) reply(cmd types.Command, res types.CommandResult) {
	if cmd.Reply == nil {
		if res.Err != nil {
			r.log.Debug("Command failed",
				zap.String("command", string(cmd.Type)),
				logging.Tab(cmd.Tab),
				zap.Error(res.Err))
		}
		return
	}

	select {
	case cmd.Reply <- res:
	default:
		r.log.Warn("Dropped command reply, reply channel full",
			zap.String("command", string(cmd.Type)),
			logging.Tab(cmd.Tab))
	}
}
