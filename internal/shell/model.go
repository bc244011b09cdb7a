package shell

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GriffinCanCode/asterix/internal/domain/events"
	"github.com/GriffinCanCode/asterix/internal/shared/types"
	"github.com/GriffinCanCode/asterix/internal/shared/utils"
)

// DefaultPreviewChars is how much of a page the preview shows
const DefaultPreviewChars = 2048

// Core is the part of the browser the shell drives
type Core interface {
	Submit(ctx context.Context, cmd types.Command) (types.CommandResult, error)
	Tabs() []types.TabSnapshot
	Subscribe() *events.Subscription
	Unsubscribe(sub *events.Subscription)
}

// Options configures the shell
type Options struct {
	PreviewChars int
	// StartURL is loaded into the first tab when set
	StartURL string
}

type model struct {
	core Core
	sub  *events.Subscription
	opts Options

	order  []types.TabID
	tabs   map[types.TabID]types.TabSnapshot
	active int

	input textinput.Model
	// edited is set while the url bar holds text the user typed
	edited bool

	notice string
	width  int
	height int
	closed bool
}

func newModel(core Core, opts Options) model {
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	m := model{
		core:  core,
		sub:   core.Subscribe(),
		opts:  opts,
		tabs:  make(map[types.TabID]types.TabSnapshot),
		input: newURLInput(),
	}
	for _, snap := range core.Tabs() {
		m.order = append(m.order, snap.ID)
		m.tabs[snap.ID] = snap
	}
	if len(m.order) > 0 {
		m.active = len(m.order) - 1
		m.input.SetValue(m.tabs[m.order[m.active]].URL)
	}
	return m
}

func newURLInput() textinput.Model {
	in := textinput.New()
	in.Prompt = "url "
	in.PromptStyle = urlLabelStyle
	in.TextStyle = urlStyle
	in.Placeholder = "type an address and press enter"
	in.PlaceholderStyle = dimStyle
	in.CharLimit = utils.MaxURLLength
	in.Focus()
	return in
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForEvent(m.sub), textinput.Blink}
	if len(m.order) == 0 {
		cmds = append(cmds, submit(m.core, types.OpenTab()))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil
	case eventMsg:
		m = m.applyEvent(msg.event)
		return m, waitForEvent(m.sub)
	case streamClosedMsg:
		m.closed = true
		m.notice = "browser core stopped"
		return m, tea.Quit
	case commandDoneMsg:
		return m.handleCommandDone(msg)
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) applyEvent(ev types.Event) model {
	switch ev.Type {
	case types.EventTabOpened:
		if _, ok := m.tabs[ev.Tab]; !ok {
			m.order = append(m.order, ev.Tab)
		}
		m.tabs[ev.Tab] = *ev.Snapshot
		m.active = len(m.order) - 1
		m.input.SetValue(ev.Snapshot.URL)
		m.edited = false
	case types.EventTabUpdated:
		if _, ok := m.tabs[ev.Tab]; !ok {
			return m
		}
		m.tabs[ev.Tab] = *ev.Snapshot
		if ev.Tab == m.activeTab() && !m.edited {
			m.input.SetValue(ev.Snapshot.URL)
		}
	case types.EventTabClosed:
		m = m.removeTab(ev.Tab)
	}
	return m
}

func (m model) removeTab(tab types.TabID) model {
	idx := -1
	for i, id := range m.order {
		if id == tab {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m
	}

	delete(m.tabs, tab)
	m.order = append(m.order[:idx:idx], m.order[idx+1:]...)
	if m.active >= len(m.order) {
		m.active = len(m.order) - 1
	}
	if m.active < 0 {
		m.active = 0
	}
	m.input.Reset()
	if snap, ok := m.activeSnapshot(); ok {
		m.input.SetValue(snap.URL)
	}
	m.edited = false
	return m
}

func (m model) handleCommandDone(msg commandDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notice = fmt.Sprintf("%s failed: %v", msg.command, msg.err)
		return m, nil
	}
	m.notice = ""

	// Load the start page into the first tab once it exists
	if msg.command == types.CommandOpenTab && m.opts.StartURL != "" {
		url := m.opts.StartURL
		m.opts.StartURL = ""
		return m, submit(m.core, types.Navigate(msg.result.Tab, url))
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.core.Unsubscribe(m.sub)
		return m, tea.Quit
	case "enter":
		tab := m.activeTab()
		if tab == "" {
			m.notice = "no tab open, press ctrl+t"
			return m, nil
		}
		m.edited = false
		return m, submit(m.core, types.Navigate(tab, m.input.Value()))
	case "ctrl+t":
		return m, submit(m.core, types.OpenTab())
	case "ctrl+w":
		if tab := m.activeTab(); tab != "" {
			return m, submit(m.core, types.CloseTab(tab))
		}
		return m, nil
	case "tab":
		if len(m.order) > 0 {
			m.active = (m.active + 1) % len(m.order)
			m.input.SetValue(m.tabs[m.order[m.active]].URL)
			m.edited = false
		}
		return m, nil
	case "ctrl+r":
		if tab := m.activeTab(); tab != "" {
			return m, submit(m.core, types.Reload(tab))
		}
		return m, nil
	case "esc":
		if tab := m.activeTab(); tab != "" {
			return m, submit(m.core, types.Stop(tab))
		}
		return m, nil
	}

	// Everything else edits the url bar
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.edited = true
	}
	return m, cmd
}

func (m model) activeTab() types.TabID {
	if m.active < 0 || m.active >= len(m.order) {
		return ""
	}
	return m.order[m.active]
}

func (m model) activeSnapshot() (types.TabSnapshot, bool) {
	tab := m.activeTab()
	if tab == "" {
		return types.TabSnapshot{}, false
	}
	snap, ok := m.tabs[tab]
	return snap, ok
}

// Run starts the interactive shell and blocks until the user quits or ctx
// ends
func Run(ctx context.Context, core Core, opts Options) error {
	m := newModel(core, opts)
	defer core.Unsubscribe(m.sub)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
