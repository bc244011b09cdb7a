package types

// CommandType names a UI to core command
type CommandType string

const (
	CommandOpenTab  CommandType = "open"
	CommandCloseTab CommandType = "close"
	CommandNavigate CommandType = "navigate"
	CommandStop     CommandType = "stop"
	CommandReload   CommandType = "reload"
)

// Command is a request from the presentation layer
type Command struct {
	Type  CommandType
	Tab   TabID
	URL   string
	Title string

	// Reply receives exactly one CommandResult when non-nil
	Reply chan<- CommandResult
}

// CommandResult answers a Command
type CommandResult struct {
	Tab TabID
	Err error
}

// OpenTab builds an OpenTab command
func OpenTab() Command { return Command{Type: CommandOpenTab} }

// CloseTab builds a CloseTab command
func CloseTab(tab TabID) Command { return Command{Type: CommandCloseTab, Tab: tab} }

// Navigate builds a Navigate command
func Navigate(tab TabID, url string) Command {
	return Command{Type: CommandNavigate, Tab: tab, URL: url}
}

// Stop builds a Stop command
func Stop(tab TabID) Command { return Command{Type: CommandStop, Tab: tab} }

// Reload builds a Reload command
func Reload(tab TabID) Command { return Command{Type: CommandReload, Tab: tab} }
