package ui

import "github.com/charmbracelet/bubbles/key"

// globalKeys switch between top-level screens.
type globalKeys struct {
	Workflows  key.Binding
	Namespaces key.Binding
	Help       key.Binding
	ForceQuit  key.Binding
}

type workflowKeys struct {
	globalKeys
	Quit     key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Open     key.Binding
	Search   key.Binding
	Filter   key.Binding
	Clear    key.Binding
	Auto     key.Binding
	Refresh  key.Binding
	Next     key.Binding
	Prev     key.Binding
	Copy     key.Binding
	CopyRun  key.Binding
	Retry    key.Binding
}

type namespaceKeys struct {
	globalKeys
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Switch   key.Binding
	Search   key.Binding
	Refresh  key.Binding
}

type detailKeys struct {
	globalKeys
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Inspect   key.Binding
	Terminate key.Binding
	Cancel    key.Binding
	Signal    key.Binding
	Reload    key.Binding
	More      key.Binding
	Copy      key.Binding
	CopyRun   key.Binding
}

type overlayKeys struct {
	Close    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Copy     key.Binding
}

type helpKeys struct {
	Close    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// inputKeys apply to the search prompt and dialogs.
type inputKeys struct {
	Confirm  key.Binding
	Cancel   key.Binding
	Previous key.Binding
	Next     key.Binding
}

type keyMap struct {
	Workflows  workflowKeys
	Namespaces namespaceKeys
	Detail     detailKeys
	Overlay    overlayKeys
	HelpScreen helpKeys
	Input      inputKeys
}

func defaultKeyMap() keyMap {
	global := globalKeys{
		Workflows:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "workflows")),
		Namespaces: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "namespaces")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	up := key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up"))
	down := key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down"))
	top := key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first"))
	bottom := key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last"))
	pgup := key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up"))
	pgdown := key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "scroll down"))
	pageUp := key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up"))
	pageDown := key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down"))
	return keyMap{
		Workflows: workflowKeys{
			globalKeys: global,
			Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
			Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear query/quit")),
			Up:         up,
			Down:       down,
			Top:        top,
			Bottom:     bottom,
			PageUp:     pageUp,
			PageDown:   pageDown,
			Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
			Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
			Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
			Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
			Auto:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-refresh")),
			Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			Next:       key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("→/n", "next page")),
			Prev:       key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("←/p", "prev page")),
			Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
			CopyRun:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy run id")),
			Retry:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reconnect")),
		},
		Namespaces: namespaceKeys{
			globalKeys: global,
			Back:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "back")),
			Up:         up,
			Down:       down,
			Top:        top,
			Bottom:     bottom,
			PageUp:     pageUp,
			PageDown:   pageDown,
			Switch:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch")),
			Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
			Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		},
		Detail: detailKeys{
			globalKeys: global,
			Back:       key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "back")),
			Up:         up,
			Down:       down,
			Top:        top,
			Bottom:     bottom,
			PageUp:     pageUp,
			PageDown:   pageDown,
			Inspect:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "inspect event")),
			Terminate:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "terminate")),
			Cancel:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel")),
			Signal:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "signal")),
			Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
			More:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more events")),
			Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
			CopyRun:    key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy run id")),
		},
		Overlay: overlayKeys{
			Close:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "close")),
			Up:       up,
			Down:     down,
			PageUp:   pgup,
			PageDown: pgdown,
			Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy json")),
		},
		HelpScreen: helpKeys{
			Close:    key.NewBinding(key.WithKeys("q", "esc", "?"), key.WithHelp("q/esc/?", "back")),
			Up:       up,
			Down:     down,
			PageUp:   pgup,
			PageDown: pgdown,
		},
		Input: inputKeys{
			Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
			Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
			Previous: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older query")),
			Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer query")),
		},
	}
}

func (k workflowKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Filter, k.Refresh, k.Next, k.Prev, k.Help, k.Quit}
}

func (k workflowKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.Open, k.Copy, k.CopyRun},
		{k.Search, k.Filter, k.Clear, k.Refresh, k.Auto},
		{k.Next, k.Prev, k.Retry, k.Back, k.Quit},
		{k.Workflows, k.Namespaces, k.Help},
	}
}

func (k namespaceKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Search, k.Refresh, k.Back}
}

func (k namespaceKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Switch, k.Search, k.Refresh, k.Back},
	}
}

func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Inspect, k.Terminate, k.Cancel, k.Signal, k.More, k.Reload, k.Back}
}

func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.Inspect},
		{k.Terminate, k.Cancel, k.Signal},
		{k.Reload, k.More, k.Copy, k.CopyRun, k.Back},
	}
}

func (k overlayKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Copy, k.Close}
}

func (k overlayKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}, {k.Copy, k.Close}}
}

func (k helpKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Close}
}

func (k helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel, k.Previous, k.Next}}
}
