package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	home     key.Binding
	end      key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	clear    key.Binding
	viewMode key.Binding
	sort     key.Binding
	reverse  key.Binding
	zoomIn   key.Binding
	zoomOut  key.Binding
	filter   key.Binding
	toggle   key.Binding
	open     key.Binding
	wishlist key.Binding
	refresh  key.Binding
	jobs     key.Binding
	cancel   key.Binding
	cleanup  key.Binding
	helpKey  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first")),
		end:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		viewMode: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view mode")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		reverse:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "reverse sort")),
		zoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		zoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle ignore")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open banner")),
		wishlist: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wishlist")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		jobs:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "jobs")),
		cancel:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel job")),
		cleanup:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "cleanup jobs")),
		helpKey:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.viewMode, k.sort, k.jobs, k.helpKey, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.home, k.end},
		{k.enter, k.back, k.search, k.clear, k.filter},
		{k.viewMode, k.sort, k.reverse, k.zoomIn, k.zoomOut},
		{k.jobs, k.cancel, k.cleanup, k.refresh},
		{k.toggle, k.open, k.wishlist, k.helpKey, k.quit},
	}
}
