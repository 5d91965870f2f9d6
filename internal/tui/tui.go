// Package tui is a live terminal dashboard for the running daemon: it polls
// the tiling state and turns key presses into actions.
package tui

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/bsptile/internal/wm"
)

// DefaultRefresh is how often the dashboard polls the daemon.
const DefaultRefresh = time.Second

// Client is the subset of the IPC client the dashboard uses.
type Client interface {
	RunAction(name string) error
	GetState() (*wm.Snapshot, error)
	Reload() error
}

type stateMsg struct {
	snap *wm.Snapshot
	err  error
}

type tickMsg time.Time

type actionDoneMsg struct {
	name string
	err  error
}

// model is the root bubbletea model.
type model struct {
	client  Client
	refresh time.Duration
	keys    keyMap
	help    help.Model

	snap      *wm.Snapshot
	connected bool
	lastErr   error
	status    string

	width  int
	height int
}

func newModel(client Client, refresh time.Duration) model {
	if refresh <= 0 {
		refresh = DefaultRefresh
	}
	return model{
		client:  client,
		refresh: refresh,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(client Client, refresh time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	_, err := tea.NewProgram(newModel(client, refresh), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetchState(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchState(), m.tick())

	case stateMsg:
		if msg.err != nil {
			m.connected = false
			m.lastErr = msg.err
			return m, nil
		}
		m.connected = true
		m.lastErr = nil
		m.snap = msg.snap
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.name, msg.err)
			return m, nil
		}
		m.status = msg.name
		return m, m.fetchState()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}

	if a, ok := m.keys.actionForKey(msg.String()); ok {
		return m, m.runAction(a.String())
	}
	return m, nil
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) fetchState() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		snap, err := client.GetState()
		return stateMsg{snap: snap, err: err}
	}
}

func (m model) runAction(name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return actionDoneMsg{name: name, err: client.RunAction(name)}
	}
}

func (m model) reload() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return actionDoneMsg{name: "reload", err: client.Reload()}
	}
}
