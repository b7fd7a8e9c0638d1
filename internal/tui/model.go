// Package tui drives the full-screen dashboard. The Bubble Tea model is a
// thin shell: keystrokes go through the state package's binding table, the
// pipelines write into the shared state from their own goroutines, and View
// renders from a snapshot.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/help"
	"go.uber.org/zap"

	"github.com/ToKoel/tugboat/internal/dockerx"
	"github.com/ToKoel/tugboat/internal/pipeline"
	"github.com/ToKoel/tugboat/internal/state"
)

const (
	// renderInterval keeps the view fresh while producers write in the
	// background and no keys arrive.
	renderInterval = 200 * time.Millisecond

	// refreshInterval re-lists containers between keystrokes.
	refreshInterval = time.Second

	// listTimeout bounds one container-list round trip.
	listTimeout = 2 * time.Second

	// restartStopTimeout is the graceful-stop window passed to the engine.
	restartStopTimeout = 10
)

type (
	// tickMsg forces a re-render from the current snapshot.
	tickMsg time.Time

	// refreshMsg triggers a periodic container list.
	refreshMsg time.Time

	// containersMsg carries a fresh container list.
	containersMsg []dockerx.Container

	// restartDoneMsg reports the outcome of a best-effort restart.
	restartDoneMsg struct {
		id  string
		err error
	}
)

// Model is the Bubble Tea shell around the shared app state.
type Model struct {
	app    *state.App
	client dockerx.Client
	log    *zap.Logger

	width  int
	height int

	help help.Model
	keys keyMap
}

// New assembles the model. A nil logger is replaced with a no-op one.
func New(app *state.App, client dockerx.Client, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		app:    app,
		client: client,
		log:    log,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts the render tick, the refresh tick, and the first list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listContainers(), renderTick(), refreshTick())
}

func renderTick() tea.Cmd {
	return tea.Tick(renderInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshMsg(t) })
}

// Update handles one message. Keystrokes are dispatched through the binding
// table; any task or restart requests the dispatch queued are drained here,
// outside the state lock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.app.StopTasks()
			return m, tea.Quit
		}
		if m.app.HandleKey(msg.String()) == state.Exit {
			m.app.StopTasks()
			return m, tea.Quit
		}
		m.drainTaskRequests()
		cmds := []tea.Cmd{m.listContainers()}
		if id, ok := m.app.TakeRestartRequest(); ok {
			cmds = append(cmds, m.restartContainer(id))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		// Mouse capture is on but the dispatcher ignores the wheel.
		return m, nil

	case containersMsg:
		m.app.SetContainers([]dockerx.Container(msg))
		return m, nil

	case tickMsg:
		return m, renderTick()

	case refreshMsg:
		return m, tea.Batch(m.listContainers(), refreshTick())

	case restartDoneMsg:
		if msg.err != nil {
			m.log.Debug("restart failed", zap.String("container", msg.id), zap.Error(msg.err))
			m.app.SetStatus("Restart failed: " + msg.err.Error())
		} else {
			m.app.SetStatus("Restarted " + shortID(msg.id))
		}
		return m, nil
	}

	return m, nil
}

// drainTaskRequests spawns producers for any targets the last dispatch
// queued. The cancellation handle lands back in the state so the quit
// bindings can abort the goroutine.
func (m Model) drainTaskRequests() {
	if id, ok := m.app.TakeLogRequest(); ok {
		ctx, cancel := context.WithCancel(context.Background())
		m.app.SetLogCancel(cancel)
		go pipeline.NewLogTailer(m.client, m.app, m.log).Run(ctx, id)
	}
	if id, ok := m.app.TakeStatsRequest(); ok {
		ctx, cancel := context.WithCancel(context.Background())
		m.app.SetStatsCancel(cancel)
		go pipeline.NewStatsCollector(m.client, m.app, m.log).Run(ctx, id)
	}
}

// listContainers asynchronously refreshes the container table. Failures keep
// the previous list.
func (m Model) listContainers() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		containers, err := m.client.ListContainers(ctx)
		if err != nil {
			m.log.Debug("container list failed", zap.Error(err))
			return nil
		}
		return containersMsg(containers)
	}
}

// restartContainer issues a best-effort restart.
func (m Model) restartContainer(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := m.client.RestartContainer(ctx, id, restartStopTimeout)
		return restartDoneMsg{id: id, err: err}
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
