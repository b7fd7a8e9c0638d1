// Package state holds the authoritative dashboard state and the modal
// keybinding machine that mutates it. Everything lives behind one RWMutex:
// the input dispatcher and the pipeline producers write, the renderer reads
// a snapshot.
package state

import (
	"context"
	"sync"

	"github.com/ToKoel/tugboat/internal/core"
	"github.com/ToKoel/tugboat/internal/dockerx"
)

// Mode selects which panel is focused and which bindings are active.
type Mode int

const (
	ModeNormal Mode = iota
	ModeContextMenu
	ModeLogs
	ModeSearch
	ModeHelp
	ModeResources
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeContextMenu:
		return "menu"
	case ModeLogs:
		return "logs"
	case ModeSearch:
		return "search"
	case ModeHelp:
		return "help"
	case ModeResources:
		return "resources"
	default:
		return "unknown"
	}
}

// MenuItems is the fixed context-menu, in display order. The Enter action
// indexes into it.
var MenuItems = []string{"Logs", "Stats", "Restart"}

const (
	// MaxLogLines caps the log buffer.
	MaxLogLines = 1000

	// CleanupThreshold is how many appended lines accumulate before the
	// buffer is trimmed back to MaxLogLines.
	CleanupThreshold = 100

	// LoadingSentinel seeds the log buffer when a Logs session begins and
	// is dropped on the first real flush.
	LoadingSentinel = "Loading logs..."

	// jumpBottomOffset is how far above the end "jump to latest" lands.
	jumpBottomOffset = 15

	// hScrollStep is the horizontal pan distance per keypress.
	hScrollStep = 10
)

// Options tunes the buffer bounds. Zero values fall back to the defaults
// above; the config file feeds this.
type Options struct {
	MaxLogLines    int
	WindowCapacity int
}

// App is the single mutable aggregate. All exported methods lock; the
// binding actions in keys.go run with the lock already held by HandleKey.
type App struct {
	mu sync.RWMutex

	running    bool
	mode       Mode
	lastMode   Mode
	containers []dockerx.Container
	selected   int

	menuSelected int

	logs             []string
	maxLogLines      int
	sinceTrim        int
	verticalScroll   int
	horizontalScroll int
	userScrolled     bool
	visibleHeight    int

	searchQuery   string
	searchMatches []int
	currentMatch  int

	cpu *core.MaxWindow
	mem *core.MaxWindow

	logCancel   context.CancelFunc
	statsCancel context.CancelFunc

	// Requests the model drains after each dispatch: container ids whose
	// log/stats task should start, and a pending best-effort restart.
	logRequest    string
	statsRequest  string
	restartTarget string

	status string
}

// New creates the initial state: Normal mode, running, empty buffers.
func New(opts Options) *App {
	maxLines := opts.MaxLogLines
	if maxLines <= 0 {
		maxLines = MaxLogLines
	}
	return &App{
		running:      true,
		mode:         ModeNormal,
		lastMode:     ModeNormal,
		maxLogLines:  maxLines,
		currentMatch: -1,
		cpu:          core.NewMaxWindow(opts.WindowCapacity),
		mem:          core.NewMaxWindow(opts.WindowCapacity),
	}
}

// Snapshot is an immutable copy of everything the renderer needs.
type Snapshot struct {
	Running    bool
	Mode       Mode
	LastMode   Mode
	Containers []dockerx.Container
	Selected   int

	MenuSelected int

	Logs             []string
	VerticalScroll   int
	HorizontalScroll int
	UserScrolled     bool

	SearchQuery   string
	SearchMatches []int
	CurrentMatch  int

	CPU    []core.Point
	Mem    []core.Point
	CPUMax float64
	MemMax float64

	Status string
}

// Snapshot copies the current state under the read lock.
func (a *App) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := Snapshot{
		Running:          a.running,
		Mode:             a.mode,
		LastMode:         a.lastMode,
		Selected:         a.selected,
		MenuSelected:     a.menuSelected,
		VerticalScroll:   a.verticalScroll,
		HorizontalScroll: a.horizontalScroll,
		UserScrolled:     a.userScrolled,
		SearchQuery:      a.searchQuery,
		CurrentMatch:     a.currentMatch,
		CPU:              a.cpu.Points(),
		Mem:              a.mem.Points(),
		Status:           a.status,
	}
	s.Containers = make([]dockerx.Container, len(a.containers))
	copy(s.Containers, a.containers)
	s.Logs = make([]string, len(a.logs))
	copy(s.Logs, a.logs)
	s.SearchMatches = make([]int, len(a.searchMatches))
	copy(s.SearchMatches, a.searchMatches)
	s.CPUMax, _ = a.cpu.Max()
	s.MemMax, _ = a.mem.Max()
	return s
}

// Running reports whether the dashboard should keep going.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Mode returns the current mode.
func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// SetContainers replaces the container table and re-clamps the selection.
// The previous list stays in place on refresh failure, so callers only call
// this on success.
func (a *App) SetContainers(containers []dockerx.Container) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.containers = containers
	if len(a.containers) == 0 {
		a.selected = 0
	} else if a.selected >= len(a.containers) {
		a.selected = len(a.containers) - 1
	}
}

// SetVisibleHeight records the log viewport height measured by the renderer.
// The log pipeline reads it to compute the follow offset.
func (a *App) SetVisibleHeight(h int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h < 0 {
		h = 0
	}
	a.visibleHeight = h
}

// SetStatus replaces the status-bar message.
func (a *App) SetStatus(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = msg
}

// AppendLogs is the flush path of the log pipeline: append a batch, drop the
// loading sentinel if it is still the only content, recompute the follow
// offset unless the user has scrolled, and trim once enough new lines have
// accumulated.
func (a *App) AppendLogs(lines []string) {
	if len(lines) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.logs) == 1 && a.logs[0] == LoadingSentinel {
		a.logs = a.logs[:0]
	}
	a.logs = append(a.logs, lines...)

	if !a.userScrolled {
		a.verticalScroll = a.followOffset()
	}

	a.sinceTrim += len(lines)
	if a.sinceTrim >= CleanupThreshold {
		if excess := len(a.logs) - a.maxLogLines; excess > 0 {
			a.logs = a.logs[excess:]
			if !a.userScrolled {
				a.verticalScroll = a.followOffset()
			}
		}
		a.sinceTrim = 0
	}
}

// followOffset computes the scroll that pins the viewport to the tail.
// Callers hold the lock.
func (a *App) followOffset() int {
	off := len(a.logs) - a.visibleHeight
	if off < 0 {
		return 0
	}
	return off
}

// AddCPUSample pushes one CPU percent sample into the rolling window.
func (a *App) AddCPUSample(ts, percent float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cpu.Add(ts, percent)
}

// AddMemSample pushes one memory percent sample into the rolling window.
func (a *App) AddMemSample(ts, percent float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mem.Add(ts, percent)
}

// SetLogCancel stores the cancellation handle of a freshly spawned log task.
// A still-live previous task is cancelled first; at most one is alive.
func (a *App) SetLogCancel(cancel context.CancelFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.logCancel != nil {
		a.logCancel()
	}
	a.logCancel = cancel
}

// SetStatsCancel stores the cancellation handle of a stats task.
func (a *App) SetStatsCancel(cancel context.CancelFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.statsCancel != nil {
		a.statsCancel()
	}
	a.statsCancel = cancel
}

// HasLogTask reports whether a log task handle is held.
func (a *App) HasLogTask() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logCancel != nil
}

// HasStatsTask reports whether a stats task handle is held.
func (a *App) HasStatsTask() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.statsCancel != nil
}

// StopTasks cancels both producers. Used on shutdown.
func (a *App) StopTasks() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLogTask()
	a.stopStatsTask()
}

// stopLogTask cancels a live log task and clears the handle. Lock held.
func (a *App) stopLogTask() {
	if a.logCancel != nil {
		a.logCancel()
		a.logCancel = nil
	}
}

// stopStatsTask cancels a live stats task and clears the handle. Lock held.
func (a *App) stopStatsTask() {
	if a.statsCancel != nil {
		a.statsCancel()
		a.statsCancel = nil
	}
}

// TakeLogRequest returns and clears the container id whose log task should
// start. The model drains this after every dispatch.
func (a *App) TakeLogRequest() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.logRequest
	a.logRequest = ""
	return id, id != ""
}

// TakeStatsRequest returns and clears the pending stats-task target.
func (a *App) TakeStatsRequest() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.statsRequest
	a.statsRequest = ""
	return id, id != ""
}

// TakeRestartRequest returns and clears the pending restart target.
func (a *App) TakeRestartRequest() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.restartTarget
	a.restartTarget = ""
	return id, id != ""
}

// clearSearch resets query, matches and cursor. Lock held.
func (a *App) clearSearch() {
	a.searchQuery = ""
	a.searchMatches = nil
	a.currentMatch = -1
}

// selectedContainer returns the selected row, if any. Lock held.
func (a *App) selectedContainer() (dockerx.Container, bool) {
	if len(a.containers) == 0 || a.selected >= len(a.containers) {
		return dockerx.Container{}, false
	}
	return a.containers[a.selected], true
}
