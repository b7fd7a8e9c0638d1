package state

import (
	"unicode/utf8"

	"github.com/ToKoel/tugboat/internal/core"
)

// Action is the dispatcher's verdict for one keystroke.
type Action int

const (
	// Continue keeps the event loop going.
	Continue Action = iota
	// Exit requests a clean shutdown.
	Exit
)

// Binding pairs a set of Bubble Tea key strings with a mode-conditional
// mutation. The table below is scanned in order; earlier bindings win when
// key sets overlap.
type Binding struct {
	Keys        []string
	Description string
	run         func(a *App, key string)
}

// Bindings is the full binding table in precedence order. The help overlay
// renders from the descriptions.
var Bindings = []Binding{
	{
		Keys:        []string{"esc", "q"},
		Description: "quit / close panel",
		run:         actQuit,
	},
	{
		Keys:        []string{"up", "k"},
		Description: "move up / scroll up",
		run:         actUp,
	},
	{
		Keys:        []string{"down", "j"},
		Description: "move down / scroll down",
		run:         actDown,
	},
	{
		Keys:        []string{"left", "h"},
		Description: "pan logs left",
		run:         actLeft,
	},
	{
		Keys:        []string{"right", "l"},
		Description: "pan logs right",
		run:         actRight,
	},
	{
		Keys:        []string{"enter"},
		Description: "open / confirm",
		run:         actEnter,
	},
	{
		Keys:        []string{"backspace"},
		Description: "delete search character",
		run:         actBackspace,
	},
	{
		Keys:        []string{"G"},
		Description: "jump to latest logs",
		run:         actJumpToLatest,
	},
	{
		Keys:        []string{"/"},
		Description: "search",
		run:         actOpenSearch,
	},
	{
		Keys:        []string{"n"},
		Description: "next match",
		run:         actNextMatch,
	},
	{
		Keys:        []string{"N"},
		Description: "previous match",
		run:         actPrevMatch,
	},
	{
		Keys:        []string{"?"},
		Description: "help",
		run:         actOpenHelp,
	},
}

// isSearchControl reports whether key still acts as a control while typing a
// search query. Everything else is absorbed as text input.
func isSearchControl(key string) bool {
	switch key {
	case "esc", "enter", "backspace":
		return true
	}
	return false
}

// isPrintable reports whether key is a single character, i.e. text input
// rather than a named key like "up" or "ctrl+c".
func isPrintable(key string) bool {
	return utf8.RuneCountInString(key) == 1
}

// HandleKey dispatches one keystroke through the binding table under the
// write lock. In Search mode printable keys are absorbed into the query
// before the table is consulted, so a "q" typed into a search never quits.
func (a *App) HandleKey(key string) Action {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mode == ModeSearch && !isSearchControl(key) {
		if isPrintable(key) {
			a.searchQuery += key
		}
		return Continue
	}

	for _, b := range Bindings {
		for _, k := range b.Keys {
			if k == key {
				b.run(a, key)
				if !a.running {
					return Exit
				}
				return Continue
			}
		}
	}
	return Continue
}

func actQuit(a *App, _ string) {
	switch a.mode {
	case ModeNormal:
		a.running = false
	case ModeLogs:
		a.stopLogTask()
		a.clearSearch()
		a.mode = ModeNormal
	case ModeSearch:
		a.clearSearch()
		a.mode = a.lastMode
	case ModeContextMenu:
		a.mode = ModeNormal
	case ModeHelp:
		a.mode = a.lastMode
	case ModeResources:
		a.stopStatsTask()
		a.cpu.Clear()
		a.mem.Clear()
		a.mode = ModeNormal
	}
}

func actUp(a *App, _ string) {
	switch a.mode {
	case ModeNormal:
		if a.selected > 0 {
			a.selected--
		}
	case ModeLogs:
		a.userScrolled = true
		if a.verticalScroll > 0 {
			a.verticalScroll--
		}
	case ModeContextMenu:
		a.menuSelected = (a.menuSelected + len(MenuItems) - 1) % len(MenuItems)
	}
}

func actDown(a *App, _ string) {
	switch a.mode {
	case ModeNormal:
		if a.selected < len(a.containers)-1 {
			a.selected++
		}
	case ModeLogs:
		a.userScrolled = true
		a.verticalScroll++
	case ModeContextMenu:
		a.menuSelected = (a.menuSelected + 1) % len(MenuItems)
	}
}

func actLeft(a *App, _ string) {
	if a.mode != ModeLogs {
		return
	}
	a.horizontalScroll -= hScrollStep
	if a.horizontalScroll < 0 {
		a.horizontalScroll = 0
	}
}

func actRight(a *App, _ string) {
	if a.mode != ModeLogs {
		return
	}
	a.horizontalScroll += hScrollStep
}

func actEnter(a *App, _ string) {
	switch a.mode {
	case ModeNormal:
		if len(a.containers) == 0 {
			return
		}
		a.mode = ModeContextMenu
		a.menuSelected = 0
	case ModeContextMenu:
		a.confirmMenuItem()
	case ModeSearch:
		a.confirmSearch()
	}
}

// confirmMenuItem executes the highlighted menu entry. Lock held.
func (a *App) confirmMenuItem() {
	ctr, ok := a.selectedContainer()
	if !ok {
		a.mode = ModeNormal
		return
	}
	switch a.menuSelected {
	case 0: // Logs
		a.mode = ModeLogs
		a.logs = []string{LoadingSentinel}
		a.sinceTrim = 0
		a.verticalScroll = 0
		a.horizontalScroll = 0
		a.userScrolled = false
		a.logRequest = ctr.ID
	case 1: // Stats
		a.mode = ModeResources
		a.statsRequest = ctr.ID
	case 2: // Restart
		a.restartTarget = ctr.ID
		a.mode = ModeNormal
	}
}

// confirmSearch computes matches for the typed query and returns to the
// mode the search was opened from. Searching from Logs matches log lines
// and scrolls to the first hit; searching from Normal matches container
// images and moves the selection. Lock held.
func (a *App) confirmSearch() {
	if a.lastMode == ModeLogs {
		a.searchMatches = core.MatchIndices(a.logs, a.searchQuery)
		if len(a.searchMatches) > 0 {
			a.currentMatch = 0
			a.verticalScroll = a.searchMatches[0]
		} else {
			a.currentMatch = -1
		}
	} else {
		images := make([]string, len(a.containers))
		for i, c := range a.containers {
			images[i] = c.Image
		}
		a.searchMatches = core.MatchIndices(images, a.searchQuery)
		if len(a.searchMatches) > 0 {
			a.currentMatch = 0
			a.selected = a.searchMatches[0]
		} else {
			a.currentMatch = -1
		}
	}
	a.mode = a.lastMode
}

func actBackspace(a *App, _ string) {
	if a.mode != ModeSearch || a.searchQuery == "" {
		return
	}
	runes := []rune(a.searchQuery)
	a.searchQuery = string(runes[:len(runes)-1])
}

func actJumpToLatest(a *App, _ string) {
	if a.mode != ModeLogs {
		return
	}
	a.userScrolled = false
	a.verticalScroll = len(a.logs) - jumpBottomOffset
	if a.verticalScroll < 0 {
		a.verticalScroll = 0
	}
}

func actOpenSearch(a *App, _ string) {
	if a.mode != ModeLogs && a.mode != ModeNormal {
		return
	}
	a.lastMode = a.mode
	a.mode = ModeSearch
	a.searchQuery = ""
}

func actNextMatch(a *App, _ string) {
	if a.mode != ModeLogs || len(a.searchMatches) == 0 {
		return
	}
	a.currentMatch = core.NextMatch(a.currentMatch, len(a.searchMatches))
	a.verticalScroll = a.searchMatches[a.currentMatch]
}

func actPrevMatch(a *App, _ string) {
	if a.mode != ModeLogs || len(a.searchMatches) == 0 {
		return
	}
	a.currentMatch = core.PrevMatch(a.currentMatch, len(a.searchMatches))
	a.verticalScroll = a.searchMatches[a.currentMatch]
}

func actOpenHelp(a *App, _ string) {
	// Re-opening help from help would make lastMode point at itself and
	// strand the user.
	if a.mode == ModeHelp {
		return
	}
	a.lastMode = a.mode
	a.mode = ModeHelp
}
