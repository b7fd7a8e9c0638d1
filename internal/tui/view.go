package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/ToKoel/tugboat/internal/core"
	"github.com/ToKoel/tugboat/internal/state"
)

var (
	colorAccent  = lipgloss.Color("36")  // cyan
	colorMuted   = lipgloss.Color("240") // gray
	colorMatch   = lipgloss.Color("11")  // yellow
	colorCurrent = lipgloss.Color("201") // pink

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().Reverse(true)

	menuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 3)

	menuItemStyle         = lipgloss.NewStyle().Padding(0, 1)
	menuSelectedItemStyle = menuItemStyle.Reverse(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Background(colorMatch).
			Foreground(lipgloss.Color("0"))

	currentMatchStyle = lipgloss.NewStyle().
				Background(colorCurrent).
				Foreground(lipgloss.Color("15"))

	sparkStyle = lipgloss.NewStyle().Foreground(colorAccent)
)

// Column layout of the container table.
var containerColumns = []struct {
	title string
	width int
}{
	{"ID", 13},
	{"IMAGE", 28},
	{"STATUS", 22},
	{"NAMES", 22},
	{"IP", 15},
}

// View renders the current frame from a snapshot of the shared state.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	s := m.app.Snapshot()

	switch s.Mode {
	case state.ModeLogs:
		return m.viewLogs(s, false)
	case state.ModeSearch:
		if s.LastMode == state.ModeLogs {
			return m.viewLogs(s, true)
		}
		return m.viewContainers(s, true)
	case state.ModeContextMenu:
		return m.viewMenu(s)
	case state.ModeHelp:
		return m.viewHelp()
	case state.ModeResources:
		return m.viewResources(s)
	default:
		return m.viewContainers(s, false)
	}
}

// viewContainers renders the main container table.
func (m Model) viewContainers(s state.Snapshot, searching bool) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tugboat"))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(containerHeaderRow()))
	b.WriteString("\n")

	rowCount := m.height - 4 // title, header, status, prompt/help line
	if rowCount < 1 {
		rowCount = 1
	}
	for i, c := range s.Containers {
		if i >= rowCount {
			break
		}
		row := containerRow(c.ShortID, c.Image, c.Status, c.Names, c.IP)
		if i == s.Selected {
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if len(s.Containers) == 0 {
		b.WriteString(statusStyle.Render("  no containers"))
		b.WriteString("\n")
	}

	body := b.String()
	bottom := m.statusBar(s)
	if searching {
		bottom = m.searchPrompt(s) + "\n" + bottom
	} else {
		bottom = m.help.View(m.keys) + "\n" + bottom
	}

	return m.fitToScreen(body, bottom)
}

// viewMenu renders the context menu centered over the screen.
func (m Model) viewMenu(s state.Snapshot) string {
	var lines []string
	ctr := ""
	if s.Selected < len(s.Containers) {
		ctr = s.Containers[s.Selected].Names
	}
	lines = append(lines, headerStyle.Render(ctr), "")
	for i, item := range state.MenuItems {
		if i == s.MenuSelected {
			lines = append(lines, menuSelectedItemStyle.Render(item))
		} else {
			lines = append(lines, menuItemStyle.Render(item))
		}
	}
	box := menuBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// viewLogs renders the log viewport. The measured viewport height is written
// back into the state so the tailer can keep the follow offset correct.
func (m Model) viewLogs(s state.Snapshot, searching bool) string {
	viewHeight := m.height - 2 // title, status
	if searching {
		viewHeight--
	}
	if viewHeight < 1 {
		viewHeight = 1
	}
	m.app.SetVisibleHeight(viewHeight)

	title := "Logs"
	if s.Selected < len(s.Containers) {
		title = "Logs: " + s.Containers[s.Selected].Names
	}

	matchSet := make(map[int]bool, len(s.SearchMatches))
	for _, idx := range s.SearchMatches {
		matchSet[idx] = true
	}
	currentLine := -1
	if s.CurrentMatch >= 0 && s.CurrentMatch < len(s.SearchMatches) {
		currentLine = s.SearchMatches[s.CurrentMatch]
	}

	start := s.VerticalScroll
	if start > len(s.Logs) {
		start = len(s.Logs)
	}
	end := start + viewHeight
	if end > len(s.Logs) {
		end = len(s.Logs)
	}

	lines := make([]string, 0, viewHeight)
	for i := start; i < end; i++ {
		line := xansi.Cut(s.Logs[i], s.HorizontalScroll, s.HorizontalScroll+m.width)
		if matchSet[i] && s.SearchQuery != "" {
			style := matchStyle
			if i == currentLine {
				style = currentMatchStyle
			}
			line = highlightOccurrences(line, s.SearchQuery, style)
		}
		lines = append(lines, line)
	}
	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	if searching {
		b.WriteString(m.searchPrompt(s))
		b.WriteString("\n")
	}
	b.WriteString(m.logStatusBar(s))
	return b.String()
}

// viewHelp renders the full binding table.
func (m Model) viewHelp() string {
	h := m.help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keybindings"),
		"",
		h.View(m.keys),
		"",
		statusStyle.Render("esc to close"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// viewResources renders the CPU and memory panels with sparklines fed by the
// rolling windows.
func (m Model) viewResources(s state.Snapshot) string {
	panelWidth := m.width - 4
	if panelWidth < 10 {
		panelWidth = 10
	}

	title := "Resources"
	if s.Selected < len(s.Containers) {
		title = "Resources: " + s.Containers[s.Selected].Names
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(renderMetric("CPU", s.CPU, s.CPUMax, panelWidth))
	b.WriteString("\n\n")
	b.WriteString(renderMetric("MEM", s.Mem, s.MemMax, panelWidth))
	b.WriteString("\n")

	return m.fitToScreen(b.String(), m.statusBar(s))
}

// renderMetric renders one metric's current value, window maximum, and
// sparkline.
func renderMetric(name string, points []core.Point, max float64, width int) string {
	current := 0.0
	if len(points) > 0 {
		current = points[len(points)-1].Value
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %6.2f%%  (max %6.2f%%)", name, current, max))
	return header + "\n" + sparkStyle.Render(sparkline(points, width, max))
}

// sparkBlocks maps a normalized value to a block character, lowest first.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the most recent points as block characters scaled to the
// window maximum.
func sparkline(points []core.Point, width int, max float64) string {
	if len(points) == 0 {
		return statusStyle.Render("collecting...")
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}
	if max <= 0 {
		max = 1
	}
	var b strings.Builder
	for _, p := range points {
		idx := int(p.Value / max * float64(len(sparkBlocks)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// searchPrompt renders the incremental search input line.
func (m Model) searchPrompt(s state.Snapshot) string {
	return promptStyle.Render("/") + s.SearchQuery + promptStyle.Render("█")
}

// statusBar renders the one-line status for the table and resources views.
func (m Model) statusBar(s state.Snapshot) string {
	parts := []string{
		fmt.Sprintf("[%s]", s.Mode),
		fmt.Sprintf("Containers: %d", len(s.Containers)),
	}
	if s.Status != "" {
		parts = append(parts, s.Status)
	}
	return statusStyle.Render(strings.Join(parts, " | "))
}

// logStatusBar adds scroll and search positions to the status line.
func (m Model) logStatusBar(s state.Snapshot) string {
	parts := []string{
		fmt.Sprintf("[%s]", s.Mode),
		fmt.Sprintf("Lines: %d", len(s.Logs)),
		fmt.Sprintf("Scroll: %d", s.VerticalScroll),
	}
	if s.UserScrolled {
		parts = append(parts, "SCROLLED (G to follow)")
	} else {
		parts = append(parts, "following")
	}
	if len(s.SearchMatches) > 0 && s.CurrentMatch >= 0 {
		parts = append(parts, fmt.Sprintf("Match: %d/%d", s.CurrentMatch+1, len(s.SearchMatches)))
	}
	if s.Status != "" {
		parts = append(parts, s.Status)
	}
	return statusStyle.Render(strings.Join(parts, " | "))
}

// fitToScreen pads body so that bottom lands on the last rows.
func (m Model) fitToScreen(body, bottom string) string {
	bodyLines := strings.Count(body, "\n")
	bottomLines := strings.Count(bottom, "\n") + 1
	for bodyLines < m.height-bottomLines {
		body += "\n"
		bodyLines++
	}
	return body + bottom
}

// containerHeaderRow builds the table header.
func containerHeaderRow() string {
	cells := make([]string, len(containerColumns))
	for i, col := range containerColumns {
		cells[i] = pad(col.title, col.width)
	}
	return strings.Join(cells, "")
}

// containerRow builds one table row with width-aware padding.
func containerRow(fields ...string) string {
	cells := make([]string, len(containerColumns))
	for i, col := range containerColumns {
		v := ""
		if i < len(fields) {
			v = fields[i]
		}
		cells[i] = pad(v, col.width)
	}
	return strings.Join(cells, "")
}

// pad truncates or fills s to exactly width display cells.
func pad(s string, width int) string {
	s = runewidth.Truncate(s, width-1, "…")
	return runewidth.FillRight(s, width)
}

// highlightOccurrences styles every occurrence of query inside line. The
// line is plain text at this point (sanitized on ingest), so byte indexing
// against strings.Index is safe.
func highlightOccurrences(line, query string, style lipgloss.Style) string {
	if query == "" {
		return line
	}
	var b strings.Builder
	for {
		idx := strings.Index(line, query)
		if idx < 0 {
			b.WriteString(line)
			return b.String()
		}
		b.WriteString(line[:idx])
		b.WriteString(style.Render(query))
		line = line[idx+len(query):]
	}
}
