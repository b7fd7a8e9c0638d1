package tui

import (
	"strings"
	"testing"

	"github.com/ToKoel/tugboat/internal/core"
	"github.com/ToKoel/tugboat/internal/state"
)

func TestViewShowsContainerTable(t *testing.T) {
	m, _, _ := newTestModel()

	out := m.View()
	for _, want := range []string{"tugboat", "nginx:latest", "redis:7", "web", "cache"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestViewMenuShowsItems(t *testing.T) {
	m, _, _ := newTestModel()
	m.Update(keyMsg("enter"))

	out := m.View()
	for _, item := range state.MenuItems {
		if !strings.Contains(out, item) {
			t.Errorf("expected menu item %q", item)
		}
	}
}

// enterLogsMode drives the state machine directly so no real tailer
// goroutine gets spawned under the test.
func enterLogsMode(app *state.App) {
	app.HandleKey("enter")
	app.HandleKey("enter")
	app.TakeLogRequest()
}

func TestLogsViewWritesVisibleHeightBack(t *testing.T) {
	m, app, _ := newTestModel()
	enterLogsMode(app)

	m.View() // measures the viewport: height 24 minus title and status

	app.AppendLogs(make([]string, 30))
	if s := app.Snapshot(); s.VerticalScroll != 30-22 {
		t.Fatalf("expected follow offset 8, got %d", s.VerticalScroll)
	}
}

func TestLogsViewShowsLinesAndStatus(t *testing.T) {
	m, app, _ := newTestModel()
	enterLogsMode(app)
	app.AppendLogs([]string{"first line", "second line"})

	out := m.View()
	if !strings.Contains(out, "first line") || !strings.Contains(out, "second line") {
		t.Error("expected log lines in view")
	}
	if !strings.Contains(out, "following") {
		t.Error("expected follow indicator")
	}

	app.HandleKey("j")
	if !strings.Contains(m.View(), "SCROLLED") {
		t.Error("expected scrolled indicator after manual scroll")
	}
}

func TestHelpViewListsBindings(t *testing.T) {
	m, _, _ := newTestModel()
	m.Update(keyMsg("?"))

	out := m.View()
	if !strings.Contains(out, "Keybindings") {
		t.Error("expected help title")
	}
	if !strings.Contains(out, "quit / close panel") {
		t.Error("expected binding descriptions from the table")
	}
}

func TestResourcesViewShowsMetrics(t *testing.T) {
	m, app, _ := newTestModel()
	app.HandleKey("enter")
	app.HandleKey("down")
	app.HandleKey("enter")
	app.TakeStatsRequest()
	app.AddCPUSample(1, 42.5)
	app.AddMemSample(1, 10)

	out := m.View()
	if !strings.Contains(out, "CPU") || !strings.Contains(out, "MEM") {
		t.Error("expected both metric panels")
	}
	if !strings.Contains(out, "42.50") {
		t.Error("expected current CPU value")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil, 10, 0); !strings.Contains(got, "collecting") {
		t.Errorf("empty window should render placeholder, got %q", got)
	}

	points := []core.Point{{Key: 1, Value: 0}, {Key: 2, Value: 50}, {Key: 3, Value: 100}}
	got := sparkline(points, 10, 100)
	if len([]rune(got)) != 3 {
		t.Fatalf("expected 3 cells, got %q", got)
	}
	runes := []rune(got)
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("expected scale from lowest to highest block, got %q", got)
	}

	// Window wider than the panel keeps only the most recent points.
	wide := make([]core.Point, 20)
	for i := range wide {
		wide[i] = core.Point{Key: float64(i), Value: 1}
	}
	if got := sparkline(wide, 5, 1); len([]rune(got)) != 5 {
		t.Errorf("expected truncation to 5 cells, got %q", got)
	}
}

func TestHighlightOccurrences(t *testing.T) {
	out := highlightOccurrences("error here and error there", "error", matchStyle)
	if !strings.Contains(out, "here and") {
		t.Error("unmatched text must survive")
	}
	if strings.Count(out, "error") != 2 {
		t.Errorf("both occurrences must remain, got %q", out)
	}
}

func TestSearchPromptShowsQuery(t *testing.T) {
	m, _, _ := newTestModel()
	m.Update(keyMsg("/"))
	m.Update(keyMsg("n"))
	m.Update(keyMsg("g"))

	if out := m.View(); !strings.Contains(out, "ng") {
		t.Error("expected typed query in the prompt")
	}
}

func TestPadTruncatesWideContent(t *testing.T) {
	if got := pad("short", 10); len([]rune(got)) != 10 {
		t.Errorf("expected fill to 10 cells, got %q", got)
	}
	got := pad("a very long image name that overflows", 10)
	if !strings.Contains(got, "…") {
		t.Errorf("expected ellipsis on truncation, got %q", got)
	}
}
