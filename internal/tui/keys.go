package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/ToKoel/tugboat/internal/state"
)

// keyMap adapts the state package's binding table to the bubbles help
// component, so the help overlay always reflects the actual bindings.
type keyMap struct {
	bindings []key.Binding
}

func newKeyMap() keyMap {
	bindings := make([]key.Binding, 0, len(state.Bindings))
	for _, b := range state.Bindings {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(strings.Join(b.Keys, "/"), b.Description),
		))
	}
	return keyMap{bindings: bindings}
}

// ShortHelp lists the essentials shown in the status area.
func (k keyMap) ShortHelp() []key.Binding {
	if len(k.bindings) < 3 {
		return k.bindings
	}
	// quit, up, down plus help.
	short := []key.Binding{k.bindings[0], k.bindings[1], k.bindings[2]}
	return append(short, k.bindings[len(k.bindings)-1])
}

// FullHelp lays the whole table out in two columns.
func (k keyMap) FullHelp() [][]key.Binding {
	half := (len(k.bindings) + 1) / 2
	return [][]key.Binding{k.bindings[:half], k.bindings[half:]}
}
