package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap declares the application-level controls. Everything not matched
// here is forwarded to the guest.
type keyMap struct {
	Quit          key.Binding
	CycleEncoding key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("<Q>", "quit"),
		),
		CycleEncoding: key.NewBinding(
			key.WithKeys("p", "P"),
			key.WithHelp("<P>", "encoding"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("<+>", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("<->", "zoom out"),
		),
	}
}

// legend renders the footer key help from the bindings themselves.
func (k keyMap) legend() string {
	var parts []string
	for _, b := range []key.Binding{k.Quit, k.CycleEncoding, k.ZoomIn, k.ZoomOut} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
