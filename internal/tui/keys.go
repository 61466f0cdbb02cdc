package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the journal editor bindings. Editing keys not listed here go
// to the text area.
type KeyMap struct {
	NextPage      key.Binding
	PreviousPage  key.Binding
	NewPage       key.Binding
	NewChapter    key.Binding
	SelectChapter key.Binding
	InsertImage   key.Binding
	Summary       key.Binding
	Preview       key.Binding
	Cancel        key.Binding
	Confirm       key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPage:      key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page")),
		PreviousPage:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page")),
		NewPage:       key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^n", "new page")),
		NewChapter:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^t", "new chapter")),
		SelectChapter: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("^g", "go to chapter")),
		InsertImage:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "image")),
		Summary:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "summary")),
		Preview:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("^p", "preview")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Confirm:       key.NewBinding(key.WithKeys("enter")),
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^c", "quit")),
	}
}

func (k KeyMap) shortHelp() []key.Binding {
	return []key.Binding{k.PreviousPage, k.NextPage, k.NewPage, k.NewChapter,
		k.SelectChapter, k.InsertImage, k.Summary, k.Preview, k.Quit}
}
