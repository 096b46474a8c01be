package editor

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	graphemeutil "github.com/iw2rmb/tilde/internal/grapheme"
)

// KeyMap defines the editor key bindings.
//
// Bindings must be portable across terminals (ctrl fallbacks for paging and
// line ends).
type KeyMap struct {
	Left, Right, Up, Down key.Binding
	PageUp, PageDown      key.Binding
	Home, End             key.Binding

	Backspace, Delete key.Binding
	Enter             key.Binding

	Save, Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),

		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),

		Home: key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "line start")),
		End:  key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "line end")),

		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete left")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete right")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "newline")),

		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Save, km.Quit, km.PageUp, km.PageDown}
}

// FullHelp implements help.KeyMap.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Up, km.Down, km.Left, km.Right},
		{km.PageUp, km.PageDown, km.Home, km.End},
		{km.Enter, km.Backspace, km.Delete},
		{km.Save, km.Quit},
	}
}

// HelpLine renders the short help for km in a single line.
func HelpLine(h help.Model, km KeyMap) string {
	return h.ShortHelpView(km.ShortHelp())
}

// Translate converts a Bubble Tea key message into session keys. Typed and
// pasted text becomes one KeyRune per grapheme cluster; line breaks inside a
// paste become KeyEnter.
func (km KeyMap) Translate(msg tea.KeyMsg) []Key {
	switch msg.Type {
	case tea.KeyRunes:
		return textKeys(string(msg.Runes))
	case tea.KeySpace:
		return []Key{Rune(" ")}
	case tea.KeyTab:
		return []Key{Rune("\t")}
	}

	bindings := []struct {
		b    key.Binding
		kind KeyKind
	}{
		{km.Up, KeyUp},
		{km.Down, KeyDown},
		{km.Left, KeyLeft},
		{km.Right, KeyRight},
		{km.PageUp, KeyPageUp},
		{km.PageDown, KeyPageDown},
		{km.Home, KeyHome},
		{km.End, KeyEnd},
		{km.Enter, KeyEnter},
		{km.Backspace, KeyBackspace},
		{km.Delete, KeyDelete},
		{km.Save, KeySave},
		{km.Quit, KeyQuit},
	}
	for _, kb := range bindings {
		if key.Matches(msg, kb.b) {
			return []Key{{Kind: kb.kind}}
		}
	}
	return nil
}

func textKeys(text string) []Key {
	clusters := graphemeutil.Split(text)
	keys := make([]Key, 0, len(clusters))
	for _, g := range clusters {
		switch g {
		case "\r\n", "\n", "\r":
			keys = append(keys, Key{Kind: KeyEnter})
		default:
			keys = append(keys, Rune(g))
		}
	}
	return keys
}
