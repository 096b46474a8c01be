package editor

// KeyKind enumerates the input events the session understands.
type KeyKind int

const (
	KeyUp KeyKind = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd

	// KeyRune carries one printable grapheme cluster in Key.Text.
	KeyRune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeySave
	KeyQuit
)

var keyNames = [...]string{
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeySave:      "save",
	KeyQuit:      "quit",
}

func (k KeyKind) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// IsNavigation reports whether k only moves the cursor.
func (k KeyKind) IsNavigation() bool {
	return k >= KeyUp && k <= KeyEnd
}

// Key is one input event.
type Key struct {
	Kind KeyKind
	Text string
}

// Rune builds a KeyRune event for the cluster g.
func Rune(g string) Key { return Key{Kind: KeyRune, Text: g} }

func (k Key) String() string {
	if k.Kind == KeyRune {
		return k.Text
	}
	return k.Kind.String()
}
