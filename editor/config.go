package editor

import (
	"time"

	"github.com/iw2rmb/tilde/buffer"
)

// Config configures a Session and the Bubble Tea Model around it.
type Config struct {
	// QuitTimes is how many extra quit presses a modified document needs.
	QuitTimes int
	// StatusTimeout is how long a status message stays in the message bar.
	StatusTimeout time.Duration

	// Version is shown in the welcome banner.
	Version string

	// Rendering options. A nil Palette renders rows without color markers.
	Palette *Palette
	Style   Style

	// Classifier tags clusters for highlighting. Nil keeps the document's
	// default classifier.
	Classifier *buffer.Classifier

	KeyMap KeyMap

	// OnChange is called after every key that mutated the document.
	OnChange func(ChangeEvent)

	// Now is the clock used for status message expiry.
	Now func() time.Time
}

const (
	DefaultQuitTimes     = 3
	DefaultStatusTimeout = 5 * time.Second
)

func DefaultConfig() Config {
	return Config{
		QuitTimes:     DefaultQuitTimes,
		StatusTimeout: DefaultStatusTimeout,
		Style:         DefaultStyle(),
		KeyMap:        DefaultKeyMap(),
		Now:           time.Now,
	}
}

func (c Config) normalized() Config {
	if c.QuitTimes < 0 {
		c.QuitTimes = 0
	}
	if c.StatusTimeout <= 0 {
		c.StatusTimeout = DefaultStatusTimeout
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
