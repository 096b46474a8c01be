package editor

import "io"

// KeySource delivers input events one at a time. ReadKey blocks until an
// event is available.
type KeySource interface {
	ReadKey() (Key, error)
}

// Display draws one frame. The session decides what to draw; the display
// decides how (escape sequences, buffering).
type Display interface {
	// Size returns the screen size in cells.
	Size() (width, height int)
	Clear()
	WriteLine(s string)
	// PositionCursor places the terminal cursor at 0-based screen cell (x, y).
	PositionCursor(x, y int)
	Flush() error
}

// Store loads and saves document text by name. It owns filesystem
// semantics such as existence, permissions and atomic replacement.
type Store interface {
	Load(name string) (string, error)
	// Create opens name for writing. Nothing is committed until Close
	// returns nil.
	Create(name string) (io.WriteCloser, error)
}
