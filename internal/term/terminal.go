// Package term is the raw terminal front end: raw mode with a scoped restore,
// a buffered escape-sequence display and a key decoder.
package term

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"github.com/iw2rmb/tilde/internal/log"
)

// Terminal owns a raw-mode terminal. Close restores the saved mode and must
// run on every exit path.
type Terminal struct {
	in    *os.File
	outFd int
	state *xterm.State

	*Screen
	*Decoder
}

// Open switches in to raw mode and returns a Terminal drawing to out.
func Open(in, out *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	log.Debug(log.CatTerm, "raw mode on", "fd", fd)

	t := &Terminal{
		in:    in,
		outFd: int(out.Fd()),
		state: state,
	}
	t.Screen = NewScreen(out, t.size)
	t.Decoder = NewDecoder(in)
	return t, nil
}

func (t *Terminal) size() (int, int, error) {
	return xterm.GetSize(t.outFd)
}

// Close clears the screen and restores the terminal mode saved by Open.
func (t *Terminal) Close() error {
	if t.state == nil {
		return nil
	}
	t.Clear()
	_ = t.Flush()
	err := xterm.Restore(int(t.in.Fd()), t.state)
	t.state = nil
	if err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	log.Debug(log.CatTerm, "raw mode off")
	return nil
}

// Screen is an editor.Display that batches one frame of escape sequences
// and writes it with a single Flush.
type Screen struct {
	w      io.Writer
	buf    bytes.Buffer
	out    *termenv.Output
	sizeFn func() (int, int, error)

	lines int
}

// NewScreen draws to w. sizeFn reports the screen size; a failing or nil
// sizeFn falls back to 80x24.
func NewScreen(w io.Writer, sizeFn func() (int, int, error)) *Screen {
	s := &Screen{w: w, sizeFn: sizeFn}
	s.out = termenv.NewOutput(&s.buf, termenv.WithProfile(termenv.ANSI))
	return s
}

func (s *Screen) Size() (int, int) {
	if s.sizeFn == nil {
		return 80, 24
	}
	w, h, err := s.sizeFn()
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// Clear starts a new frame: hide the cursor and go home.
func (s *Screen) Clear() {
	s.buf.Reset()
	s.lines = 0
	s.out.HideCursor()
	s.out.MoveCursor(1, 1)
}

// WriteLine draws s and erases the rest of the line. Lines after the first
// start with CRLF so the last line never scrolls the screen.
func (s *Screen) WriteLine(line string) {
	if s.lines > 0 {
		s.buf.WriteString("\r\n")
	}
	s.buf.WriteString(line)
	s.out.ClearLineRight()
	s.lines++
}

// PositionCursor places the cursor at 0-based cell (x, y).
func (s *Screen) PositionCursor(x, y int) {
	s.out.MoveCursor(y+1, x+1)
}

// Flush shows the cursor and writes the frame.
func (s *Screen) Flush() error {
	s.out.ShowCursor()
	_, err := s.w.Write(s.buf.Bytes())
	s.buf.Reset()
	if err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}
