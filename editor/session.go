package editor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/iw2rmb/tilde/buffer"
	"github.com/iw2rmb/tilde/internal/log"
)

// chromeRows is the number of screen rows below the text area: the status bar
// and the message bar.
const chromeRows = 2

const noName = "[No Name]"

// Session owns one open document, its cursor controller and the status line
// state. It is single-writer: every mutation goes through Process.
type Session struct {
	cfg   Config
	store Store

	doc *buffer.Document
	ctl *Controller

	status   string
	statusAt time.Time

	quitLeft int
	quit     bool

	changes <-chan struct{}

	width  int
	height int
}

// NewSession returns a session holding an empty, unnamed document.
func NewSession(cfg Config, store Store) *Session {
	cfg = cfg.normalized()
	s := &Session{
		cfg:      cfg,
		store:    store,
		ctl:      NewController(1, 1),
		quitLeft: cfg.QuitTimes,
	}
	s.setDocument(buffer.New())
	return s
}

func (s *Session) Document() *buffer.Document { return s.doc }

func (s *Session) Controller() *Controller { return s.ctl }

// Quit reports whether a quit key was accepted.
func (s *Session) Quit() bool { return s.quit }

// Open loads name through the store. When loading fails the session keeps an
// empty document carrying the name and reports the failure in the status bar.
func (s *Session) Open(name string) {
	if name == "" {
		s.setDocument(buffer.New())
		return
	}
	if s.store == nil {
		doc := buffer.New()
		doc.SetName(name)
		s.setDocument(doc)
		return
	}

	text, err := s.store.Load(name)
	if err != nil {
		doc := buffer.New()
		doc.SetName(name)
		s.setDocument(doc)
		if errors.Is(err, fs.ErrNotExist) {
			log.Info(log.CatStore, "new file", "name", name)
			s.SetStatus(fmt.Sprintf("New file: %s", name))
			return
		}
		log.ErrorErr(log.CatStore, "load failed", err, "name", name)
		s.SetStatus(fmt.Sprintf("ERR: could not open %s: %v", name, err))
		return
	}

	doc := buffer.FromText(text)
	doc.SetName(name)
	s.setDocument(doc)
	log.Info(log.CatStore, "opened", "name", name, "rows", doc.Len())
}

func (s *Session) setDocument(doc *buffer.Document) {
	if s.cfg.Classifier != nil {
		doc.SetClassifier(s.cfg.Classifier)
	}
	s.doc = doc
	s.ctl.SetCursor(buffer.Pos{}, doc)
	s.follow()
}

// follow restores cursor visibility in both clusters and cells.
func (s *Session) follow() {
	s.ctl.Scroll()
	s.ctl.FitCells(s.doc)
}

// SetStatus shows msg in the message bar until StatusTimeout elapses.
func (s *Session) SetStatus(msg string) {
	s.status = msg
	s.statusAt = s.cfg.Now()
}

// StatusMessage returns the current message, or "" once it has expired.
func (s *Session) StatusMessage() string {
	if s.status == "" || s.cfg.Now().Sub(s.statusAt) >= s.cfg.StatusTimeout {
		return ""
	}
	return s.status
}

// ExternalChange records that the open file was modified outside the editor.
func (s *Session) ExternalChange() {
	name := s.doc.Name()
	if name == "" {
		return
	}
	log.Info(log.CatWatch, "external change", "name", name)
	if s.doc.Modified() {
		s.SetStatus(fmt.Sprintf("%s changed on disk; saving will overwrite it", name))
		return
	}
	s.SetStatus(fmt.Sprintf("%s changed on disk", name))
}

// WatchChanges makes Run report signals on ch through ExternalChange. The
// channel is polled between keys, so notices show up on the next refresh.
func (s *Session) WatchChanges(ch <-chan struct{}) {
	s.changes = ch
}

func (s *Session) pollChanges() {
	if s.changes == nil {
		return
	}
	select {
	case _, ok := <-s.changes:
		if !ok {
			s.changes = nil
			return
		}
		s.ExternalChange()
	default:
	}
}

// Resize sets the screen size. The text area is the screen minus the status
// and message bars.
func (s *Session) Resize(width, height int) {
	s.width = maxInt(width, 1)
	s.height = maxInt(height, chromeRows+1)
	s.ctl.SetViewport(s.width, s.height-chromeRows)
	s.follow()
}

// Process applies one key.
func (s *Session) Process(k Key) {
	if k.Kind != KeyQuit {
		s.quitLeft = s.cfg.QuitTimes
	}

	switch {
	case k.Kind.IsNavigation():
		s.ctl.Move(k.Kind, s.doc)
	case k.Kind == KeyRune:
		if k.Text == "" {
			return
		}
		s.insert(k.Text)
		s.changed(k)
	case k.Kind == KeyEnter:
		s.insert("\n")
		s.changed(k)
	case k.Kind == KeyDelete:
		s.deleteAt(k)
	case k.Kind == KeyBackspace:
		if buffer.ComparePos(s.ctl.Cursor(), buffer.Pos{}) == 0 {
			return
		}
		s.ctl.Move(KeyLeft, s.doc)
		s.deleteAt(k)
	case k.Kind == KeySave:
		s.save()
	case k.Kind == KeyQuit:
		s.requestQuit()
	}
	s.follow()
}

func (s *Session) insert(g string) {
	cur := s.ctl.Cursor()
	if g == "\n" || g == "\r\n" {
		s.doc.Insert(cur, g)
		s.ctl.SetCursor(buffer.Pos{Row: cur.Row + 1}, s.doc)
		return
	}
	before := s.doc.RowLen(cur.Row)
	s.doc.Insert(cur, g)
	// A combining mark joins the previous cluster and leaves the length alone.
	if grown := s.doc.RowLen(cur.Row) - before; grown > 0 {
		s.ctl.SetCursor(buffer.Pos{Row: cur.Row, Col: cur.Col + grown}, s.doc)
	}
}

// deleteAt deletes at the cursor and reports a change only when the text
// changed.
func (s *Session) deleteAt(k Key) {
	before := s.doc.Len()
	rowLen := s.doc.RowLen(s.ctl.Cursor().Row)
	s.doc.Delete(s.ctl.Cursor())
	if s.doc.Len() != before || s.doc.RowLen(s.ctl.Cursor().Row) != rowLen {
		s.changed(k)
	}
}

func (s *Session) changed(k Key) {
	if s.cfg.OnChange == nil {
		return
	}
	s.cfg.OnChange(buildChangeEvent(k, s.doc, s.ctl.Cursor()))
}

func (s *Session) requestQuit() {
	if s.doc.Modified() && s.quitLeft > 0 {
		s.SetStatus(fmt.Sprintf("WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.", s.quitLeft))
		log.Warn(log.CatEditor, "quit with unsaved changes", "remaining", s.quitLeft)
		s.quitLeft--
		return
	}
	log.Info(log.CatEditor, "quit", "modified", s.doc.Modified())
	s.quit = true
}

func (s *Session) save() {
	name := s.doc.Name()
	if name == "" {
		s.SetStatus("Save aborted: no file name")
		return
	}
	if s.store == nil {
		s.SetStatus("Save aborted: no storage")
		return
	}
	if err := s.persist(name); err != nil {
		log.ErrorErr(log.CatStore, "save failed", err, "name", name)
		s.SetStatus(fmt.Sprintf("Error writing file: %v", err))
		return
	}
	log.Info(log.CatStore, "saved", "name", name, "rows", s.doc.Len())
	s.SetStatus("File saved successfully.")
}

func (s *Session) persist(name string) error {
	w, err := s.store.Create(name)
	if err != nil {
		return err
	}
	if err := s.doc.Persist(w); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		s.doc.MarkModified()
		return fmt.Errorf("closing %s: %w", name, err)
	}
	return nil
}

// Refresh draws one frame: text rows, status bar, message bar and cursor.
func (s *Session) Refresh(d Display) error {
	w, h := d.Size()
	if w != s.width || h != s.height {
		s.Resize(w, h)
	}

	d.Clear()
	for _, line := range s.TextLines() {
		d.WriteLine(line)
	}
	d.WriteLine(s.StatusBar())
	d.WriteLine(s.MessageBar())

	x, y := s.ScreenCursor()
	d.PositionCursor(x, y)
	return d.Flush()
}

// TextLines renders the text area, one string per viewport row.
func (s *Session) TextLines() []string {
	return renderText(s.doc, s.ctl, s.cfg.Palette.palette(), Banner(s.cfg.Version))
}

// ScreenCursor returns the cursor cell relative to the top-left of the text
// area.
func (s *Session) ScreenCursor() (x, y int) {
	return cursorCell(s.doc, s.ctl)
}

// StatusBar renders "name - N lines (modified)" on the left and the cursor
// line over the total on the right.
func (s *Session) StatusBar() string {
	width, _ := s.ctl.Viewport()

	name := s.doc.Name()
	if name == "" {
		name = noName
	}
	name = truncate.StringWithTail(name, 20, "…")
	left := fmt.Sprintf("%s - %d lines", name, s.doc.Len())
	if s.doc.Modified() {
		left += " (modified)"
	}
	right := fmt.Sprintf("%d/%d", s.ctl.Cursor().Row+1, s.doc.Len())

	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	line := left + strings.Repeat(" ", maxInt(gap, 1)) + right
	line = truncate.String(line, uint(width))
	return s.cfg.Style.StatusBar.Render(line)
}

// MessageBar renders the status message, if one is still live.
func (s *Session) MessageBar() string {
	width, _ := s.ctl.Viewport()
	msg := truncate.String(s.StatusMessage(), uint(width))
	return s.cfg.Style.Message.Render(msg)
}

// Run drives the session: refresh, read a key, process it, until a quit key
// is accepted or ctx is done. A key source error ends the loop.
func (s *Session) Run(ctx context.Context, keys KeySource, d Display) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.pollChanges()
		if err := s.Refresh(d); err != nil {
			return fmt.Errorf("refreshing screen: %w", err)
		}
		if s.quit {
			d.Clear()
			if err := d.Flush(); err != nil {
				return fmt.Errorf("clearing screen: %w", err)
			}
			return nil
		}

		k, err := keys.ReadKey()
		if err != nil {
			log.ErrorErr(log.CatEditor, "read key", err)
			return fmt.Errorf("reading key: %w", err)
		}
		s.Process(k)
	}
}
