package editor

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

// Model is a Bubble Tea component that drives a Session.
//
// Every key message is translated into session keys and the whole frame is
// redrawn into the viewport. The session stays the only writer of the
// document.
type Model struct {
	cfg     Config
	session *Session
	help    help.Model

	viewport viewport.Model
	frame    *frame

	changes <-chan struct{}
}

// fileChangedMsg is delivered when the watched file changed on disk.
type fileChangedMsg struct{}

// statusExpiredMsg asks for a redraw once a status message times out.
type statusExpiredMsg struct{}

func New(cfg Config, s *Session) Model {
	cfg = cfg.normalized()
	m := Model{
		cfg:      cfg,
		session:  s,
		help:     help.New(),
		viewport: viewport.New(0, 0),
		frame:    &frame{},
	}
	m.SetSize(80, 24)
	return m
}

// WithChanges makes the model listen for external file changes on ch.
func (m Model) WithChanges(ch <-chan struct{}) Model {
	m.changes = ch
	return m
}

func (m Model) Session() *Session { return m.session }

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changes), m.expireStatus())
}

// SetSize resizes the frame and redraws it.
func (m *Model) SetSize(width, height int) {
	m.viewport.Width = maxInt(width, 0)
	m.viewport.Height = maxInt(height, 0)
	m.help.Width = m.viewport.Width
	m.frame.width = width
	m.frame.height = height
	m.session.Resize(width, height)
	m.rebuildContent()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		for _, k := range m.cfg.KeyMap.Translate(msg) {
			m.session.Process(k)
			if m.session.Quit() {
				return m, tea.Quit
			}
		}
		m.rebuildContent()
		return m, m.expireStatus()

	case fileChangedMsg:
		m.session.ExternalChange()
		m.rebuildContent()
		return m, tea.Batch(waitForChange(m.changes), m.expireStatus())

	case statusExpiredMsg:
		m.rebuildContent()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string { return m.viewport.View() }

func (m *Model) rebuildContent() {
	_ = m.session.Refresh(m.frame)
	if m.session.StatusMessage() == "" && len(m.frame.lines) > 0 {
		line := truncate.String(HelpLine(m.help, m.cfg.KeyMap), uint(maxInt(m.frame.width, 0)))
		m.frame.lines[len(m.frame.lines)-1] = line
	}
	m.viewport.SetContent(m.frame.render(m.cfg.Style.Cursor))
}

func (m Model) expireStatus() tea.Cmd {
	if m.session.StatusMessage() == "" {
		return nil
	}
	return tea.Tick(m.cfg.StatusTimeout, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// frame is an in-memory Display collecting one screen.
type frame struct {
	width, height int

	lines  []string
	cx, cy int
}

func (f *frame) Size() (int, int) { return f.width, f.height }

func (f *frame) Clear() { f.lines = f.lines[:0] }

func (f *frame) WriteLine(s string) { f.lines = append(f.lines, s) }

func (f *frame) PositionCursor(x, y int) { f.cx, f.cy = x, y }

func (f *frame) Flush() error { return nil }

// render joins the lines and paints the cursor cell with cursor.
func (f *frame) render(cursor lipgloss.Style) string {
	lines := make([]string, len(f.lines))
	copy(lines, f.lines)
	if f.cy >= 0 && f.cy < len(lines) {
		lines[f.cy] = overlayCursor(lines[f.cy], f.cx, cursor)
	}
	return strings.Join(lines, "\n")
}

// overlayCursor replaces the cell at x with the same content styled as a
// cursor. Past the end of the line the cursor is a styled space.
func overlayCursor(line string, x int, cursor lipgloss.Style) string {
	if x >= ansi.StringWidth(line) {
		return line + strings.Repeat(" ", x-ansi.StringWidth(line)) + cursor.Render(" ")
	}
	right := x + 1
	cell := ansi.Strip(ansi.Cut(line, x, right))
	if cell == "" {
		// wide cluster
		right = x + 2
		cell = ansi.Strip(ansi.Cut(line, x, right))
	}
	return ansi.Truncate(line, x, "") + cursor.Render(cell) + ansi.TruncateLeft(line, right, "")
}
