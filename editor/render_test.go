package editor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/tilde/buffer"
)

func TestRenderText_ClipsRowsAndFillsPastEnd(t *testing.T) {
	doc := buffer.FromText("hello\nworld")
	c := NewController(3, 4)

	got := renderText(doc, c, nil, Banner("1.0"))
	want := []string{"hel", "wor", "~", "~"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q, want %q", got, want)
	}
}

func TestRenderText_HorizontalOffset(t *testing.T) {
	doc := buffer.FromText("abcdef\nxy")
	c := NewController(3, 2)
	c.SetCursor(pos(0, 5), doc)

	got := renderText(doc, c, nil, "")
	want := []string{"def", ""}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q, want %q", got, want)
	}
}

func TestRenderText_ClipsWideRowsToCellWidth(t *testing.T) {
	doc := buffer.FromText(strings.Repeat("\u30c6", 6) + "\nabcdefg")
	c := NewController(5, 2)

	got := renderText(doc, c, nil, "")
	want := []string{"\u30c6\u30c6", "abcde"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	for i, line := range got {
		if w := ansi.StringWidth(line); w > 5 {
			t.Fatalf("line %d is %d cells wide", i, w)
		}
	}
}

func TestRenderText_WelcomeBannerOnEmptyDocument(t *testing.T) {
	c := NewController(40, 10)
	banner := Banner("0.1.0")

	got := renderText(buffer.New(), c, nil, banner)
	if len(got) != 10 {
		t.Fatalf("got %d lines, want 10", len(got))
	}
	for i, line := range got {
		if i == 3 {
			if !strings.HasPrefix(line, "~") || !strings.Contains(line, "Tilde editor -- version 0.1.0") {
				t.Fatalf("banner row=%q", line)
			}
			continue
		}
		if line != "~" {
			t.Fatalf("row %d=%q, want ~", i, line)
		}
	}
}

func TestRenderText_NoBannerOnceDocumentHasRows(t *testing.T) {
	c := NewController(40, 10)
	for _, line := range renderText(buffer.FromText("x"), c, nil, Banner("0.1.0")) {
		if strings.Contains(line, "Tilde editor") {
			t.Fatalf("unexpected banner in %q", line)
		}
	}
}

func TestWelcomeLine(t *testing.T) {
	tests := []struct {
		msg   string
		width int
		want  string
	}{
		{"hello", 11, "~  hello"},
		{"hello", 4, "~hel"},
		{"hi", 2, "~h"},
	}
	for _, tt := range tests {
		if got := welcomeLine(tt.msg, tt.width); got != tt.want {
			t.Fatalf("welcomeLine(%q,%d)=%q, want %q", tt.msg, tt.width, got, tt.want)
		}
	}
}

func TestBanner(t *testing.T) {
	if got, want := Banner("2.3.4"), "Tilde editor -- version 2.3.4"; got != want {
		t.Fatalf("banner=%q, want %q", got, want)
	}
	if got, want := Banner(""), "Tilde editor"; got != want {
		t.Fatalf("banner=%q, want %q", got, want)
	}
}

func TestCursorCell(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		at    buffer.Pos
		wantX int
		wantY int
	}{
		{"ascii", "abc", 10, pos(0, 2), 2, 0},
		{"wide cluster", "a\u30c6b", 10, pos(0, 2), 3, 0},
		{"combining mark", "e\u0301x", 10, pos(0, 1), 1, 0},
		{"tab is one cell", "\tb", 10, pos(0, 1), 1, 0},
		{"horizontal offset", "abcd", 2, pos(0, 3), 1, 0},
		{"append row", "abcd", 10, pos(1, 0), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buffer.FromText(tt.text)
			c := NewController(tt.width, 5)
			c.SetCursor(tt.at, doc)
			x, y := cursorCell(doc, c)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("cursor cell=(%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
