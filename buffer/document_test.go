package buffer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func lines(d *Document) string { return strings.Join(d.Lines(), "|") }

func TestDocument_FromText(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		d := FromText(tt.text)
		got := d.Lines()
		if len(got) != len(tt.want) {
			t.Fatalf("FromText(%q) lines=%q, want %q", tt.text, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("FromText(%q) lines=%q, want %q", tt.text, got, tt.want)
			}
		}
		if d.Modified() {
			t.Fatalf("fresh document should not be modified")
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDocument_OpenPropagatesReadError(t *testing.T) {
	_, err := Open(failingReader{})
	if err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("err=%v, want wrapped read error", err)
	}
}

func TestDocument_Open(t *testing.T) {
	d, err := Open(strings.NewReader("one\ntwo\n"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got, want := lines(d), "one|two"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
}

func TestDocument_RowOutOfRange(t *testing.T) {
	d := FromText("a")
	if _, ok := d.Row(-1); ok {
		t.Fatalf("row -1 should be absent")
	}
	if _, ok := d.Row(1); ok {
		t.Fatalf("row 1 should be absent")
	}
	if row, ok := d.Row(0); !ok || row.Text() != "a" {
		t.Fatalf("row 0 = %v, %v", row, ok)
	}
	if d.RowLen(5) != 0 {
		t.Fatalf("absent row length should be 0")
	}
	if d.CellWidth(5, 0, 3) != 0 {
		t.Fatalf("absent row width should be 0")
	}
}

func TestDocument_InsertNewlineSplitsRow(t *testing.T) {
	d := FromText("ab\ncde")
	d.Insert(Pos{Row: 0, Col: 1}, "\n")
	if got, want := lines(d), "a|b|cde"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	if !d.Modified() {
		t.Fatalf("expected modified")
	}
}

func TestDocument_InsertNewlineAtAppendRow(t *testing.T) {
	d := FromText("ab")
	d.Insert(Pos{Row: 1, Col: 0}, "\n")
	if got, want := lines(d), "ab|"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	if d.Len() != 2 {
		t.Fatalf("len=%d, want 2", d.Len())
	}
}

func TestDocument_InsertIntoAppendRowCreatesRow(t *testing.T) {
	d := New()
	d.Insert(Pos{Row: 0, Col: 0}, "x")
	if got, want := lines(d), "x"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	d.Insert(Pos{Row: 0, Col: 1}, "y")
	if got, want := lines(d), "xy"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	if !d.Modified() {
		t.Fatalf("expected modified")
	}
}

func TestDocument_InsertRehighlightsRow(t *testing.T) {
	d := FromText("a")
	d.Insert(Pos{Row: 0, Col: 1}, "7")
	row, _ := d.Row(0)
	classes := row.Classes()
	if len(classes) != 2 || classes[0] != ClassNone || classes[1] != ClassNumber {
		t.Fatalf("classes=%v", classes)
	}
}

func TestDocument_InsertPastAppendRowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	FromText("a").Insert(Pos{Row: 2, Col: 0}, "x")
}

func TestDocument_DeleteAtRowEndMerges(t *testing.T) {
	d := FromText("ab\ncde")
	d.Delete(Pos{Row: 0, Col: 2})
	if got, want := lines(d), "abcde"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	if !d.Modified() {
		t.Fatalf("expected modified")
	}
}

func TestDocument_DeleteAtLastRowEndIsNoop(t *testing.T) {
	d := FromText("ab\ncde")
	d.Delete(Pos{Row: 1, Col: 3})
	if got, want := lines(d), "ab|cde"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
	if d.Modified() {
		t.Fatalf("no-op delete should not mark modified")
	}
}

func TestDocument_DeleteOnAppendRowIsNoop(t *testing.T) {
	d := FromText("ab")
	d.Delete(Pos{Row: 1, Col: 0})
	if got, want := lines(d), "ab"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}

	empty := New()
	empty.Delete(Pos{})
	if !empty.IsEmpty() {
		t.Fatalf("empty document should stay empty")
	}
}

func TestDocument_DeleteCluster(t *testing.T) {
	d := FromText("a" + family + "b")
	d.Delete(Pos{Row: 0, Col: 1})
	if got, want := lines(d), "ab"; got != want {
		t.Fatalf("lines=%q, want %q", got, want)
	}
}

func TestDocument_PersistWritesLinesAndClearsModified(t *testing.T) {
	d := FromText("ab\ncde")
	d.Insert(Pos{Row: 1, Col: 3}, "f")

	var out bytes.Buffer
	if err := d.Persist(&out); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if got, want := out.String(), "ab\ncdef\n"; got != want {
		t.Fatalf("persisted=%q, want %q", got, want)
	}
	if d.Modified() {
		t.Fatalf("persist should clear modified")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("read-only") }

func TestDocument_PersistFailureKeepsModified(t *testing.T) {
	d := FromText("ab")
	d.Insert(Pos{Row: 0, Col: 2}, "c")

	if err := d.Persist(failingWriter{}); err == nil {
		t.Fatalf("expected error")
	}
	if !d.Modified() {
		t.Fatalf("failed persist must keep modified")
	}
}

func TestDocument_SetClassifier(t *testing.T) {
	d := FromText("a1")
	d.SetClassifier(nil)
	row, _ := d.Row(0)
	if row.Classes() != nil {
		t.Fatalf("nil classifier should clear tags")
	}

	upper := NewClassifier(func(c string) (Class, bool) {
		return ClassNumber, c == "a"
	})
	d.SetClassifier(upper)
	classes := row.Classes()
	if len(classes) != 2 || classes[0] != ClassNumber || classes[1] != ClassNone {
		t.Fatalf("classes=%v", classes)
	}
}
