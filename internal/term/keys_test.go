package term

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/tilde/editor"
)

func readAll(t *testing.T, input string) []editor.Key {
	t.Helper()
	d := NewDecoder(strings.NewReader(input))
	var keys []editor.Key
	for {
		k, err := d.ReadKey()
		if errors.Is(err, io.EOF) {
			return keys
		}
		require.NoError(t, err)
		keys = append(keys, k)
	}
}

func kind(k editor.KeyKind) editor.Key { return editor.Key{Kind: k} }

func TestDecoder_Keys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []editor.Key
	}{
		{"ascii", "ab", []editor.Key{editor.Rune("a"), editor.Rune("b")}},
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []editor.Key{kind(editor.KeyUp), kind(editor.KeyDown), kind(editor.KeyRight), kind(editor.KeyLeft)}},
		{"home end variants", "\x1b[H\x1b[F\x1bOH\x1bOF\x1b[1~\x1b[4~\x1b[7~\x1b[8~", []editor.Key{
			kind(editor.KeyHome), kind(editor.KeyEnd), kind(editor.KeyHome), kind(editor.KeyEnd),
			kind(editor.KeyHome), kind(editor.KeyEnd), kind(editor.KeyHome), kind(editor.KeyEnd),
		}},
		{"paging and delete", "\x1b[5~\x1b[6~\x1b[3~", []editor.Key{kind(editor.KeyPageUp), kind(editor.KeyPageDown), kind(editor.KeyDelete)}},
		{"control keys", "\x11\x13\x15\x04\x01\x05", []editor.Key{
			kind(editor.KeyQuit), kind(editor.KeySave), kind(editor.KeyPageUp),
			kind(editor.KeyPageDown), kind(editor.KeyHome), kind(editor.KeyEnd),
		}},
		{"enter backspace tab", "\r\x7f\x08\t", []editor.Key{kind(editor.KeyEnter), kind(editor.KeyBackspace), kind(editor.KeyBackspace), editor.Rune("\t")}},
		{"utf8", "\u30c6\u00e9", []editor.Key{editor.Rune("\u30c6"), editor.Rune("\u00e9")}},
		{"combining sequence", "e\u0301x", []editor.Key{editor.Rune("e\u0301"), editor.Rune("x")}},
		{"zwj sequence", "\U0001F468\u200d\U0001F469", []editor.Key{editor.Rune("\U0001F468\u200d\U0001F469")}},
		{"unknown sequences skipped", "\x1b[9~\x1b[Zq\x02", []editor.Key{editor.Rune("q")}},
		{"lone escape skipped", "\x1b", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestDecoder_PropagatesReadError(t *testing.T) {
	_, err := NewDecoder(failingReader{}).ReadKey()
	require.EqualError(t, err, "tty gone")
}
