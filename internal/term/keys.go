package term

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/iw2rmb/tilde/editor"
	graphemeutil "github.com/iw2rmb/tilde/internal/grapheme"
	"github.com/iw2rmb/tilde/internal/log"
)

const (
	keyEsc       = 0x1b
	keyBackspace = 0x7f
)

func ctrl(c byte) byte { return c & 0x1f }

// Decoder turns raw terminal bytes into editor keys.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadKey blocks until a complete key is read. Bytes that form no known key
// are skipped.
func (d *Decoder) ReadKey() (editor.Key, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return editor.Key{}, err
		}
		if k, ok := d.decode(b); ok {
			return k, nil
		}
	}
}

func (d *Decoder) decode(b byte) (editor.Key, bool) {
	switch b {
	case keyEsc:
		return d.escape()
	case '\r', '\n':
		return editor.Key{Kind: editor.KeyEnter}, true
	case '\t':
		return editor.Rune("\t"), true
	case keyBackspace, ctrl('h'):
		return editor.Key{Kind: editor.KeyBackspace}, true
	case ctrl('q'):
		return editor.Key{Kind: editor.KeyQuit}, true
	case ctrl('s'):
		return editor.Key{Kind: editor.KeySave}, true
	case ctrl('u'):
		return editor.Key{Kind: editor.KeyPageUp}, true
	case ctrl('d'):
		return editor.Key{Kind: editor.KeyPageDown}, true
	case ctrl('a'):
		return editor.Key{Kind: editor.KeyHome}, true
	case ctrl('e'):
		return editor.Key{Kind: editor.KeyEnd}, true
	}
	if b < 0x20 {
		log.Debug(log.CatTerm, "ignored control byte", "byte", b)
		return editor.Key{}, false
	}
	return d.cluster(b)
}

// escape decodes CSI and SS3 sequences for arrows, paging, home, end and
// delete. A lone escape is ignored.
func (d *Decoder) escape() (editor.Key, bool) {
	if d.r.Buffered() == 0 {
		return editor.Key{}, false
	}
	intro, _ := d.r.ReadByte()
	if intro != '[' && intro != 'O' {
		return editor.Key{}, false
	}
	if d.r.Buffered() == 0 {
		return editor.Key{}, false
	}
	c, _ := d.r.ReadByte()

	if intro == '[' && c >= '0' && c <= '9' {
		if d.r.Buffered() == 0 {
			return editor.Key{}, false
		}
		if tilde, _ := d.r.ReadByte(); tilde != '~' {
			return editor.Key{}, false
		}
		switch c {
		case '1', '7':
			return editor.Key{Kind: editor.KeyHome}, true
		case '4', '8':
			return editor.Key{Kind: editor.KeyEnd}, true
		case '3':
			return editor.Key{Kind: editor.KeyDelete}, true
		case '5':
			return editor.Key{Kind: editor.KeyPageUp}, true
		case '6':
			return editor.Key{Kind: editor.KeyPageDown}, true
		}
		return editor.Key{}, false
	}

	switch c {
	case 'A':
		return editor.Key{Kind: editor.KeyUp}, true
	case 'B':
		return editor.Key{Kind: editor.KeyDown}, true
	case 'C':
		return editor.Key{Kind: editor.KeyRight}, true
	case 'D':
		return editor.Key{Kind: editor.KeyLeft}, true
	case 'H':
		return editor.Key{Kind: editor.KeyHome}, true
	case 'F':
		return editor.Key{Kind: editor.KeyEnd}, true
	}
	return editor.Key{}, false
}

// cluster reads the rest of the UTF-8 sequence starting with b, then keeps
// taking already-buffered runes while they extend the same grapheme cluster.
func (d *Decoder) cluster(b byte) (editor.Key, bool) {
	s, ok := d.runeFrom(b)
	if !ok {
		return editor.Key{}, false
	}
	for d.r.Buffered() > 0 {
		peek, _ := d.r.Peek(minInt(utf8.UTFMax, d.r.Buffered()))
		r, size := utf8.DecodeRune(peek)
		if r == utf8.RuneError || r < 0x20 || r == keyBackspace {
			break
		}
		next := s + string(r)
		if graphemeutil.Count(next) != 1 {
			break
		}
		_, _ = d.r.Discard(size)
		s = next
	}
	return editor.Rune(s), true
}

func (d *Decoder) runeFrom(b byte) (string, bool) {
	if b < utf8.RuneSelf {
		return string(rune(b)), true
	}
	buf := []byte{b}
	for !utf8.FullRune(buf) {
		next, err := d.r.ReadByte()
		if err != nil {
			return "", false
		}
		buf = append(buf, next)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return "", false
	}
	return string(r), true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
