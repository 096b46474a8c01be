package editor

import (
	"github.com/muesli/termenv"

	"github.com/iw2rmb/tilde/buffer"
)

// DefaultNumberColor is the foreground used for ClassNumber.
const DefaultNumberColor = "#DCA3A3"

// Palette emits SGR foreground sequences for highlight classes.
type Palette struct {
	markers map[buffer.Class]string
	reset   string
}

// NewPalette builds a palette for profile. colors maps classes to color
// strings understood by termenv (hex or ANSI index). Classes without a color
// switch back to the terminal's default foreground.
//
// It returns nil for the Ascii profile so rows render without markers.
func NewPalette(profile termenv.Profile, colors map[buffer.Class]string) *Palette {
	if profile == termenv.Ascii {
		return nil
	}
	p := &Palette{
		markers: make(map[buffer.Class]string, len(colors)),
		reset:   termenv.CSI + termenv.ResetSeq + "m",
	}
	for class, spec := range colors {
		if spec == "" {
			continue
		}
		seq := profile.Color(spec).Sequence(false)
		if seq == "" {
			continue
		}
		p.markers[class] = termenv.CSI + seq + "m"
	}
	return p
}

// DefaultPalette colors numbers with DefaultNumberColor.
func DefaultPalette(profile termenv.Profile) *Palette {
	return NewPalette(profile, map[buffer.Class]string{
		buffer.ClassNumber: DefaultNumberColor,
	})
}

func (p *Palette) Marker(class buffer.Class) string {
	if m, ok := p.markers[class]; ok {
		return m
	}
	return termenv.CSI + "39m"
}

func (p *Palette) Reset() string { return p.reset }

// palette converts a possibly nil *Palette into a buffer.Palette without the
// typed-nil interface trap.
func (p *Palette) palette() buffer.Palette {
	if p == nil {
		return nil
	}
	return p
}
