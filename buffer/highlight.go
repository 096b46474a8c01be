package buffer

import graphemeutil "github.com/iw2rmb/tilde/internal/grapheme"

// Class is the render-color category a single cluster carries.
type Class uint8

const (
	// ClassNone is the fallback for clusters no rule matched.
	ClassNone Class = iota
	ClassNumber
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Rule classifies one cluster. ok=false means the rule does not apply.
type Rule func(cluster string) (class Class, ok bool)

// Classifier runs an ordered rule table over a row. The first matching rule
// wins; clusters no rule matches get ClassNone.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// DefaultClassifier marks ASCII digits as numbers.
func DefaultClassifier() *Classifier {
	return NewClassifier(NumberRule)
}

func NumberRule(cluster string) (Class, bool) {
	if graphemeutil.IsASCIIDigit(cluster) {
		return ClassNumber, true
	}
	return ClassNone, false
}

// Classify returns one class per cluster of text.
func (c *Classifier) Classify(text string) []Class {
	clusters := graphemeutil.Split(text)
	out := make([]Class, len(clusters))
	if c == nil {
		return out
	}
	for i, cl := range clusters {
		out[i] = c.classifyCluster(cl)
	}
	return out
}

func (c *Classifier) classifyCluster(cluster string) Class {
	for _, rule := range c.rules {
		if class, ok := rule(cluster); ok {
			return class
		}
	}
	return ClassNone
}

// Palette turns classes into the escape markers embedded by Row.Render.
type Palette interface {
	// Marker returns the sequence that switches output to class.
	Marker(class Class) string
	// Reset returns the sequence that restores default colors.
	Reset() string
}

// Segment is a run of consecutive clusters sharing one class.
type Segment struct {
	Text  string
	Class Class
}
