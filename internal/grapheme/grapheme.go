// Package grapheme wraps rivo/uniseg with the cluster-indexed string
// operations the buffer needs. Every index in this package counts grapheme
// clusters, never bytes or runes.
package grapheme

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	out := make([]string, 0, len(text))
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.StepString(text, state)
		out = append(out, cluster)
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// ByteOffset returns the byte offset at which cluster n starts. Offsets past
// the last cluster resolve to len(text).
func ByteOffset(text string, n int) int {
	if n <= 0 {
		return 0
	}
	offset := 0
	state := -1
	rest := text
	for i := 0; i < n && len(rest) > 0; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		offset += len(cluster)
	}
	return offset
}

// Slice returns the grapheme-safe substring for [start, end).
func Slice(text string, start, end int) string {
	if text == "" {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}
	from := ByteOffset(text, start)
	to := from + ByteOffset(text[from:], end-start)
	return text[from:to]
}

// SplitAt returns text[:at] and text[at:] in clusters.
func SplitAt(text string, at int) (head, tail string) {
	off := ByteOffset(text, at)
	return text[:off], text[off:]
}

// Insert splices s into text before cluster at. An index at or past the end
// appends.
func Insert(text string, at int, s string) string {
	head, tail := SplitAt(text, at)
	return head + s + tail
}

// Remove deletes the cluster at index at. Out of range indices leave text
// untouched.
func Remove(text string, at int) string {
	if at < 0 {
		return text
	}
	from := ByteOffset(text, at)
	if from >= len(text) {
		return text
	}
	to := from + ByteOffset(text[from:], 1)
	return text[:from] + text[to:]
}

// Join concatenates grapheme clusters into a single string.
func Join(clusters []string) string {
	if len(clusters) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// Width returns the terminal cell width of a single cluster.
func Width(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w == 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w < 0 {
		return 0
	}
	return w
}

// IsASCIIDigit reports whether cluster is a single character in '0'..'9'.
func IsASCIIDigit(cluster string) bool {
	return len(cluster) == 1 && cluster[0] >= '0' && cluster[0] <= '9'
}
