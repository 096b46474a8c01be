// Package buffer implements the grapheme-accurate document model for tilde.
//
// A Document is an ordered list of Rows. Coordinates are 0-based (Row, Col)
// where Col counts grapheme clusters. Rows carry per-cluster highlight
// classes produced by a Classifier and render clipped slices of themselves
// with color-run markers supplied by a Palette.
package buffer
