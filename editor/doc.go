// Package editor drives a tilde editing session.
//
// A Session owns one buffer.Document and a Controller for its cursor and
// scroll offset. Keys arrive through a KeySource and frames leave through a
// Display, so the same session runs behind the plain terminal front end and
// behind the Bubble Tea Model defined here.
package editor
