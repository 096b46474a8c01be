package editor

import "github.com/iw2rmb/tilde/buffer"

// ChangeEvent describes the document right after an edit.
type ChangeEvent struct {
	Key      Key
	Cursor   buffer.Pos
	Rows     int
	Modified bool

	// Text is the whole document joined with '\n'.
	Text string
}

func buildChangeEvent(k Key, doc *buffer.Document, cursor buffer.Pos) ChangeEvent {
	return ChangeEvent{
		Key:      k,
		Cursor:   cursor,
		Rows:     doc.Len(),
		Modified: doc.Modified(),
		Text:     doc.Text(),
	}
}
