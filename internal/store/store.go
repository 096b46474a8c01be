// Package store loads and saves document text on an afero filesystem.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/iw2rmb/tilde/internal/log"
)

// ErrNoName is returned when a document without a file name is loaded or
// saved.
var ErrNoName = errors.New("no file name")

const defaultPerm os.FileMode = 0o644

// FS is a Store backed by an afero filesystem. Saves go to a temporary file in
// the target directory and are renamed over the target on Close.
type FS struct {
	fs       afero.Fs
	onCommit func(name string)
}

// Option configures an FS.
type Option func(*FS)

// WithCommitHook calls fn after every successful save, before Close returns.
func WithCommitHook(fn func(name string)) Option {
	return func(s *FS) { s.onCommit = fn }
}

// New returns a store over fs.
func New(fs afero.Fs, opts ...Option) *FS {
	s := &FS{fs: fs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewOS returns a store over the real filesystem.
func NewOS(opts ...Option) *FS {
	return New(afero.NewOsFs(), opts...)
}

// Load reads the whole file. A missing file yields an error matching
// fs.ErrNotExist.
func (s *FS) Load(name string) (string, error) {
	if name == "" {
		return "", ErrNoName
	}
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", name, err)
	}
	log.Debug(log.CatStore, "loaded", "name", name, "bytes", len(data))
	return string(data), nil
}

// Create opens a pending write of name. The existing file is replaced only
// when Close succeeds and no Write failed.
func (s *FS) Create(name string) (io.WriteCloser, error) {
	if name == "" {
		return nil, ErrNoName
	}
	dir := filepath.Dir(name)
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(name)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &pendingFile{fs: s.fs, tmp: tmp, target: name, perm: s.perm(name), onCommit: s.onCommit}, nil
}

func (s *FS) perm(name string) os.FileMode {
	if info, err := s.fs.Stat(name); err == nil {
		return info.Mode().Perm()
	}
	return defaultPerm
}

type pendingFile struct {
	fs     afero.Fs
	tmp    afero.File
	target string
	perm   os.FileMode

	onCommit func(name string)

	written int
	failed  bool
	closed  bool
}

func (f *pendingFile) Write(p []byte) (int, error) {
	n, err := f.tmp.Write(p)
	f.written += n
	if err != nil {
		f.failed = true
	}
	return n, err
}

func (f *pendingFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	tmpName := f.tmp.Name()
	if err := f.tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", f.target, err)
	}
	if f.failed {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("discarding partial write of %s", f.target)
	}
	if err := f.fs.Chmod(tmpName, f.perm); err != nil {
		log.Warn(log.CatStore, "chmod failed", "name", f.target, "error", err)
	}
	if err := f.fs.Rename(tmpName, f.target); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", f.target, err)
	}
	log.Debug(log.CatStore, "committed", "name", f.target, "bytes", f.written)
	if f.onCommit != nil {
		f.onCommit(f.target)
	}
	return nil
}
