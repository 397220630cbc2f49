package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// MemFS returns an in-memory filesystem holding files, keyed by absolute path
func MemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		WriteFile(t, fs, path, content)
	}
	return fs
}

// WriteFile creates path and its parents on fs. It fails the test on error.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
}

// ReadFile returns the content of path. It fails the test on error.
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// ErrInjected is returned by every failure FaultyFs injects
var ErrInjected = errors.New("injected failure")

// FaultyFs wraps an afero.Fs and fails selected operations.
//
// WriteLimit, when positive, is the number of bytes newly created files
// accept before every further write fails. RenameFails and OpenFails refuse
// those operations outright.
type FaultyFs struct {
	afero.Fs

	mu          sync.Mutex
	WriteLimit  int
	RenameFails bool
	OpenFails   map[string]bool

	written int
}

// NewFaultyFs wraps base
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{Fs: base, OpenFails: make(map[string]bool)}
}

// Written returns how many bytes created files accepted
func (f *FaultyFs) Written() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

func (f *FaultyFs) Open(name string) (afero.File, error) {
	if f.OpenFails[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	return f.Fs.Open(name)
}

func (f *FaultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.OpenFails[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil || flag&os.O_CREATE == 0 || f.WriteLimit <= 0 {
		return file, err
	}
	return &limitedFile{File: file, fs: f}, nil
}

func (f *FaultyFs) Create(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (f *FaultyFs) Rename(oldname, newname string) error {
	if f.RenameFails {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: ErrInjected}
	}
	return f.Fs.Rename(oldname, newname)
}

// limitedFile accepts writes until its filesystem's WriteLimit is spent
type limitedFile struct {
	afero.File
	fs *FaultyFs
}

func (l *limitedFile) Write(p []byte) (int, error) {
	l.fs.mu.Lock()
	room := l.fs.WriteLimit - l.fs.written
	if room <= 0 {
		l.fs.mu.Unlock()
		return 0, ErrInjected
	}
	short := len(p) > room
	if short {
		p = p[:room]
	}
	l.fs.written += len(p)
	l.fs.mu.Unlock()

	n, err := l.File.Write(p)
	if err == nil && short {
		err = ErrInjected
	}
	return n, err
}

func (l *limitedFile) WriteString(s string) (int, error) {
	return l.Write([]byte(s))
}
