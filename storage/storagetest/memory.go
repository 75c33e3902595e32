// Package storagetest provides an in-memory storage.Storage with failure
// injection for tests.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/streamscribe/storage"
)

// Op names an operation for failure injection.
type Op string

const (
	OpUpload Op = "upload"
	OpDelete Op = "delete"
	OpExists Op = "exists"
	OpPath   Op = "path"
)

type memFile struct {
	data    []byte
	modTime time.Time
}

// Memory is a thread-safe in-memory Storage.
type Memory struct {
	mu      sync.RWMutex
	files   map[string]*memFile
	failOn  map[Op]error
	deletes map[string]int
}

var _ storage.Storage = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		files:   make(map[string]*memFile),
		failOn:  make(map[Op]error),
		deletes: make(map[string]int),
	}
}

// FailOn makes every call of op return err; nil clears it.
func (m *Memory) FailOn(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failOn, op)
		return
	}
	m.failOn[op] = err
}

// Put stores data directly.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = &memFile{data: append([]byte(nil), data...), modTime: time.Now()}
}

// Get returns stored data.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[name]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}

// Deletes returns how many times Delete was called for name.
func (m *Memory) Deletes(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deletes[name]
}

func (m *Memory) fail(op Op) error {
	return m.failOn[op]
}

func (m *Memory) Upload(_ context.Context, name string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("storagetest: read: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(OpUpload); err != nil {
		return err
	}
	m.files[name] = &memFile{data: data, modTime: time.Now()}
	return nil
}

func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes[name]++
	if err := m.fail(OpDelete); err != nil {
		return err
	}
	delete(m.files, name)
	return nil
}

func (m *Memory) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail(OpExists); err != nil {
		return false, err
	}
	_, ok := m.files[name]
	return ok, nil
}

// Path returns a mem:// location for existing objects.
func (m *Memory) Path(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail(OpPath); err != nil {
		return "", err
	}
	if _, ok := m.files[name]; !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, name)
	}
	return "mem://" + name, nil
}

func (m *Memory) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []storage.FileInfo
	for name, f := range m.files {
		if strings.HasPrefix(name, prefix) {
			out = append(out, storage.FileInfo{Path: name, Size: int64(len(f.data)), LastModified: f.modTime})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// ErrInjected is a convenience error for FailOn.
var ErrInjected = errors.New("storagetest: injected failure")
