package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Session is the identity a client holds after logging in.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// SessionStore holds the current session. Get returns nil when nobody is signed in.
type SessionStore interface {
	Init(ctx context.Context) error
	Get() *Session
	Set(s *Session) error
	Clear() error
}

// MemoryStore keeps the session in process memory only.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Init(context.Context) error { return nil }

func (m *MemoryStore) Get() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	cp := *m.session
	return &cp
}

func (m *MemoryStore) Set(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		m.session = nil
		return nil
	}
	cp := *s
	m.session = &cp
	return nil
}

func (m *MemoryStore) Clear() error { return m.Set(nil) }

// FileStore persists the session as JSON. The file is read once, on the first Get or Init.
type FileStore struct {
	path string

	mu      sync.Mutex
	loaded  bool
	session *Session
	loadErr error
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hydrate()
	return f.loadErr
}

func (f *FileStore) Get() *Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hydrate()
	if f.session == nil {
		return nil
	}
	cp := *f.session
	return &cp
}

func (f *FileStore) Set(s *Session) error {
	if s == nil {
		return f.Clear()
	}
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	cp := *s
	f.session, f.loaded, f.loadErr = &cp, true, nil
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session, f.loaded, f.loadErr = nil, true, nil
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// hydrate must be called with f.mu held. A corrupt file is treated as signed out.
func (f *FileStore) hydrate() {
	if f.loaded {
		return
	}
	f.loaded = true
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		f.loadErr = fmt.Errorf("read session: %w", err)
		return
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil || s.Token == "" {
		f.loadErr = fmt.Errorf("decode session: invalid content")
		return
	}
	f.session = &s
}
