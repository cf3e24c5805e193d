package authflow

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

var _ TokenStore = &MemoryTokenStore{}
var _ TokenStore = &FileTokenStore{}

// MemoryTokenStore keeps the token in process memory. Used by tests and by
// embedders that manage persistence themselves.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Load() (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || s.token == "" {
		return "", false, nil
	}
	return s.token, true, nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// FileTokenStore persists the token in a single file owned by the running
// user. Writes go through a temp file and rename so a crash mid-write never
// leaves a torn token behind.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		return nil, goerrors.New("token store path is empty", goerrors.CategoryBadInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create token store directory")
	}

	return &FileTokenStore{path: path}, nil
}

func (s *FileTokenStore) Save(token string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not stage token write")
	}

	name := tmp.Name()
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(name)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not write token")
	}

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(name)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not restrict token permissions")
	}

	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not flush token")
	}

	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist token")
	}

	return nil
}

func (s *FileTokenStore) Load() (string, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, goerrors.Wrap(err, goerrors.CategoryInternal, "could not read token")
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false, nil
	}

	return token, true, nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not clear token")
	}
	return nil
}

// Path returns the backing file location.
func (s *FileTokenStore) Path() string {
	return s.path
}
