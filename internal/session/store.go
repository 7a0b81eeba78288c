// Package session owns the persisted (token, user) pair identifying the
// current authenticated actor. No other package touches the underlying
// storage directly; corruption recovery and 401 token eviction both live
// behind this API.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Storage entry names. These mirror the two keys the browser build of the
// console kept in origin-scoped storage.
const (
	tokenEntry = "authToken"
	userEntry  = "user"
)

const defaultFileMode = 0o600

// Session couples the opaque auth token with the user it belongs to.
type Session struct {
	Token string
	User  model.User
}

// Store provides read/write/clear access to the persisted session.
type Store interface {
	// SetSession persists token and user as a unit. Partial persistence is
	// treated as a failure and rolled back.
	SetSession(token string, user model.User) error

	// StoredUser returns the persisted user, or nil when absent. Malformed
	// persisted data is treated as corruption: the store clears itself and
	// returns nil, never an error.
	StoredUser() *model.User

	// Token returns the stored auth token, or "" when absent.
	Token() string

	// IsAuthenticated reports whether a token is present. The token is not
	// validated; the backend is trusted to reject stale ones.
	IsAuthenticated() bool

	// IsAdmin reports whether the stored user carries the admin role.
	IsAdmin() bool

	// Clear removes token and user unconditionally.
	Clear()

	// ClearToken removes only the token. Used for 401 eviction.
	ClearToken()
}

// fileStore keeps the two entries as files under a directory. Multiple
// processes sharing the dir race last-writer-wins, same as browser tabs
// sharing origin storage.
type fileStore struct {
	mu   sync.Mutex
	dir  string
	mode os.FileMode
}

// New creates a file-backed store rooted at dir, creating it when missing.
func New(dir string, opts ...Option) (Store, error) {
	s := &fileStore{
		dir:  dir,
		mode: defaultFileMode,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s, nil
}

func (s *fileStore) SetSession(token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistSession, err)
	}

	// User first, token last: a token is the authentication signal, so it
	// must never exist without its user record.
	if err := s.writeEntry(userEntry, encoded); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistSession, err)
	}
	if err := s.writeEntry(tokenEntry, []byte(token)); err != nil {
		s.removeEntry(userEntry)
		return fmt.Errorf("%w: %v", ErrPersistSession, err)
	}

	metrics.RecordSessionEvent("set")
	return nil
}

func (s *fileStore) StoredUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(userEntry))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.clearLocked("corrupt")
		}
		return nil
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.Get().Warn(context.Background(), "stored user is corrupt; clearing session", logger.Error(err))
		s.clearLocked("corrupt")
		return nil
	}

	// JSON null and {} decode cleanly but carry no identity; treat them the
	// same as corruption.
	if user.ID == "" {
		logger.Get().Warn(context.Background(), "stored user has no id; clearing session")
		s.clearLocked("corrupt")
		return nil
	}
	return &user
}

func (s *fileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(tokenEntry))
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *fileStore) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *fileStore) IsAdmin() bool {
	user := s.StoredUser()
	return user != nil && user.Role == model.RoleAdmin
}

func (s *fileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked("clear")
}

func (s *fileStore) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeEntry(tokenEntry)
	metrics.RecordSessionEvent("evict")
}

// clearLocked removes both entries. Must be called with s.mu held.
func (s *fileStore) clearLocked(kind string) {
	s.removeEntry(tokenEntry)
	s.removeEntry(userEntry)
	metrics.RecordSessionEvent(kind)
}

func (s *fileStore) path(entry string) string {
	return filepath.Join(s.dir, entry)
}

// writeEntry writes via temp file + rename so a crashed writer can never
// leave a torn entry behind.
func (s *fileStore) writeEntry(entry string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, entry+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path(entry))
}

func (s *fileStore) removeEntry(entry string) {
	if err := os.Remove(s.path(entry)); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Get().Warn(context.Background(), "failed to remove session entry",
			logger.String("entry", entry), logger.Error(err))
	}
}
