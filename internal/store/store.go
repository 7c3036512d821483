package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketSession = []byte("session")

// lockTimeout bounds the wait for another process's transaction
const lockTimeout = 2 * time.Second

// session is the persisted credential record
type session struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	SavedAt  time.Time `json:"savedAt"`
}

// SessionStore implements domain.SessionStore using BoltDB.
// Credentials are keyed by server so switching backends never reuses a token.
// The database file is opened only for the length of one transaction, so
// several processes (a running TUI and a login command) can share it, and a
// login or logout from another process is picked up on the next request.
type SessionStore struct {
	path   string
	key    string
	logger *slog.Logger

	mu  sync.RWMutex
	mem *session // Memory-only mode
}

// NewSessionStore checks that the session database at path can be opened,
// creating it if needed. An empty path keeps the session in memory only.
func NewSessionStore(path, serverURL string, logger *slog.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SessionStore{path: path, key: hashServerURL(serverURL), logger: logger}
	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	err := s.update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close is a no-op; no file handle is held between calls
func (s *SessionStore) Close() error {
	return nil
}

// Persistent reports whether sessions survive the process
func (s *SessionStore) Persistent() bool {
	return s.path != ""
}

func (s *SessionStore) open(readOnly bool) (*bolt.DB, error) {
	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: lockTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return db, nil
}

func (s *SessionStore) update(fn func(tx *bolt.Tx) error) error {
	db, err := s.open(false)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

func (s *SessionStore) view(fn func(tx *bolt.Tx) error) error {
	db, err := s.open(true)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}

// Token returns the stored bearer token, or "" when signed out
func (s *SessionStore) Token() string {
	if sess, ok := s.load(); ok {
		return sess.Token
	}
	return ""
}

// Username returns the stored display name, or "" when signed out
func (s *SessionStore) Username() string {
	if sess, ok := s.load(); ok {
		return sess.Username
	}
	return ""
}

// SaveSession stores the credentials of a successful login
func (s *SessionStore) SaveSession(token, username string) error {
	sess := &session{Token: token, Username: username, SavedAt: time.Now()}

	if s.path == "" {
		s.mu.Lock()
		s.mem = sess
		s.mu.Unlock()
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		return b.Put([]byte(s.key), data)
	})
}

// ClearSession removes the stored credentials
func (s *SessionStore) ClearSession() error {
	if s.path == "" {
		s.mu.Lock()
		s.mem = nil
		s.mu.Unlock()
		return nil
	}

	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(s.key))
	})
}

// load returns the stored session. Read or decode failures are logged and
// treated as signed out.
func (s *SessionStore) load() (*session, bool) {
	if s.path == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.mem, s.mem != nil
	}

	sess, err := s.read()
	if err != nil {
		s.logger.Error("failed to read session", "error", err, "path", s.path)
		return nil, false
	}
	return sess, sess != nil
}

// read fetches and decodes the session record; nil when absent
func (s *SessionStore) read() (*session, error) {
	var data []byte
	err := s.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(s.key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session record: %w", err)
	}
	return &sess, nil
}
