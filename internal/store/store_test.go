package store

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/streamflix/streamflix/internal/domain"
)

var _ domain.SessionStore = (*SessionStore)(nil)

func TestSessionStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s, err := NewSessionStore(path, "http://localhost:5000", nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Empty(t, s.Token())
	assert.Empty(t, s.Username())

	require.NoError(t, s.SaveSession("tok-1", "Ana"))
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "Ana", s.Username())

	require.NoError(t, s.ClearSession())
	assert.Empty(t, s.Token())
}

func TestSessionStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewSessionStore(path, "http://localhost:5000/", nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession("tok-2", "Ben"))
	require.NoError(t, s.Close())

	s, err = NewSessionStore(path, "HTTP://LOCALHOST:5000", nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "tok-2", s.Token(), "server URL is normalized before keying")
}

func TestSessionStore_KeyedByServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewSessionStore(path, "http://a.example", nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveSession("tok-a", "A"))
	require.NoError(t, s.Close())

	s, err = NewSessionStore(path, "http://b.example", nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Empty(t, s.Token())
}

func TestSessionStore_MemoryOnly(t *testing.T) {
	s, err := NewSessionStore("", "http://localhost:5000", nil)
	require.NoError(t, err)

	require.NoError(t, s.SaveSession("tok", "C"))
	assert.Equal(t, "tok", s.Token())
	require.NoError(t, s.ClearSession())
	assert.Empty(t, s.Token())
	assert.NoError(t, s.Close())
}

func TestSessionStore_SharedFileBetweenInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	// A running browser and a login command on the same file
	tui, err := NewSessionStore(path, "http://localhost:5000", nil)
	require.NoError(t, err)
	defer tui.Close()

	login, err := NewSessionStore(path, "http://localhost:5000", nil)
	require.NoError(t, err, "second instance must not wait on a held lock")
	defer login.Close()

	require.NoError(t, login.SaveSession("tok-new", "Dana"))
	assert.Equal(t, "tok-new", tui.Token())
	assert.Equal(t, "Dana", tui.Username())

	require.NoError(t, tui.ClearSession())
	assert.Empty(t, login.Token())
}

func TestSessionStore_CorruptRecordIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := NewSessionStore(path, "http://localhost:5000", logger)
	require.NoError(t, err)

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put([]byte(s.key), []byte("{not json"))
	}))
	require.NoError(t, db.Close())

	assert.Empty(t, s.Token())
	assert.Contains(t, buf.String(), "failed to read session")
	assert.Contains(t, buf.String(), "corrupt session record")

	// A fresh login overwrites the bad record
	require.NoError(t, s.SaveSession("tok", "Eli"))
	assert.Equal(t, "tok", s.Token())
}

func TestSessionStore_UnreadableFileIsLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := NewSessionStore(path, "http://localhost:5000", logger)
	require.NoError(t, err)

	// Another process mid-write holds the exclusive lock past the timeout
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	require.NoError(t, err)
	defer db.Close()

	assert.Empty(t, s.Token())
	assert.Contains(t, buf.String(), "failed to read session")
}
