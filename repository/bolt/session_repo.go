package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository"
)

var sessionsBucket = []byte("sessions")

type storedUser struct {
	User    domain.User `json:"user"`
	SavedAt time.Time   `json:"saved_at"`
}

// SessionRepository keeps the last known user of each session in a local
// bbolt file so the console survives a restart.
type SessionRepository struct {
	db *bolt.DB
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// OpenSessionRepository opens (or creates) the bolt file at path.
func OpenSessionRepository(path string) (*SessionRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &SessionRepository{db: db}, nil
}

func (r *SessionRepository) Load(_ context.Context, sessionID string) (*domain.User, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var stored *storedUser
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionsBucket).Get([]byte(sessionID))
		if raw == nil {
			return nil
		}
		stored = &storedUser{}
		return json.Unmarshal(raw, stored)
	})
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrSessionNotFound
	}
	return &stored.User, nil
}

func (r *SessionRepository) Save(_ context.Context, sessionID string, user *domain.User) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if sessionID == "" || user == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(storedUser{User: *user, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sessionID), payload)
	})
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(sessionID))
	})
}

// Size returns the number of mirrored sessions.
func (r *SessionRepository) Size() (int, error) {
	if r == nil || r.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := r.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(sessionsBucket).Stats().KeyN
		return nil
	})
	return count, err
}

func (r *SessionRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
