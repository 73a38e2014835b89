package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samandr77/microservices/bills/internal/entity"
)

const bucketSessions = "sessions"

// Store persists the sessions validated by the auth service, keyed by bearer token.
type Store struct {
	db *bolt.DB
}

type record struct {
	entity.Session
	ValidatedAt time.Time `json:"validatedAt"`
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSessions))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", bucketSessions, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores session as validated now.
func (s *Store) Put(token string, session entity.Session) error {
	data, err := json.Marshal(record{Session: session, ValidatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(token), data)
	})
}

func (s *Store) Get(token string) (entity.Session, error) {
	session, _, err := s.Lookup(token)
	return session, err
}

// Lookup returns the session of token and the moment it was last validated.
func (s *Store) Lookup(token string) (entity.Session, time.Time, error) {
	var r record

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketSessions)).Get([]byte(token))
		if data == nil {
			return entity.ErrNotFound
		}

		return json.Unmarshal(data, &r)
	})
	if err != nil {
		return entity.Session{}, time.Time{}, err
	}

	return r.Session, r.ValidatedAt, nil
}

func (s *Store) Delete(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).Delete([]byte(token))
	})
}

// Session resolves the caller of ctx. It implements service.SessionAccessor.
func (s *Store) Session(ctx context.Context) (entity.Session, bool) {
	token, err := entity.TokenFromContext(ctx)
	if err != nil || token == "" {
		return entity.Session{}, false
	}

	session, err := s.Get(token)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			slog.ErrorContext(ctx, "read session", "error", err)
		}

		return entity.Session{}, false
	}

	return session, true
}
