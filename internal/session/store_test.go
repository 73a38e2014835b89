package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/bills/internal/entity"
	"github.com/samandr77/microservices/bills/internal/session"
)

func openStore(t *testing.T) *session.Store {
	t.Helper()

	store, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStore_PutGetDelete(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	want := entity.Session{Type: entity.UserTypeEmployee, Email: "a@test.tld"}

	_, err := store.Get("token")
	require.ErrorIs(t, err, entity.ErrNotFound)

	require.NoError(t, store.Put("token", want))

	got, err := store.Get("token")
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, store.Delete("token"))

	_, err = store.Get("token")
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestStore_Lookup(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	want := entity.Session{Type: entity.UserTypeEmployee, Email: "a@test.tld"}

	_, _, err := store.Lookup("token")
	require.ErrorIs(t, err, entity.ErrNotFound)

	before := time.Now()
	require.NoError(t, store.Put("token", want))

	got, validatedAt, err := store.Lookup("token")
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.False(t, validatedAt.Before(before))
	require.False(t, validatedAt.After(time.Now()))
}

func TestStore_Session(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	want := entity.Session{Type: entity.UserTypeAdmin, Email: "admin@test.tld"}
	require.NoError(t, store.Put("token", want))

	_, ok := store.Session(context.Background())
	require.False(t, ok)

	_, ok = store.Session(entity.SetTokenToContext(context.Background(), "unknown"))
	require.False(t, ok)

	got, ok := store.Session(entity.SetTokenToContext(context.Background(), "token"))
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := session.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("token", entity.Session{Type: entity.UserTypeEmployee, Email: "a@test.tld"}))
	require.NoError(t, store.Close())

	store, err = session.Open(path)
	require.NoError(t, err)

	defer store.Close()

	got, err := store.Get("token")
	require.NoError(t, err)
	require.Equal(t, "a@test.tld", got.Email)
}
