package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func exerciseStore(t *testing.T, s KVStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "profile")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "profile", []byte(`{"schemaVersion":5}`)))
	got, err := s.Get(ctx, "profile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":5}`, string(got))

	require.NoError(t, s.Set(ctx, "profile", []byte(`{"schemaVersion":6}`)))
	got, err = s.Get(ctx, "profile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":6}`, string(got))

	require.NoError(t, s.Delete(ctx, "profile"))
	_, err = s.Get(ctx, "profile")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 2, s.Writes())
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordpace.db")
	s, err := NewSQLiteStore(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordpace.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "profile", []byte("payload")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "profile")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "cassandra"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(Options{Driver: "memory"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	exerciseStore(t, s)
}
