//go:build cgo

package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKuzu(t *testing.T, path string) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore(path)
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKuzuStore_Contract(t *testing.T) {
	storeContract(t, newTestKuzu(t, ""))
}

func TestKuzuStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.kuzu")
	ctx := context.Background()

	s, err := NewKuzuStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "s", "user", "remember me"))
	require.NoError(t, s.Close())

	reopened := newTestKuzu(t, path)
	turns, err := reopened.Load(ctx, "s")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "remember me", turns[0].Content)
}

func TestOpen_Kuzu(t *testing.T) {
	s, err := Open(BackendKuzu, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.IsType(t, &KuzuStore{}, s)
}
