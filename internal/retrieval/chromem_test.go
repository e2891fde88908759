package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, cfg ChromemConfig) *ChromemStore {
	t.Helper()
	s, err := NewChromemStore(cfg)
	require.NoError(t, err)
	return s
}

func TestChromemStore_EmptyRetrieve(t *testing.T) {
	s := newTestStore(t, ChromemConfig{})
	got, err := s.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestChromemStore_IngestAndRetrieve(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ChromemConfig{TopK: 1})

	n, err := s.Ingest(ctx, "cats and dogs are friendly pets", "animals")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = s.Ingest(ctx, "golang concurrency uses goroutines and channels", "go")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())

	got, err := s.Retrieve(ctx, "how does golang concurrency work")
	require.NoError(t, err)
	assert.Equal(t, "golang concurrency uses goroutines and channels", got)
}

func TestChromemStore_TopKCappedByCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ChromemConfig{TopK: 5})
	_, err := s.Ingest(ctx, "first note about habits", "a")
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "second note about habits", "b")
	require.NoError(t, err)

	got, err := s.Retrieve(ctx, "habits")
	require.NoError(t, err)
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{"first note about habits", "second note about habits"}, lines)
}

func TestChromemStore_ReingestOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ChromemConfig{ChunkSize: 10, ChunkOverlap: 0})

	n, err := s.Ingest(ctx, "aaaa bbbb cccc dddd", "doc")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = s.Ingest(ctx, "aaaa bbbb cccc dddd", "doc")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())
}

func TestChromemStore_IngestBlank(t *testing.T) {
	s := newTestStore(t, ChromemConfig{})
	n, err := s.Ingest(context.Background(), "   ", "blank")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, s.Count())
}

func TestChromemStore_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newTestStore(t, ChromemConfig{PersistPath: dir})
	_, err := s.Ingest(ctx, "persisted knowledge", "disk")
	require.NoError(t, err)

	reopened := newTestStore(t, ChromemConfig{PersistPath: dir})
	assert.Equal(t, 1, reopened.Count())
}

func TestNop_Retrieve(t *testing.T) {
	got, err := Nop{}.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, got)
}
