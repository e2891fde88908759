package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"
)

// DefaultTopK is how many chunks Retrieve returns at most.
const DefaultTopK = 3

// DefaultCollection names the collection documents are ingested into.
const DefaultCollection = "neuraline_docs"

// ChromemConfig configures a ChromemStore.
type ChromemConfig struct {
	Collection string
	// PersistPath is a directory for the on-disk database. Empty keeps the
	// store in memory.
	PersistPath string
	Compress    bool
	TopK        int
	// Embed computes document and query vectors. Nil selects HashEmbedding.
	Embed        chromem.EmbeddingFunc
	ChunkSize    int
	ChunkOverlap int
	Logger       *slog.Logger
}

// ChromemStore is a Provider backed by an embedded chromem-go database.
type ChromemStore struct {
	db       *chromem.DB
	col      *chromem.Collection
	topK     int
	splitter Splitter
	logger   *slog.Logger
}

var _ Provider = (*ChromemStore)(nil)

// NewChromemStore opens or creates the configured collection.
func NewChromemStore(cfg ChromemConfig) (*ChromemStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Embed == nil {
		cfg.Embed = HashEmbedding(DefaultHashDimensions)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var db *chromem.DB
	if cfg.PersistPath != "" {
		if err := os.MkdirAll(cfg.PersistPath, 0o755); err != nil {
			return nil, fmt.Errorf("create vector store directory: %w", err)
		}
		var err error
		db, err = chromem.NewPersistentDB(cfg.PersistPath, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("open vector store %s: %w", cfg.PersistPath, err)
		}
	} else {
		db = chromem.NewDB()
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, nil, cfg.Embed)
	if err != nil {
		return nil, fmt.Errorf("get/create collection %q: %w", cfg.Collection, err)
	}

	return &ChromemStore{
		db:       db,
		col:      col,
		topK:     cfg.TopK,
		splitter: NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:   cfg.Logger,
	}, nil
}

// Count returns the number of stored chunks.
func (s *ChromemStore) Count() int {
	return s.col.Count()
}

// Retrieve returns the contents of the chunks most similar to query, joined
// by newlines. An empty store yields "".
func (s *ChromemStore) Retrieve(ctx context.Context, query string) (string, error) {
	n := min(s.topK, s.col.Count())
	if n == 0 || strings.TrimSpace(query) == "" {
		return "", nil
	}

	res, err := s.col.Query(ctx, query, n, nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	parts := make([]string, 0, len(res))
	for _, r := range res {
		parts = append(parts, r.Content)
	}
	return strings.Join(parts, "\n"), nil
}

// Ingest splits text into chunks and stores them with IDs "<source>_<i>".
// Re-ingesting the same source overwrites chunks with matching IDs.
func (s *ChromemStore) Ingest(ctx context.Context, text, source string) (int, error) {
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return 0, nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:       source + "_" + strconv.Itoa(i),
			Content:  c,
			Metadata: map[string]string{"source": source},
		}
	}
	if err := s.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("ingest %s: %w", source, err)
	}

	s.logger.Info("ingested document", "source", source, "chunks", len(docs))
	return len(docs), nil
}
