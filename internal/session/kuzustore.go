//go:build cgo

package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store on an embedded KuzuDB database. It requires CGO
// because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	// mu serializes use of the single connection.
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

func openKuzu(path string) (Store, error) {
	return NewKuzuStore(path)
}

// NewKuzuStore opens a KuzuDB database at dbPath, or in memory when dbPath is
// empty, and creates the Turn table if needed.
func NewKuzuStore(dbPath string) (*KuzuStore, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	} else if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		// KuzuDB creates the leaf directory itself.
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}

	db, err := kuzu.OpenDatabase(dbPath, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}

	s := &KuzuStore{db: db, conn: conn}
	if err := s.initSchema(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

const turnDDL = `CREATE NODE TABLE IF NOT EXISTS Turn(
	id STRING,
	session_id STRING,
	seq INT64,
	role STRING,
	content STRING,
	created_at INT64,
	PRIMARY KEY(id)
)`

func (s *KuzuStore) initSchema() error {
	res, err := s.conn.Query(turnDDL)
	if err != nil {
		return fmt.Errorf("kuzu: init schema: %w", err)
	}
	res.Close()
	return nil
}

// Load returns the session's turns ordered by insertion.
func (s *KuzuStore) Load(_ context.Context, sessionID string) ([]Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query(
		`MATCH (t:Turn) WHERE t.session_id = $sid
		 RETURN t.id, t.role, t.content, t.created_at
		 ORDER BY t.seq`,
		map[string]any{"sid": sessionID},
	)
	if err != nil {
		return nil, err
	}

	turns := make([]Turn, 0, len(rows))
	for _, r := range rows {
		turns = append(turns, Turn{
			ID:        toString(r[0]),
			SessionID: sessionID,
			Role:      toString(r[1]),
			Content:   toString(r[2]),
			CreatedAt: time.Unix(0, toInt64(r[3])).UTC(),
		})
	}
	return turns, nil
}

// Save appends a turn with the next sequence number of its session.
func (s *KuzuStore) Save(_ context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.query(
		`MATCH (t:Turn) WHERE t.session_id = $sid RETURN count(t)`,
		map[string]any{"sid": sessionID},
	)
	if err != nil {
		return err
	}
	var seq int64
	if len(rows) > 0 && len(rows[0]) > 0 {
		seq = toInt64(rows[0][0])
	}

	return s.exec(
		`CREATE (t:Turn {id: $id, session_id: $sid, seq: $seq, role: $role, content: $content, created_at: $at})`,
		map[string]any{
			"id":      uuid.NewString(),
			"sid":     sessionID,
			"seq":     seq,
			"role":    role,
			"content": content,
			"at":      time.Now().UnixNano(),
		},
	)
}

// Clear deletes all turns of the session.
func (s *KuzuStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exec(`MATCH (t:Turn) WHERE t.session_id = $sid DELETE t`, map[string]any{"sid": sessionID})
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return nil, fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
