package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps chunk/embedding pairs per session in a local sqlite database
// and answers nearest-neighbor queries by cosine similarity.
//
// A document's chunks are written in a single transaction, so queries never
// observe a half-ingested document. Different documents may be ingested
// concurrently; sqlite writes are serialized behind a mutex.
type Store struct {
	db       *sqlx.DB
	embedder Embedder

	chunkSize    int
	chunkOverlap int

	writeMu sync.Mutex
}

func NewStore(dbPath string, embedder Embedder, chunkSize, chunkOverlap int) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	s := &Store{
		db:           db,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init vector store schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS resume_chunks (
			session_id  TEXT NOT NULL,
			document_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			content     TEXT NOT NULL,
			embedding   BLOB NOT NULL,
			PRIMARY KEY (document_id, chunk_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resume_chunks_session ON resume_chunks(session_id)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Ingest chunks and embeds a document's text, then stores all chunks
// atomically. Returns the number of chunks stored. A chunk whose embedding
// fails after retries is dropped with a log line; ingestion fails only when
// no chunk could be embedded at all.
func (s *Store) Ingest(ctx context.Context, sessionID, documentID, text string) (int, error) {
	pieces := SplitText(text, s.chunkSize, s.chunkOverlap)
	if len(pieces) == 0 {
		return 0, nil
	}

	type embedded struct {
		index  int
		text   string
		vector []float32
	}

	var chunks []embedded
	for i, piece := range pieces {
		vec, err := s.embedder.Embed(ctx, piece)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			log.Printf("[Index] embedding failed for chunk %d of %s: %v", i, documentID, err)
			continue
		}
		chunks = append(chunks, embedded{index: i, text: piece, vector: vec})
	}

	if len(chunks) == 0 {
		return 0, fmt.Errorf("no chunks could be embedded for document %s", documentID)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range chunks {
		blob, err := json.Marshal(c.vector)
		if err != nil {
			return 0, fmt.Errorf("encode embedding: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO resume_chunks (session_id, document_id, chunk_index, content, embedding)
			 VALUES (?, ?, ?, ?, ?)`,
			sessionID, documentID, c.index, c.text, blob)
		if err != nil {
			return 0, fmt.Errorf("insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit ingest transaction: %w", err)
	}

	log.Printf("[Index] ingested %d chunk(s) for document %s", len(chunks), documentID)
	return len(chunks), nil
}

// Query returns the k chunks in the session most similar to the query text.
// Ties are broken by original chunk order (document id, then chunk index).
func (s *Store) Query(ctx context.Context, sessionID, queryText string, k int) ([]Chunk, error) {
	queryVec, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx,
		`SELECT document_id, chunk_index, content, embedding
		 FROM resume_chunks WHERE session_id = ?
		 ORDER BY document_id, chunk_index`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var (
			c    Chunk
			blob []byte
		)
		if err := rows.Scan(&c.DocumentID, &c.Index, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		var vec []float32
		if err := json.Unmarshal(blob, &vec); err != nil {
			continue
		}
		c.Similarity = CosineSimilarity(queryVec, vec)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable sort preserves ingestion order for equal similarities.
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Similarity > chunks[j].Similarity
	})
	if k > 0 && len(chunks) > k {
		chunks = chunks[:k]
	}
	return chunks, nil
}

// DocumentChunkCount reports how many chunks a document contributed.
func (s *Store) DocumentChunkCount(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM resume_chunks WHERE document_id = ?`, documentID)
	return n, err
}

// DeleteSession removes every chunk the session owns.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM resume_chunks WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session chunks: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
