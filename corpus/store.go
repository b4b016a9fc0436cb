package corpus

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
	_ "modernc.org/sqlite"

	"github.com/chazu/magpie/ir"
)

// ErrProgramNotFound indicates the requested program doesn't exist.
var ErrProgramNotFound = errors.New("program not found")

// Store is a SQLite-backed corpus of programs. Programs are content
// addressed: inserting a program whose digest is already present returns the
// existing entry's id instead of storing a duplicate.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	log  commonlog.Logger
}

// Open opens (creating if necessary) a corpus store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("corpus: opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: setting busy timeout: %w", err)
	}

	// Create table if needed
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		id         TEXT PRIMARY KEY,
		digest     BLOB NOT NULL UNIQUE,
		data       BLOB NOT NULL,
		num_instrs INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: creating table: %w", err)
	}

	return &Store{
		db:   db,
		path: path,
		log:  commonlog.GetLogger("magpie.corpus"),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores a program and returns its id. If a structurally identical
// program is already present, the existing id is returned and nothing is
// written.
func (s *Store) Put(p *ir.Program) (string, error) {
	data, err := MarshalProgram(p)
	if err != nil {
		return "", fmt.Errorf("corpus: encoding program: %w", err)
	}
	digest, err := ProgramDigest(p)
	if err != nil {
		return "", fmt.Errorf("corpus: hashing program: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing string
	err = s.db.QueryRow("SELECT id FROM programs WHERE digest = ?", digest[:]).Scan(&existing)
	switch {
	case err == nil:
		s.log.Debugf("program already in corpus as %s", existing)
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("corpus: digest lookup: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		"INSERT INTO programs (id, digest, data, num_instrs, created_at) VALUES (?, ?, ?, ?, ?)",
		id, digest[:], data, p.Len(), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("corpus: inserting program: %w", err)
	}
	return id, nil
}

// Get loads the program with the given id.
// Returns ErrProgramNotFound if it doesn't exist.
func (s *Store) Get(id string) (*ir.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow("SELECT data FROM programs WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("corpus: loading program %s: %w", id, err)
	}
	return UnmarshalProgram(data)
}

// Delete removes the program with the given id.
// Returns ErrProgramNotFound if it doesn't exist.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM programs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("corpus: deleting program %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("corpus: deleting program %s: %w", id, err)
	}
	if n == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// Count returns the number of programs in the corpus.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM programs").Scan(&n); err != nil {
		return 0, fmt.Errorf("corpus: counting programs: %w", err)
	}
	return n, nil
}

// Each calls fn for every program in the corpus, in insertion order.
// Iteration stops at the first error returned by fn.
func (s *Store) Each(fn func(id string, p *ir.Program) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id, data FROM programs ORDER BY created_at, id")
	if err != nil {
		return fmt.Errorf("corpus: iterating programs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return fmt.Errorf("corpus: scanning row: %w", err)
		}
		p, err := UnmarshalProgram(data)
		if err != nil {
			return fmt.Errorf("corpus: program %s: %w", id, err)
		}
		if err := fn(id, p); err != nil {
			return err
		}
	}
	return rows.Err()
}
