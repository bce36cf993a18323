package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/eliza/internal/model"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		script      TEXT NOT NULL DEFAULT 'doctor',
		state       TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_live_name ON sessions(name) WHERE deleted_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);

	CREATE TABLE IF NOT EXISTS turns (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id),
		seq         INTEGER NOT NULL,
		input       TEXT NOT NULL,
		response    TEXT NOT NULL,
		source      TEXT NOT NULL,
		keyword     TEXT,
		created_at  TEXT NOT NULL,
		UNIQUE (session_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_turns_source ON turns(source);
	`
	_, err := s.db.Exec(schema)
	return err
}

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(timeLayout, v)
	return t
}

const sessionColumns = `s.id, s.name, s.script, s.state, s.created_at, s.updated_at, s.deleted_at,
	(SELECT COUNT(*) FROM turns t WHERE t.session_id = s.id)`

func (s *SQLiteStore) Open(ctx context.Context, p OpenParams) (*model.Session, error) {
	if p.Name != "" {
		sess, err := s.Get(ctx, p.Name)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	script := p.Script
	if script == "" {
		script = model.DefaultScript
	}
	id := s.newID()
	name := p.Name
	if name == "" {
		name = id
	}
	ts := now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, script, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, script, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return &model.Session{
		ID:        id,
		Name:      name,
		Script:    script,
		CreatedAt: parseTime(ts),
		UpdatedAt: parseTime(ts),
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, ref string) (*model.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s
		 WHERE (s.id = ? OR s.name = ?) AND s.deleted_at IS NULL
		 ORDER BY s.id = ? DESC LIMIT 1`, ref, ref, ref)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLiteStore) SaveTurn(ctx context.Context, p TurnParams) (*model.Turn, error) {
	ts := now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var live int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE id = ? AND deleted_at IS NULL`, p.SessionID).Scan(&live)
	if err != nil {
		return nil, err
	}
	if live == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.SessionID)
	}

	var seq int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE session_id = ?`, p.SessionID).Scan(&seq)
	if err != nil {
		return nil, err
	}

	turn := &model.Turn{
		ID:        s.newID(),
		SessionID: p.SessionID,
		Seq:       seq,
		Input:     p.Input,
		Response:  p.Response,
		Source:    p.Source,
		Keyword:   p.Keyword,
		CreatedAt: parseTime(ts),
	}

	var keyword *string
	if p.Keyword != "" {
		keyword = &p.Keyword
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, seq, input, response, source, keyword, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.SessionID, seq, p.Input, p.Response, p.Source, keyword, ts)
	if err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}

	var state *string
	if len(p.State) > 0 {
		v := string(p.State)
		state = &v
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?`, state, ts, p.SessionID)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return turn, nil
}

func (s *SQLiteStore) Transcript(ctx context.Context, sessionID string) ([]model.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, seq, input, response, source, keyword, created_at
		 FROM turns WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []model.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Session, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions s
		 WHERE s.deleted_at IS NULL
		 ORDER BY s.updated_at DESC, s.id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	sess, err := s.Get(ctx, p.Ref)
	if err != nil {
		return err
	}

	if p.Hard {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, sess.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sess.ID); err != nil {
			return err
		}
		return tx.Commit()
	}

	_, err = s.db.ExecContext(ctx, `UPDATE sessions SET deleted_at = ? WHERE id = ?`, now(), sess.ID)
	return err
}

func (s *SQLiteStore) Reset(ctx context.Context, ref string) error {
	sess, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET state = NULL, updated_at = ? WHERE id = ?`, now(), sess.ID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (model.Session, error) {
	var m model.Session
	var state, deletedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&m.ID, &m.Name, &m.Script, &state, &createdAt, &updatedAt, &deletedAt, &m.Turns)
	if err != nil {
		return m, err
	}

	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	if state.Valid && state.String != "" {
		m.State = []byte(state.String)
	}
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		m.DeletedAt = &t
	}
	return m, nil
}

func scanTurn(row scanner) (model.Turn, error) {
	var t model.Turn
	var keyword sql.NullString
	var createdAt string

	err := row.Scan(&t.ID, &t.SessionID, &t.Seq, &t.Input, &t.Response, &t.Source, &keyword, &createdAt)
	if err != nil {
		return t, err
	}
	t.CreatedAt = parseTime(createdAt)
	if keyword.Valid {
		t.Keyword = keyword.String
	}
	return t, nil
}
