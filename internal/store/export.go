package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/eliza/internal/model"
)

// ExportAll returns every live session with its transcript, or only the
// session ref names when ref is not empty.
func (s *SQLiteStore) ExportAll(ctx context.Context, ref string) ([]model.SessionExport, error) {
	var sessions []model.Session
	if ref != "" {
		sess, err := s.Get(ctx, ref)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	} else {
		rows, err := s.db.QueryContext(ctx,
			`SELECT `+sessionColumns+` FROM sessions s
			 WHERE s.deleted_at IS NULL ORDER BY s.created_at, s.id`)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			sess, err := scanSession(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			sessions = append(sessions, sess)
		}
		rows.Close()
	}

	exports := make([]model.SessionExport, 0, len(sessions))
	for _, sess := range sessions {
		turns, err := s.Transcript(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("transcript %s: %w", sess.Name, err)
		}
		if turns == nil {
			turns = []model.Turn{}
		}
		exports = append(exports, model.SessionExport{Session: sess, Transcript: turns})
	}
	return exports, nil
}

// Import stores sessions from an export under fresh ids. Sessions whose
// name is already live are skipped. It returns the number imported.
func (s *SQLiteStore) Import(ctx context.Context, exports []model.SessionExport) (int, error) {
	imported := 0
	for _, e := range exports {
		if e.Name != "" {
			_, err := s.Get(ctx, e.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrNotFound) {
				return imported, err
			}
		}
		if err := s.importOne(ctx, e); err != nil {
			return imported, fmt.Errorf("import %s: %w", e.Name, err)
		}
		imported++
	}
	return imported, nil
}

func (s *SQLiteStore) importOne(ctx context.Context, e model.SessionExport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := s.newID()
	name := e.Name
	if name == "" {
		name = id
	}
	script := e.Script
	if script == "" {
		script = model.DefaultScript
	}
	created := formatOrNow(e.CreatedAt)
	updated := formatOrNow(e.UpdatedAt)

	var state *string
	if len(e.State) > 0 {
		v := string(e.State)
		state = &v
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, script, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, script, state, created, updated)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, t := range e.Transcript {
		seq := t.Seq
		if seq <= 0 {
			seq = i + 1
		}
		source := t.Source
		if !model.ValidSources[source] {
			return fmt.Errorf("turn %d: invalid source %q", seq, source)
		}
		var keyword *string
		if t.Keyword != "" {
			kw := t.Keyword
			keyword = &kw
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO turns (id, session_id, seq, input, response, source, keyword, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), id, seq, t.Input, t.Response, source, keyword, formatOrNow(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert turn %d: %w", seq, err)
		}
	}
	return tx.Commit()
}

func formatOrNow(t time.Time) string {
	if t.IsZero() {
		return now()
	}
	return t.UTC().Format(timeLayout)
}
