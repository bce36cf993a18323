package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/eliza/internal/model"
)

// SearchParams holds parameters for searching transcripts.
type SearchParams struct {
	Query   string
	Session string // id or name; empty searches every live session
	Limit   int
}

// SearchResult is a matching turn and the session it belongs to.
type SearchResult struct {
	model.Turn
	SessionName string `json:"session_name"`
}

// Search finds turns whose input or response contains the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"

	where := []string{"s.deleted_at IS NULL", "(t.input LIKE ? OR t.response LIKE ?)"}
	args := []interface{}{query, query}

	if p.Session != "" {
		where = append(where, "(s.id = ? OR s.name = ?)")
		args = append(args, p.Session, p.Session)
	}

	q := fmt.Sprintf(`
		SELECT t.id, t.session_id, t.seq, t.input, t.response, t.source, t.keyword, t.created_at, s.name
		FROM turns t
		INNER JOIN sessions s ON s.id = t.session_id
		WHERE %s
		ORDER BY t.created_at DESC, t.seq DESC
		LIMIT ?`, strings.Join(where, " AND "))

	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var keyword sql.NullString
		var createdAt string
		err := rows.Scan(&r.ID, &r.SessionID, &r.Seq, &r.Input, &r.Response, &r.Source,
			&keyword, &createdAt, &r.SessionName)
		if err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(createdAt)
		if keyword.Valid {
			r.Keyword = keyword.String
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
