package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string         `json:"db_path"`
	DBSizeBytes    int64          `json:"db_size_bytes"`
	TotalSessions  int            `json:"total_sessions"`
	ActiveSessions int            `json:"active_sessions"`
	TotalTurns     int            `json:"total_turns"`
	Sources        []SourceStats  `json:"sources"`
	TopKeywords    []KeywordStats `json:"top_keywords"`
}

// SourceStats counts replies per stage.
type SourceStats struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// KeywordStats counts replies per keyword.
type KeywordStats struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&st.TotalSessions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE deleted_at IS NULL`).Scan(&st.ActiveSessions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&st.TotalTurns)

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) AS cnt
		FROM turns GROUP BY source ORDER BY cnt DESC, source`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss SourceStats
		rows.Scan(&ss.Source, &ss.Count)
		st.Sources = append(st.Sources, ss)
	}

	kwRows, err := s.db.QueryContext(ctx, `
		SELECT keyword, COUNT(*) AS cnt
		FROM turns WHERE keyword IS NOT NULL
		GROUP BY keyword ORDER BY cnt DESC, keyword LIMIT 10`)
	if err != nil {
		return st, err
	}
	defer kwRows.Close()

	for kwRows.Next() {
		var ks KeywordStats
		kwRows.Scan(&ks.Keyword, &ks.Count)
		st.TopKeywords = append(st.TopKeywords, ks)
	}

	return st, nil
}
