package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// DefaultRemoteLimit is the leaderboard page size when none is given.
const DefaultRemoteLimit = 25

// RemoteEntry is one accepted leaderboard submission.
type RemoteEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// InsertRemoteScore stores a normalized submission and returns the row.
func (s *Store) InsertRemoteScore(username string, score int) (RemoteEntry, error) {
	res, err := s.db.Exec(
		"INSERT INTO remote_scores (username, score) VALUES (?, ?)",
		username, score,
	)
	if err != nil {
		return RemoteEntry{}, fmt.Errorf("storage: cannot save remote score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return RemoteEntry{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	var createdAt any
	if err := s.db.QueryRow("SELECT created_at FROM remote_scores WHERE id = ?", id).Scan(&createdAt); err != nil {
		return RemoteEntry{}, fmt.Errorf("storage: cannot read remote score: %w", err)
	}

	return RemoteEntry{ID: id, Username: username, Score: score, CreatedAt: parseTimestamp(createdAt)}, nil
}

// TopRemoteScores returns the leaderboard ordered by score descending,
// earlier submissions first on ties.
func (s *Store) TopRemoteScores(limit int) ([]RemoteEntry, error) {
	if limit <= 0 {
		limit = DefaultRemoteLimit
	}

	rows, err := s.db.Query(
		`SELECT id, username, score, created_at
		 FROM remote_scores
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query remote scores: %w", err)
	}
	defer rows.Close()

	entries := make([]RemoteEntry, 0, limit)
	for rows.Next() {
		var e RemoteEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RemoteBest returns the highest submitted score for username, 0 if none.
func (s *Store) RemoteBest(username string) (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow(
		"SELECT MAX(score) FROM remote_scores WHERE username = ?",
		username,
	).Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query remote best: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}
