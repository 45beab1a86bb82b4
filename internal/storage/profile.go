package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-crossy/internal/achievements"
)

const (
	statTotalDodges     = "total_dodges"
	statTotalJumps      = "total_jumps"
	statMaxScore        = "max_score"
	statMaxSurvivalTime = "max_survival_time"
	statGamesPlayed     = "games_played"
	statTotalDeaths     = "total_deaths"
	statDodgedPrefix    = "dodged."

	settingUsername = "username"
)

// LoadLifetime reads the lifetime totals. Missing keys read as zero.
func (s *Store) LoadLifetime() (achievements.Lifetime, error) {
	rows, err := s.db.Query("SELECT key, value FROM profile_stats")
	if err != nil {
		return achievements.Lifetime{}, fmt.Errorf("storage: cannot query profile stats: %w", err)
	}
	defer rows.Close()

	var life achievements.Lifetime
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return achievements.Lifetime{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		switch key {
		case statTotalDodges:
			life.TotalDodges = int(value)
		case statTotalJumps:
			life.TotalJumps = int(value)
		case statMaxScore:
			life.MaxScore = int(value)
		case statMaxSurvivalTime:
			life.MaxSurvivalTime = value
		case statGamesPlayed:
			life.GamesPlayed = int(value)
		case statTotalDeaths:
			life.TotalDeaths = int(value)
		default:
			if kind, ok := strings.CutPrefix(key, statDodgedPrefix); ok {
				if life.DodgedByKind == nil {
					life.DodgedByKind = make(map[string]int)
				}
				life.DodgedByKind[kind] = int(value)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return achievements.Lifetime{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return life, nil
}

// SaveLifetime replaces the lifetime totals in one transaction.
func (s *Store) SaveLifetime(life achievements.Lifetime) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	values := map[string]float64{
		statTotalDodges:     float64(life.TotalDodges),
		statTotalJumps:      float64(life.TotalJumps),
		statMaxScore:        float64(life.MaxScore),
		statMaxSurvivalTime: life.MaxSurvivalTime,
		statGamesPlayed:     float64(life.GamesPlayed),
		statTotalDeaths:     float64(life.TotalDeaths),
	}
	for kind, n := range life.DodgedByKind {
		values[statDodgedPrefix+kind] = float64(n)
	}

	for key, value := range values {
		if _, err := tx.Exec(
			`INSERT INTO profile_stats (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return fmt.Errorf("storage: cannot save profile stat %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit profile stats: %w", err)
	}
	return nil
}

// UnlockedAchievements returns unlocked achievement IDs with their times.
func (s *Store) UnlockedAchievements() (map[string]time.Time, error) {
	rows, err := s.db.Query("SELECT id, unlocked_at FROM achievements")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at any
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ts := parseTimestamp(at)
		if ts.IsZero() {
			ts = time.Unix(0, 0).UTC()
		}
		out[id] = ts
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// UnlockAchievement marks id unlocked and reports whether it was new.
func (s *Store) UnlockAchievement(id string) (bool, error) {
	res, err := s.db.Exec("INSERT OR IGNORE INTO achievements (id) VALUES (?)", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot unlock achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}

// Ensure Store implements achievements.Store
var _ achievements.Store = (*Store)(nil)

// Setting returns a stored value; ok is false when the key is unset.
func (s *Store) Setting(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores an opaque value under key.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// Username returns the saved leaderboard name, empty when unset.
func (s *Store) Username() (string, error) {
	name, _, err := s.Setting(settingUsername)
	return name, err
}

// SetUsername saves the leaderboard name.
func (s *Store) SetUsername(name string) error {
	return s.SetSetting(settingUsername, name)
}
