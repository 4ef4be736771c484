// Package sqlite provides SQLite-based persistent storage for FitCoach.
// Uses WAL mode for concurrent reads and crash-safe writes. It backs the
// offline/demo profile store and the session-scoped transcript store.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/fitcoach-app/fitcoach/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Profile rows: one per user, zero-initialized on first access.
		`CREATE TABLE IF NOT EXISTS profiles (
			id                TEXT PRIMARY KEY,
			email             TEXT NOT NULL DEFAULT '',
			display_name      TEXT NOT NULL DEFAULT '',
			message_count     INTEGER NOT NULL DEFAULT 0,
			current_level     INTEGER NOT NULL DEFAULT 1,
			level_name        TEXT NOT NULL DEFAULT 'Beginner',
			current_streak    INTEGER NOT NULL DEFAULT 0,
			longest_streak    INTEGER NOT NULL DEFAULT 0,
			total_active_days INTEGER NOT NULL DEFAULT 0,
			last_active_date  INTEGER,
			streak_freezes    INTEGER NOT NULL DEFAULT 0,
			last_freeze_date  INTEGER,
			created_at        INTEGER NOT NULL,
			updated_at        INTEGER NOT NULL
		)`,

		// Earned badges: (user, badge) unique, duplicate insert ignored.
		`CREATE TABLE IF NOT EXISTS earned_badges (
			user_id   TEXT NOT NULL,
			badge_id  TEXT NOT NULL,
			earned_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, badge_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_badges_user ON earned_badges(user_id)`,

		// Session key-value store (chat transcript lives here).
		`CREATE TABLE IF NOT EXISTS session (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Profile Rows ───────────────────────────────────────────────────────────

// GetProfile retrieves a profile row, or nil when absent.
func (d *DB) GetProfile(id string) (*domain.UserProfile, error) {
	row := d.db.QueryRow(
		`SELECT id, email, display_name, message_count, current_level, level_name,
		        current_streak, longest_streak, total_active_days, last_active_date,
		        streak_freezes, last_freeze_date, created_at, updated_at
		 FROM profiles WHERE id = ?`, id,
	)

	var p domain.UserProfile
	var lastActive, lastFreeze sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.MessageCount,
		&p.CurrentLevel, &p.LevelName, &p.CurrentStreak, &p.LongestStreak,
		&p.TotalActiveDays, &lastActive, &p.StreakFreezes, &lastFreeze,
		&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lastActive.Valid {
		p.LastActiveDate = time.Unix(lastActive.Int64, 0).UTC()
	}
	if lastFreeze.Valid {
		p.LastFreezeDate = time.Unix(lastFreeze.Int64, 0).UTC()
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &p, nil
}

// InsertProfile creates a zero-initialized profile row.
func (d *DB) InsertProfile(p domain.UserProfile) error {
	_, err := d.db.Exec(
		`INSERT INTO profiles (id, email, display_name, message_count, current_level,
		        level_name, current_streak, longest_streak, total_active_days,
		        last_active_date, streak_freezes, last_freeze_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.DisplayName, p.MessageCount, p.CurrentLevel, p.LevelName,
		p.CurrentStreak, p.LongestStreak, p.TotalActiveDays,
		nullableUnix(p.LastActiveDate), p.StreakFreezes, nullableUnix(p.LastFreezeDate),
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	return err
}

// UpdateProfile writes the mutable gamification fields of an existing row.
func (d *DB) UpdateProfile(p domain.UserProfile) error {
	res, err := d.db.Exec(
		`UPDATE profiles SET
			message_count = ?, current_level = ?, level_name = ?,
			current_streak = ?, longest_streak = ?, total_active_days = ?,
			last_active_date = ?, streak_freezes = ?, last_freeze_date = ?,
			updated_at = ?
		 WHERE id = ?`,
		p.MessageCount, p.CurrentLevel, p.LevelName,
		p.CurrentStreak, p.LongestStreak, p.TotalActiveDays,
		nullableUnix(p.LastActiveDate), p.StreakFreezes, nullableUnix(p.LastFreezeDate),
		p.UpdatedAt.Unix(), p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// ─── Earned Badges ──────────────────────────────────────────────────────────

// UpsertEarnedBadge records a badge unlock; re-inserting is a no-op.
func (d *DB) UpsertEarnedBadge(userID, badgeID string, earnedAt time.Time) error {
	_, err := d.db.Exec(
		`INSERT INTO earned_badges (user_id, badge_id, earned_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, badge_id) DO NOTHING`,
		userID, badgeID, earnedAt.Unix(),
	)
	return err
}

// ListEarnedBadges returns all badges earned by a user, oldest first.
func (d *DB) ListEarnedBadges(userID string) ([]domain.EarnedBadge, error) {
	rows, err := d.db.Query(
		`SELECT badge_id, earned_at FROM earned_badges
		 WHERE user_id = ? ORDER BY earned_at`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []domain.EarnedBadge
	for rows.Next() {
		var b domain.EarnedBadge
		var at int64
		if err := rows.Scan(&b.BadgeID, &at); err != nil {
			return nil, err
		}
		b.EarnedAt = time.Unix(at, 0).UTC()
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// ─── Session KV ─────────────────────────────────────────────────────────────

// SetSession stores a key-value pair in the session table.
func (d *DB) SetSession(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO session (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetSession retrieves a session value; absent keys return "".
func (d *DB) GetSession(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// DeleteSession removes a session key.
func (d *DB) DeleteSession(key string) error {
	_, err := d.db.Exec(`DELETE FROM session WHERE key = ?`, key)
	return err
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
