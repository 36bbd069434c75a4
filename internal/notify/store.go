package notify

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed local notification store: the process-local
// stand-in for a device notification subsystem. Pending notifications live
// in the notifications table; delivered ones stay behind as history and
// are not touched by CancelAll.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS notifications (
	id           TEXT PRIMARY KEY,
	event_id     TEXT NOT NULL,
	title        TEXT NOT NULL,
	body         TEXT NOT NULL,
	sound        TEXT NOT NULL,
	fire_at      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	delivered_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_notifications_fire_at ON notifications(fire_at);

CREATE TABLE IF NOT EXISTS channels (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	importance  INTEGER NOT NULL,
	vibration   TEXT NOT NULL,
	light_color TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open opens (creating if needed) the notification store at path. The
// special path ":memory:" opens an in-memory store.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening notification store: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating notification store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const permissionKey = "notifications_enabled"

// RequestPermission reports the stored permission state. Permission
// defaults to granted; SetPermission flips it (and the CLI exposes that
// for users who want the store silent).
func (s *Store) RequestPermission(ctx context.Context) (PermissionStatus, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, permissionKey,
	).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return PermissionStatus{Alert: true, Sound: true, Badge: true}, nil
	case err != nil:
		return PermissionStatus{}, fmt.Errorf("reading permission state: %w", err)
	}

	granted := value == "1"
	return PermissionStatus{Alert: granted, Sound: granted, Badge: granted}, nil
}

// SetPermission persists the permission state.
func (s *Store) SetPermission(ctx context.Context, granted bool) error {
	value := "0"
	if granted {
		value = "1"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		permissionKey, value,
	)
	if err != nil {
		return fmt.Errorf("storing permission state: %w", err)
	}
	return nil
}

// EnsureChannel records the channel definition once; repeat calls are
// no-ops.
func (s *Store) EnsureChannel(ctx context.Context, ch Channel) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO channels (id, name, importance, vibration, light_color, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ch.ID, ch.Name, int(ch.Importance), encodeVibration(ch.VibrationPattern), ch.LightColor, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("ensuring channel %q: %w", ch.ID, err)
	}
	return nil
}

// CancelAll removes every pending (undelivered) notification.
func (s *Store) CancelAll(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE delivered_at IS NULL`)
	if err != nil {
		return fmt.Errorf("cancelling pending notifications: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug("cancelled pending notifications", zap.Int64("count", n))
	}
	return nil
}

// Schedule inserts a single pending notification.
func (s *Store) Schedule(ctx context.Context, n Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, event_id, title, body, sound, fire_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.EventID, n.Title, n.Body, n.Sound,
		n.FireAt.UTC().Format(time.RFC3339), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("scheduling notification for event %q: %w", n.EventID, err)
	}
	return nil
}

// Pending returns all undelivered notifications ordered by fire time.
func (s *Store) Pending(ctx context.Context) ([]Notification, error) {
	return s.query(ctx,
		`SELECT id, event_id, title, body, sound, fire_at
		 FROM notifications WHERE delivered_at IS NULL ORDER BY fire_at`)
}

// Due returns undelivered notifications whose fire time is at or before
// now, ordered by fire time.
func (s *Store) Due(ctx context.Context, now time.Time) ([]Notification, error) {
	return s.query(ctx,
		`SELECT id, event_id, title, body, sound, fire_at
		 FROM notifications WHERE delivered_at IS NULL AND fire_at <= ? ORDER BY fire_at`,
		now.UTC().Format(time.RFC3339))
}

// MarkDelivered records that a notification fired.
func (s *Store) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET delivered_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("marking notification %q delivered: %w", id, err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var fireAt string
		if err := rows.Scan(&n.ID, &n.EventID, &n.Title, &n.Body, &n.Sound, &fireAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, fireAt)
		if err != nil {
			s.logger.Warn("notification row with bad fire_at", zap.String("id", n.ID), zap.String("fire_at", fireAt))
			continue
		}
		n.FireAt = t
		out = append(out, n)
	}
	return out, rows.Err()
}

func encodeVibration(pattern []time.Duration) string {
	parts := make([]string, len(pattern))
	for i, d := range pattern {
		parts[i] = fmt.Sprintf("%d", d.Milliseconds())
	}
	return strings.Join(parts, ",")
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
