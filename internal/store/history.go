package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// History is the SQLite activity log: one row per task completion change,
// plus a small key/value state table.
type History struct {
	*sql.DB
}

// Activity is a recorded completion change of one task.
type Activity struct {
	ID        int
	PlanID    string
	TaskIndex int
	Subject   string
	Completed bool
	At        time.Time
}

func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to history: %w", err)
	}

	h := &History{db}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return h, nil
}

func (h *History) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS activity (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id TEXT NOT NULL,
			task_index INTEGER NOT NULL,
			subject TEXT NOT NULL,
			completed INTEGER NOT NULL,
			at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS activity_plan ON activity (plan_id)`,
		`CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := h.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}

func (h *History) Record(a Activity) (int64, error) {
	completed := 0
	if a.Completed {
		completed = 1
	}
	result, err := h.Exec(
		`INSERT INTO activity (plan_id, task_index, subject, completed, at) VALUES (?, ?, ?, ?, ?)`,
		a.PlanID, a.TaskIndex, a.Subject, completed, a.At.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("recording activity: %w", err)
	}
	return result.LastInsertId()
}

// Activities returns the log of one plan, or of every plan when planID is
// empty, oldest first.
func (h *History) Activities(planID string) ([]Activity, error) {
	if planID == "" {
		return h.queryActivity(
			`SELECT id, plan_id, task_index, subject, completed, at FROM activity ORDER BY at ASC, id ASC`,
		)
	}
	return h.queryActivity(
		`SELECT id, plan_id, task_index, subject, completed, at FROM activity WHERE plan_id = ? ORDER BY at ASC, id ASC`,
		planID,
	)
}

// CompletionsSince returns the rows marking a task done at or after t.
func (h *History) CompletionsSince(t time.Time) ([]Activity, error) {
	return h.queryActivity(
		`SELECT id, plan_id, task_index, subject, completed, at FROM activity
		 WHERE completed = 1 AND at >= ?
		 ORDER BY at ASC, id ASC`,
		t.UTC().Format(time.RFC3339),
	)
}

func (h *History) DeletePlan(planID string) error {
	if _, err := h.Exec("DELETE FROM activity WHERE plan_id = ?", planID); err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

// Clear empties both tables.
func (h *History) Clear() error {
	for _, table := range []string{"activity", "state"} {
		if _, err := h.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (h *History) queryActivity(query string, args ...any) ([]Activity, error) {
	rows, err := h.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		var completed int
		var at string
		if err := rows.Scan(&a.ID, &a.PlanID, &a.TaskIndex, &a.Subject, &completed, &at); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		a.Completed = completed != 0
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			a.At = t.Local()
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (h *History) GetState(key string) (string, error) {
	var value string
	err := h.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (h *History) SetState(key, value string) error {
	_, err := h.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
