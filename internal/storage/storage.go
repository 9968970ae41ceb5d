package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tasknest/internal/task"
)

var ErrDuplicateID = errors.New("task id already exists")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	description TEXT DEFAULT NULL,
	emoji TEXT DEFAULT NULL,
	color TEXT NOT NULL,
	date TEXT NOT NULL,
	deadline TEXT DEFAULT NULL,
	categories TEXT NOT NULL DEFAULT '[]',
	recurring INTEGER NOT NULL DEFAULT 0,
	done INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS categories (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	emoji TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS drafts (
	session TEXT NOT NULL,
	field TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session, field)
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

// ensureTaskColumns upgrades databases created before pinning and
// recurring intervals existed.
func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"pinned":             "ALTER TABLE tasks ADD COLUMN pinned INTEGER NOT NULL DEFAULT 0;",
		"recurring_interval": "ALTER TABLE tasks ADD COLUMN recurring_interval TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

// FetchTasks returns every task in insertion order.
func (s *Store) FetchTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, name, description, emoji, color, date, deadline, categories, recurring, recurring_interval, done, pinned FROM tasks ORDER BY seq;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var desc, emoji, deadline, interval sql.NullString
		var dateStr, catsJSON string
		var recurring, done, pinned int

		if err := rows.Scan(&t.ID, &t.Name, &desc, &emoji, &t.Color, &dateStr, &deadline, &catsJSON, &recurring, &interval, &done, &pinned); err != nil {
			return nil, err
		}
		t.Recurring = recurring == 1
		t.Done = done == 1
		t.Pinned = pinned == 1
		if desc.Valid {
			t.Description = &desc.String
		}
		if emoji.Valid {
			t.Emoji = &emoji.String
		}
		if interval.Valid {
			iv := task.Interval(interval.String)
			t.RecurringInterval = &iv
		}
		if parsed, err := time.Parse(time.RFC3339Nano, dateStr); err == nil {
			t.Date = parsed
		}
		if deadline.Valid {
			if parsed, err := time.Parse(time.RFC3339, deadline.String); err == nil {
				t.Deadline = &parsed
			}
		}
		if err := json.Unmarshal([]byte(catsJSON), &t.Category); err != nil {
			return nil, fmt.Errorf("task %s categories: %w", t.ID, err)
		}
		if t.Category == nil {
			t.Category = []task.Category{}
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AppendTask inserts t at the end of the collection.
func (s *Store) AppendTask(t task.Task) error {
	cats := t.Category
	if cats == nil {
		cats = []task.Category{}
	}
	catsJSON, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	var deadline sql.NullString
	if t.Deadline != nil {
		deadline = sql.NullString{String: t.Deadline.Format(time.RFC3339), Valid: true}
	}
	var interval sql.NullString
	if t.RecurringInterval != nil {
		interval = sql.NullString{String: string(*t.RecurringInterval), Valid: true}
	}

	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM tasks WHERE id = ?;`, t.ID).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}

	_, err = s.db.Exec(`INSERT INTO tasks (id, name, description, emoji, color, date, deadline, categories, recurring, recurring_interval, done, pinned)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		t.ID, t.Name, nullString(t.Description), nullString(t.Emoji), t.Color,
		t.Date.Format(time.RFC3339Nano), deadline, string(catsJSON),
		boolToInt(t.Recurring), interval, boolToInt(t.Done), boolToInt(t.Pinned))
	return err
}

func (s *Store) SetDone(id string, done bool) error {
	_, err := s.db.Exec(`UPDATE tasks SET done = ? WHERE id = ?;`, boolToInt(done), id)
	return err
}

func (s *Store) SetPinned(id string, pinned bool) error {
	_, err := s.db.Exec(`UPDATE tasks SET pinned = ? WHERE id = ?;`, boolToInt(pinned), id)
	return err
}

func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
