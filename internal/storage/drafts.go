package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// DraftStore persists one session's form draft in the drafts table.
type DraftStore struct {
	db      *sql.DB
	session string
}

func (s *Store) Drafts(session string) *DraftStore {
	return &DraftStore{db: s.db, session: session}
}

func (d *DraftStore) Load(key string) (string, bool, error) {
	var v string
	err := d.db.QueryRow(`SELECT value FROM drafts WHERE session = ? AND field = ?;`, d.session, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (d *DraftStore) Save(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := d.db.Exec(`INSERT INTO drafts (session, field, value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(session, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`,
		d.session, key, value, now)
	return err
}

func (d *DraftStore) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, d.session)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	_, err := d.db.Exec(`DELETE FROM drafts WHERE session = ? AND field IN (`+placeholders+`);`, args...)
	return err
}
