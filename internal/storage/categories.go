package storage

import (
	"github.com/google/uuid"

	"tasknest/internal/task"
)

// DefaultCategories are seeded into an empty categories table.
func DefaultCategories() []task.Category {
	return []task.Category{
		{Name: "Home", Emoji: "🏠", Color: "#1e90ff"},
		{Name: "Work", Emoji: "🏢", Color: "#ff9318"},
		{Name: "Personal", Emoji: "👤", Color: "#2ec03c"},
		{Name: "Health/Fitness", Emoji: "💪", Color: "#ffdd11"},
		{Name: "Education", Emoji: "📚", Color: "#ff4e4e"},
	}
}

func (s *Store) FetchCategories() ([]task.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, emoji, color FROM categories ORDER BY seq;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []task.Category
	for rows.Next() {
		var c task.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Emoji, &c.Color); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// AddCategory stores c, assigning an id when it has none.
func (s *Store) AddCategory(c task.Category) (task.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`INSERT INTO categories (id, name, emoji, color) VALUES (?, ?, ?, ?);`, c.ID, c.Name, c.Emoji, c.Color)
	return c, err
}

// SeedCategories inserts the defaults when no category exists yet.
func (s *Store) SeedCategories() error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM categories;`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, c := range DefaultCategories() {
		if _, err := s.AddCategory(c); err != nil {
			return err
		}
	}
	return nil
}
