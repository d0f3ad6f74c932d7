package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"soldi/internal/core"
)

func (s *Store) InsertCategory(ctx context.Context, c core.Category) (int64, error) {
	var id int64
	if c.ID != 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (id, type, description) VALUES (?, ?, ?)`,
			c.ID, string(c.Type), c.Description)
		if err != nil {
			return 0, fmt.Errorf("insert category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert category: %w", err)
		}
		if n == 0 {
			return 0, core.ErrConflict
		}
		id = c.ID
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO categories (type, description) VALUES (?, ?)`,
			string(c.Type), c.Description)
		if err != nil {
			return 0, fmt.Errorf("insert category: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert category: %w", err)
		}
	}

	s.changed(ctx, KindCategory, "insert", id)
	return id, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET type = ?, description = ? WHERE id = ?`,
		string(c.Type), c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	s.changed(ctx, KindCategory, "update", c.ID)
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return nil
	}

	s.changed(ctx, KindCategory, "delete", id)
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var (
		c   core.Category
		typ string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, description FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &typ, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.Type = core.EntryType(typ)
	return c, nil
}

// ListCategories returns all categories in insertion order.
func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, description FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c   core.Category
			typ string
		)
		if err := rows.Scan(&c.ID, &typ, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.EntryType(typ)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}
