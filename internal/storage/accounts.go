package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"soldi/internal/core"
)

func (s *Store) InsertAccount(ctx context.Context, a core.Account) (int64, error) {
	var id int64
	if a.ID != 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO accounts (id, title) VALUES (?, ?)`, a.ID, a.Title)
		if err != nil {
			return 0, fmt.Errorf("insert account: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert account: %w", err)
		}
		if n == 0 {
			return 0, core.ErrConflict
		}
		id = a.ID
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO accounts (title) VALUES (?)`, a.Title)
		if err != nil {
			return 0, fmt.Errorf("insert account: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert account: %w", err)
		}
	}

	s.changed(ctx, KindAccount, "insert", id)
	return id, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET title = ? WHERE id = ?`, a.Title, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	s.changed(ctx, KindAccount, "update", a.ID)
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return nil
	}

	s.changed(ctx, KindAccount, "delete", id)
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var a core.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title FROM accounts WHERE id = ?`, id).Scan(&a.ID, &a.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// ListAccounts returns all accounts ordered by title.
func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title FROM accounts ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Title); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}
