package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"soldi/internal/core"
)

const transactionColumns = "id, account_id, category_id, type, date, description, amount_cents"

// InsertTransaction persists a new transaction and returns its id. A
// record carrying an explicit id that collides with an existing row is
// dropped (the existing row is left untouched) and ErrConflict returned.
func (s *Store) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var id int64
	if t.ID != 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO transactions (id, account_id, category_id, type, date, description, amount_cents)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.AccountID, t.CategoryID, string(t.Type), t.Date.String(), t.Description, t.Amount.Cents)
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		if n == 0 {
			return 0, core.ErrConflict
		}
		id = t.ID
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO transactions (account_id, category_id, type, date, description, amount_cents)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.AccountID, t.CategoryID, string(t.Type), t.Date.String(), t.Description, t.Amount.Cents)
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
	}

	s.changed(ctx, KindTransaction, "insert", id)
	return id, nil
}

// UpdateTransaction rewrites an existing row. A missing id yields
// ErrNotFound and never creates a row.
func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET account_id = ?, category_id = ?, type = ?, date = ?, description = ?, amount_cents = ?
		 WHERE id = ?`,
		t.AccountID, t.CategoryID, string(t.Type), t.Date.String(), t.Description, t.Amount.Cents, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	s.changed(ctx, KindTransaction, "update", t.ID)
	return nil
}

// DeleteTransaction removes a row by id; deleting an absent id is a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return nil
	}

	s.changed(ctx, KindTransaction, "delete", id)
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns all transactions, most recent day first.
func (s *Store) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsOn returns the transactions of one calendar day,
// newest id first.
func (s *Store) ListTransactionsOn(ctx context.Context, day core.Date) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE date = ? ORDER BY id DESC`, day.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions by day: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t        core.Transaction
		category sql.NullInt64
		typ      string
		date     string
	)
	if err := row.Scan(&t.ID, &t.AccountID, &category, &typ, &date, &t.Description, &t.Amount.Cents); err != nil {
		return core.Transaction{}, err
	}
	if category.Valid {
		t.CategoryID = &category.Int64
	}
	t.Type = core.EntryType(typ)
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Date = d
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
