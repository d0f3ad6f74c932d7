package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"soldi/internal/core"
)

const loanColumns = "id, type, description, amount_cents, start_date, end_date, completed"

func (s *Store) InsertLoan(ctx context.Context, l core.Loan) (int64, error) {
	var id int64
	if l.ID != 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO loans (id, type, description, amount_cents, start_date, end_date, completed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, string(l.Type), l.Description, l.Amount.Cents, l.StartDate.String(), loanEndDate(l), l.Completed)
		if err != nil {
			return 0, fmt.Errorf("insert loan: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert loan: %w", err)
		}
		if n == 0 {
			return 0, core.ErrConflict
		}
		id = l.ID
	} else {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO loans (type, description, amount_cents, start_date, end_date, completed)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			string(l.Type), l.Description, l.Amount.Cents, l.StartDate.String(), loanEndDate(l), l.Completed)
		if err != nil {
			return 0, fmt.Errorf("insert loan: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("insert loan: %w", err)
		}
	}

	s.changed(ctx, KindLoan, "insert", id)
	return id, nil
}

// UpdateLoan rewrites a loan. A completed loan accepts metadata edits
// only: description and end date. Type, amount and the completed flag
// are frozen once the loan has been settled. The freeze lives in the
// statements themselves, not in a prior read, so a completion landing
// between calls can never have its frozen fields overwritten.
func (s *Store) UpdateLoan(ctx context.Context, l core.Loan) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE loans SET type = ?, description = ?, amount_cents = ?, start_date = ?, end_date = ?
		 WHERE id = ? AND completed = 0`,
		string(l.Type), l.Description, l.Amount.Cents, l.StartDate.String(), loanEndDate(l), l.ID)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if n == 0 {
		// Either the loan is completed (metadata-only edit) or it does
		// not exist.
		res, err = s.db.ExecContext(ctx,
			`UPDATE loans SET description = ?, end_date = ? WHERE id = ? AND completed = 1`,
			l.Description, loanEndDate(l), l.ID)
		if err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		if n, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		if n == 0 {
			return core.ErrNotFound
		}
	}

	s.changed(ctx, KindLoan, "update", l.ID)
	return nil
}

func (s *Store) DeleteLoan(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if n == 0 {
		return nil
	}

	s.changed(ctx, KindLoan, "delete", id)
	return nil
}

func (s *Store) GetLoan(ctx context.Context, id int64) (core.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Loan{}, core.ErrNotFound
	}
	if err != nil {
		return core.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return l, nil
}

// ListLoans returns all loans, most recently created first.
func (s *Store) ListLoans(ctx context.Context) ([]core.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

// LastLoans returns the n most recently created loans, newest first.
func (s *Store) LastLoans(ctx context.Context, n int) ([]core.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("last loans: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

// SumLoans totals the amount of every loan of the given type.
func (s *Store) SumLoans(ctx context.Context, t core.LoanType) (core.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM loans WHERE type = ?`, string(t)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum loans: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// CompleteLoan marks a loan settled and records the derived transaction
// in one SQL transaction: either both become visible or neither does.
// The derived transaction mirrors the loan amount, maps CREDIT to INCOME
// and DEBT to EXPENSE, and is dated day.
func (s *Store) CompleteLoan(ctx context.Context, loanID, accountID int64, categoryID *int64, day core.Date) (core.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin completion: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = ?`, loanID)
	loan, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load loan: %w", err)
	}
	if loan.Completed {
		return core.Transaction{}, core.ErrLoanCompleted
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE loans SET completed = 1 WHERE id = ? AND completed = 0`, loanID); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: mark loan completed: %v", core.ErrAtomicity, err)
	}

	t := core.Transaction{
		AccountID:   accountID,
		CategoryID:  categoryID,
		Type:        loan.Type.EntryType(),
		Date:        day,
		Description: settlementDescription(loan),
		Amount:      loan.Amount,
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (account_id, category_id, type, date, description, amount_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.AccountID, t.CategoryID, string(t.Type), t.Date.String(), t.Description, t.Amount.Cents)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: record settlement: %v", core.ErrAtomicity, err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: record settlement: %v", core.ErrAtomicity, err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: commit: %v", core.ErrAtomicity, err)
	}

	s.changed(ctx, KindLoan, "update", loanID)
	s.changed(ctx, KindTransaction, "insert", t.ID)
	return t, nil
}

func settlementDescription(l core.Loan) string {
	if l.Type == core.Credit {
		return "Credit repaid: " + l.Description
	}
	return "Debt settled: " + l.Description
}

// loanEndDate maps the optional zero end date to NULL.
func loanEndDate(l core.Loan) any {
	if l.EndDate.IsZero() {
		return nil
	}
	return l.EndDate.String()
}

func scanLoan(row rowScanner) (core.Loan, error) {
	var (
		l     core.Loan
		typ   string
		start string
		end   sql.NullString
	)
	if err := row.Scan(&l.ID, &typ, &l.Description, &l.Amount.Cents, &start, &end, &l.Completed); err != nil {
		return core.Loan{}, err
	}
	l.Type = core.LoanType(typ)
	var err error
	if l.StartDate, err = core.ParseDate(start); err != nil {
		return core.Loan{}, fmt.Errorf("stored start date %q: %w", start, err)
	}
	if end.Valid {
		if l.EndDate, err = core.ParseDate(end.String); err != nil {
			return core.Loan{}, fmt.Errorf("stored end date %q: %w", end.String, err)
		}
	}
	return l, nil
}

func collectLoans(rows *sql.Rows) ([]core.Loan, error) {
	var out []core.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return out, nil
}
