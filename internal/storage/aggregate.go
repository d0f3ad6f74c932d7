package storage

import (
	"context"
	"fmt"

	"soldi/internal/core"
)

// HasAccounts reports whether at least one account exists.
func (s *Store) HasAccounts(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check accounts: %w", err)
	}
	return exists, nil
}

// AccountBalance derives an account's balance from its transactions:
// income adds, expense subtracts. An account with no transactions has a
// zero balance.
func (s *Store) AccountBalance(ctx context.Context, accountID int64) (core.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount_cents ELSE -amount_cents END), 0)
		 FROM transactions WHERE account_id = ?`, accountID).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("account balance: %w", err)
	}
	return core.Money{Cents: cents}, nil
}
