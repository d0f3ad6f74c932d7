package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soldi/internal/core"
	"soldi/internal/storage"
)

// LoanService runs the loan-completion workflow.
type LoanService struct {
	store *storage.Store
}

func NewLoanService(store *storage.Store) *LoanService {
	return &LoanService{store: store}
}

// CompleteLoan settles a loan: it validates the target account (and
// category, when given), then atomically marks the loan completed and
// records the derived transaction dated today. All preconditions are
// checked before anything is written.
func (s *LoanService) CompleteLoan(ctx context.Context, loanID, accountID int64, categoryID *int64) (core.Transaction, error) {
	has, err := s.store.HasAccounts(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("check accounts: %w", err)
	}
	if !has {
		return core.Transaction{}, fmt.Errorf("%w: create an account before completing a loan", core.ErrValidation)
	}

	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Transaction{}, fmt.Errorf("%w: account %d does not exist", core.ErrValidation, accountID)
		}
		return core.Transaction{}, fmt.Errorf("check account: %w", err)
	}

	if categoryID != nil {
		if _, err := s.store.GetCategory(ctx, *categoryID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.Transaction{}, fmt.Errorf("%w: category %d does not exist", core.ErrValidation, *categoryID)
			}
			return core.Transaction{}, fmt.Errorf("check category: %w", err)
		}
	}

	t, err := s.store.CompleteLoan(ctx, loanID, accountID, categoryID, core.Today())
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Loan completed",
		"loan_id", loanID,
		"transaction_id", t.ID,
		"account_id", accountID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)

	return t, nil
}
