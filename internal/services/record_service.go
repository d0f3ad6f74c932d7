// Package services exposes the command/query surface consumed by the
// presentation layer: validated record CRUD, derived summaries and the
// loan-completion workflow.
package services

import (
	"context"

	"soldi/internal/core"
	"soldi/internal/storage"
)

// RecordService fronts the record store with input validation. Every
// create and update validates synchronously before any mutation is
// attempted; reads pass straight through.
type RecordService struct {
	store *storage.Store
}

func NewRecordService(store *storage.Store) *RecordService {
	return &RecordService{store: store}
}

func (s *RecordService) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return s.store.InsertTransaction(ctx, t)
}

func (s *RecordService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.store.UpdateTransaction(ctx, t)
}

func (s *RecordService) DeleteTransaction(ctx context.Context, id int64) error {
	return s.store.DeleteTransaction(ctx, id)
}

func (s *RecordService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *RecordService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *RecordService) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	return s.store.InsertAccount(ctx, a)
}

func (s *RecordService) UpdateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.store.UpdateAccount(ctx, a)
}

func (s *RecordService) DeleteAccount(ctx context.Context, id int64) error {
	return s.store.DeleteAccount(ctx, id)
}

func (s *RecordService) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *RecordService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.store.ListAccounts(ctx)
}

func (s *RecordService) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return s.store.InsertCategory(ctx, c)
}

func (s *RecordService) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.store.UpdateCategory(ctx, c)
}

func (s *RecordService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

func (s *RecordService) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *RecordService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *RecordService) CreateObjective(ctx context.Context, o core.Objective) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	return s.store.InsertObjective(ctx, o)
}

func (s *RecordService) UpdateObjective(ctx context.Context, o core.Objective) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return s.store.UpdateObjective(ctx, o)
}

func (s *RecordService) DeleteObjective(ctx context.Context, id int64) error {
	return s.store.DeleteObjective(ctx, id)
}

func (s *RecordService) GetObjective(ctx context.Context, id int64) (core.Objective, error) {
	return s.store.GetObjective(ctx, id)
}

func (s *RecordService) ListObjectives(ctx context.Context) ([]core.Objective, error) {
	return s.store.ListObjectives(ctx)
}

func (s *RecordService) CreateLoan(ctx context.Context, l core.Loan) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	return s.store.InsertLoan(ctx, l)
}

func (s *RecordService) UpdateLoan(ctx context.Context, l core.Loan) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return s.store.UpdateLoan(ctx, l)
}

func (s *RecordService) DeleteLoan(ctx context.Context, id int64) error {
	return s.store.DeleteLoan(ctx, id)
}

func (s *RecordService) GetLoan(ctx context.Context, id int64) (core.Loan, error) {
	return s.store.GetLoan(ctx, id)
}

func (s *RecordService) ListLoans(ctx context.Context) ([]core.Loan, error) {
	return s.store.ListLoans(ctx)
}

// WatchLoan returns a live view of a single loan that re-emits after
// every loan mutation. The channel closes when ctx is cancelled.
func (s *RecordService) WatchLoan(ctx context.Context, id int64) <-chan core.Loan {
	return storage.Watch(ctx, s.store.Notifier(), storage.KindLoan, func(ctx context.Context) (core.Loan, error) {
		return s.store.GetLoan(ctx, id)
	})
}
