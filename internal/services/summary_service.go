package services

import (
	"context"

	"soldi/internal/core"
	"soldi/internal/storage"
)

// LoanSummary is the compact loan overview shown on the dashboard.
type LoanSummary struct {
	TotalCredit core.Money
	TotalDebt   core.Money
	Recent      []core.Loan // newest first, at most three
}

// SummaryService derives read-only projections from the record store.
// Every value is recomputed from the current store state on each call;
// nothing here mutates records.
type SummaryService struct {
	store *storage.Store
}

func NewSummaryService(store *storage.Store) *SummaryService {
	return &SummaryService{store: store}
}

// TotalCreditLoans sums the amount of every CREDIT loan.
func (s *SummaryService) TotalCreditLoans(ctx context.Context) (core.Money, error) {
	return s.store.SumLoans(ctx, core.Credit)
}

// TotalDebtLoans sums the amount of every DEBT loan.
func (s *SummaryService) TotalDebtLoans(ctx context.Context) (core.Money, error) {
	return s.store.SumLoans(ctx, core.Debt)
}

// LastThreeLoans returns the three most recently created loans, newest
// first.
func (s *SummaryService) LastThreeLoans(ctx context.Context) ([]core.Loan, error) {
	return s.store.LastLoans(ctx, 3)
}

// HasAccounts reports whether at least one account exists.
func (s *SummaryService) HasAccounts(ctx context.Context) (bool, error) {
	return s.store.HasAccounts(ctx)
}

// TransactionsOn lists the transactions of one calendar day.
func (s *SummaryService) TransactionsOn(ctx context.Context, day core.Date) ([]core.Transaction, error) {
	return s.store.ListTransactionsOn(ctx, day)
}

// AccountBalance derives an account's balance from its transactions.
func (s *SummaryService) AccountBalance(ctx context.Context, accountID int64) (core.Money, error) {
	return s.store.AccountBalance(ctx, accountID)
}

// LoanSummary assembles the dashboard overview in one call.
func (s *SummaryService) LoanSummary(ctx context.Context) (LoanSummary, error) {
	credit, err := s.TotalCreditLoans(ctx)
	if err != nil {
		return LoanSummary{}, err
	}
	debt, err := s.TotalDebtLoans(ctx)
	if err != nil {
		return LoanSummary{}, err
	}
	recent, err := s.LastThreeLoans(ctx)
	if err != nil {
		return LoanSummary{}, err
	}
	return LoanSummary{TotalCredit: credit, TotalDebt: debt, Recent: recent}, nil
}

// WatchLoanSummary returns a live view of the loan overview that
// re-emits after every loan mutation until ctx is done.
func (s *SummaryService) WatchLoanSummary(ctx context.Context) <-chan LoanSummary {
	return storage.Watch(ctx, s.store.Notifier(), storage.KindLoan, s.LoanSummary)
}

// WatchAccounts returns a live view of the account list.
func (s *SummaryService) WatchAccounts(ctx context.Context) <-chan []core.Account {
	return storage.Watch(ctx, s.store.Notifier(), storage.KindAccount, s.store.ListAccounts)
}

// WatchTransactions returns a live view of all transactions, most
// recent day first.
func (s *SummaryService) WatchTransactions(ctx context.Context) <-chan []core.Transaction {
	return storage.Watch(ctx, s.store.Notifier(), storage.KindTransaction, s.store.ListTransactions)
}

// WatchCategories returns a live view of the category list.
func (s *SummaryService) WatchCategories(ctx context.Context) <-chan []core.Category {
	return storage.Watch(ctx, s.store.Notifier(), storage.KindCategory, s.store.ListCategories)
}

// WatchObjectives returns a live view of the objective list, earliest
// start date first.
func (s *SummaryService) WatchObjectives(ctx context.Context) <-chan []core.Objective {
	return storage.Watch(ctx, s.store.Notifier(), storage.KindObjective, s.store.ListObjectives)
}
