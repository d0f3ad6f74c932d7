package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"soldi/internal/core"
	"soldi/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "soldi.db"), nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateTransactionValidatesBeforeMutation(t *testing.T) {
	store := newTestStore(t)
	records := NewRecordService(store)
	ctx := context.Background()

	_, err := records.CreateTransaction(ctx, core.Transaction{
		AccountID: 1, Type: core.Expense, Date: core.NewDate(2025, 1, 1),
		Description: "   ", Amount: core.Money{Cents: 100},
	})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	all, err := records.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected input must not be persisted, found %d rows", len(all))
	}
}

func TestCreateObjectiveRejectsReversedDates(t *testing.T) {
	records := NewRecordService(newTestStore(t))

	_, err := records.CreateObjective(context.Background(), core.Objective{
		Type: core.Expense, Description: "trip",
		Amount:    core.Money{Cents: 100},
		StartDate: core.NewDate(2025, 6, 1), EndDate: core.NewDate(2025, 5, 1),
	})
	if !errors.Is(err, core.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestCompleteLoanScenario(t *testing.T) {
	// Insert Account{id=1}, Loan{id=1,DEBT,100,"Rent"}, complete with
	// no category: loan becomes completed, and an EXPENSE transaction
	// for 100 cents against account 1 appears.
	store := newTestStore(t)
	records := NewRecordService(store)
	loans := NewLoanService(store)
	ctx := context.Background()

	if _, err := records.CreateAccount(ctx, core.Account{ID: 1, Title: "Bank"}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if _, err := records.CreateLoan(ctx, core.Loan{
		ID: 1, Type: core.Debt, Description: "Rent",
		Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
	}); err != nil {
		t.Fatalf("create loan: %v", err)
	}

	tr, err := loans.CompleteLoan(ctx, 1, 1, nil)
	if err != nil {
		t.Fatalf("complete loan: %v", err)
	}
	if tr.Type != core.Expense || tr.Amount.Cents != 100 || tr.AccountID != 1 {
		t.Fatalf("unexpected derived transaction: %+v", tr)
	}

	loan, err := records.GetLoan(ctx, 1)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if !loan.Completed {
		t.Fatal("loan should be completed")
	}
}

func TestCompleteLoanBlockedWithoutAccounts(t *testing.T) {
	store := newTestStore(t)
	loans := NewLoanService(store)
	ctx := context.Background()

	if _, err := store.InsertLoan(ctx, core.Loan{
		Type: core.Debt, Description: "Rent",
		Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
	}); err != nil {
		t.Fatalf("insert loan: %v", err)
	}

	_, err := loans.CompleteLoan(ctx, 1, 1, nil)
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error with empty accounts, got %v", err)
	}

	loan, err := store.GetLoan(ctx, 1)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if loan.Completed {
		t.Fatal("failed precondition must not mutate the loan")
	}
}

func TestCompleteLoanRejectsUnknownAccountAndCategory(t *testing.T) {
	store := newTestStore(t)
	loans := NewLoanService(store)
	ctx := context.Background()

	if _, err := store.InsertAccount(ctx, core.Account{ID: 1, Title: "Bank"}); err != nil {
		t.Fatalf("insert account: %v", err)
	}
	if _, err := store.InsertLoan(ctx, core.Loan{
		ID: 1, Type: core.Credit, Description: "Lent",
		Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
	}); err != nil {
		t.Fatalf("insert loan: %v", err)
	}

	if _, err := loans.CompleteLoan(ctx, 1, 99, nil); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("unknown account: expected validation error, got %v", err)
	}

	missing := int64(42)
	if _, err := loans.CompleteLoan(ctx, 1, 1, &missing); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("unknown category: expected validation error, got %v", err)
	}
}

func TestLoanSummaryMatchesStoreState(t *testing.T) {
	store := newTestStore(t)
	summary := NewSummaryService(store)
	ctx := context.Background()

	loansIn := []core.Loan{
		{Type: core.Credit, Description: "a", Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1)},
		{Type: core.Debt, Description: "b", Amount: core.Money{Cents: 200}, StartDate: core.NewDate(2025, 1, 2)},
		{Type: core.Credit, Description: "c", Amount: core.Money{Cents: 300}, StartDate: core.NewDate(2025, 1, 3)},
		{Type: core.Debt, Description: "d", Amount: core.Money{Cents: 400}, StartDate: core.NewDate(2025, 1, 4)},
	}
	for _, l := range loansIn {
		if _, err := store.InsertLoan(ctx, l); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := summary.LoanSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.TotalCredit.Cents != 400 {
		t.Fatalf("total credit = %d, want 400", got.TotalCredit.Cents)
	}
	if got.TotalDebt.Cents != 600 {
		t.Fatalf("total debt = %d, want 600", got.TotalDebt.Cents)
	}
	if len(got.Recent) != 3 {
		t.Fatalf("recent loans = %d, want 3", len(got.Recent))
	}
	if got.Recent[0].Description != "d" || got.Recent[2].Description != "b" {
		t.Fatalf("recent loans out of order: %+v", got.Recent)
	}
}

func TestWatchLoanSummaryReEmitsOnMutation(t *testing.T) {
	store := newTestStore(t)
	summary := NewSummaryService(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	views := summary.WatchLoanSummary(ctx)

	first := receiveSummary(t, views)
	if first.TotalDebt.Cents != 0 {
		t.Fatalf("initial debt total = %d, want 0", first.TotalDebt.Cents)
	}

	if _, err := store.InsertLoan(ctx, core.Loan{
		Type: core.Debt, Description: "rent",
		Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	next := receiveSummary(t, views)
	if next.TotalDebt.Cents != 100 {
		t.Fatalf("debt total after insert = %d, want 100", next.TotalDebt.Cents)
	}
}

func TestWatchLoanTracksSingleRecord(t *testing.T) {
	store := newTestStore(t)
	records := NewRecordService(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := store.InsertLoan(ctx, core.Loan{
		Type: core.Credit, Description: "lent to anna",
		Amount: core.Money{Cents: 5000}, StartDate: core.NewDate(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	views := records.WatchLoan(ctx, id)

	select {
	case first := <-views:
		if first.Description != "lent to anna" {
			t.Fatalf("initial view description = %q", first.Description)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial loan view")
	}

	updated := core.Loan{
		ID: id, Type: core.Credit, Description: "lent to anna (half repaid)",
		Amount: core.Money{Cents: 5000}, StartDate: core.NewDate(2025, 2, 1),
	}
	if err := store.UpdateLoan(ctx, updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	select {
	case next := <-views:
		if next.Description != "lent to anna (half repaid)" {
			t.Fatalf("view after update = %q", next.Description)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refreshed loan view")
	}
}

func TestEveryCollectionHasLiveView(t *testing.T) {
	store := newTestStore(t)
	summary := NewSummaryService(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	categories := summary.WatchCategories(ctx)
	objectives := summary.WatchObjectives(ctx)

	receiveView(t, categories) // initial empty snapshot
	receiveView(t, objectives)

	if _, err := store.InsertCategory(ctx, core.Category{
		Type: core.Expense, Description: "Food",
	}); err != nil {
		t.Fatalf("insert category: %v", err)
	}
	if got := receiveView(t, categories); len(got) != 1 || got[0].Description != "Food" {
		t.Fatalf("category view after insert: %+v", got)
	}

	if _, err := store.InsertObjective(ctx, core.Objective{
		Type: core.Income, Description: "Save up",
		Amount:    core.Money{Cents: 10000},
		StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 6, 1),
	}); err != nil {
		t.Fatalf("insert objective: %v", err)
	}
	if got := receiveView(t, objectives); len(got) != 1 || got[0].Description != "Save up" {
		t.Fatalf("objective view after insert: %+v", got)
	}
}

func receiveView[T any](t *testing.T, views <-chan []T) []T {
	t.Helper()
	select {
	case v := <-views:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for view snapshot")
		return nil
	}
}

func receiveSummary(t *testing.T, views <-chan LoanSummary) LoanSummary {
	t.Helper()
	select {
	case v := <-views:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for summary snapshot")
		return LoanSummary{}
	}
}
