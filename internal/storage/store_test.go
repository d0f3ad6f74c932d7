package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"soldi/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "soldi.db"), nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 3; i++ {
		id, err := s.InsertAccount(ctx, core.Account{Title: "Bank"})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}
}

func TestInsertExplicitIDConflictLeavesExistingUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertAccount(ctx, core.Account{ID: 1, Title: "Bank"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := s.InsertAccount(ctx, core.Account{ID: 1, Title: "Impostor"})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	a, err := s.GetAccount(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Title != "Bank" {
		t.Fatalf("existing record was altered: %q", a.Title)
	}
}

func TestUpdateMissingRowReturnsNotFoundAndCreatesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.UpdateAccount(ctx, core.Account{ID: 999, Title: "Ghost"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := s.GetAccount(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update must not create a row, got %v", err)
	}
}

func TestDeleteMissingRowIsNoOp(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteTransaction(context.Background(), 42); err != nil {
		t.Fatalf("delete of absent id should be a no-op, got %v", err)
	}
}

func TestListTransactionsOrderedByDateDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	days := []core.Date{
		core.NewDate(2025, 2, 10),
		core.NewDate(2025, 3, 1),
		core.NewDate(2025, 1, 20),
	}
	for _, d := range days {
		_, err := s.InsertTransaction(ctx, core.Transaction{
			AccountID: 1, Type: core.Expense, Date: d,
			Description: "spend", Amount: core.Money{Cents: 100},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date.Time) {
			t.Fatalf("transactions out of order: %s before %s", got[i-1].Date, got[i].Date)
		}
	}
}

func TestListTransactionsOnFiltersByExactDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := core.NewDate(2025, 3, 9)

	for _, d := range []core.Date{day, core.NewDate(2025, 3, 8), day} {
		_, err := s.InsertTransaction(ctx, core.Transaction{
			AccountID: 1, Type: core.Income, Date: d,
			Description: "pay", Amount: core.Money{Cents: 500},
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.ListTransactionsOn(ctx, day)
	if err != nil {
		t.Fatalf("list on day: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions on %s, got %d", day, len(got))
	}
	for _, tr := range got {
		if !tr.Date.Equal(day) {
			t.Fatalf("transaction dated %s leaked into %s view", tr.Date, day)
		}
	}
}

func TestListAccountsOrderedByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"Wallet", "Bank", "Savings"} {
		if _, err := s.InsertAccount(ctx, core.Account{Title: title}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Bank", "Savings", "Wallet"}
	for i, a := range got {
		if a.Title != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, a.Title, want[i])
		}
	}
}

func TestLastLoansReturnsAtMostNNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	loan := func(desc string) core.Loan {
		return core.Loan{
			Type: core.Debt, Description: desc,
			Amount: core.Money{Cents: 1000}, StartDate: core.NewDate(2025, 1, 1),
		}
	}

	got, err := s.LastLoans(ctx, 3)
	if err != nil {
		t.Fatalf("last loans: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty store should yield no loans, got %d", len(got))
	}

	var ids []int64
	for _, d := range []string{"a", "b", "c", "d"} {
		id, err := s.InsertLoan(ctx, loan(d))
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}

	got, err = s.LastLoans(ctx, 3)
	if err != nil {
		t.Fatalf("last loans: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(got))
	}
	for i, want := range []int64{ids[3], ids[2], ids[1]} {
		if got[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestSumLoansByType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inserts := []core.Loan{
		{Type: core.Credit, Description: "lent", Amount: core.Money{Cents: 300}, StartDate: core.NewDate(2025, 1, 1)},
		{Type: core.Credit, Description: "lent more", Amount: core.Money{Cents: 200}, StartDate: core.NewDate(2025, 1, 2)},
		{Type: core.Debt, Description: "owed", Amount: core.Money{Cents: 5000}, StartDate: core.NewDate(2025, 1, 3)},
	}
	for _, l := range inserts {
		if _, err := s.InsertLoan(ctx, l); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	credit, err := s.SumLoans(ctx, core.Credit)
	if err != nil {
		t.Fatalf("sum credit: %v", err)
	}
	if credit.Cents != 500 {
		t.Fatalf("credit total = %d, want 500", credit.Cents)
	}
	debt, err := s.SumLoans(ctx, core.Debt)
	if err != nil {
		t.Fatalf("sum debt: %v", err)
	}
	if debt.Cents != 5000 {
		t.Fatalf("debt total = %d, want 5000", debt.Cents)
	}

	// Deleting recomputes idempotently.
	if err := s.DeleteLoan(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	credit, err = s.SumLoans(ctx, core.Credit)
	if err != nil {
		t.Fatalf("sum credit: %v", err)
	}
	if credit.Cents != 300 {
		t.Fatalf("credit total after delete = %d, want 300", credit.Cents)
	}
}

func TestCompleteLoanCreatesDerivedTransactionAtomically(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.InsertAccount(ctx, core.Account{ID: 1, Title: "Bank"}); err != nil {
		t.Fatalf("insert account: %v", err)
	}
	loanID, err := s.InsertLoan(ctx, core.Loan{
		ID: 1, Type: core.Debt, Description: "Rent",
		Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("insert loan: %v", err)
	}

	day := core.NewDate(2025, 3, 9)
	tr, err := s.CompleteLoan(ctx, loanID, 1, nil, day)
	if err != nil {
		t.Fatalf("complete loan: %v", err)
	}

	if tr.Type != core.Expense {
		t.Fatalf("DEBT should map to EXPENSE, got %s", tr.Type)
	}
	if tr.Amount.Cents != 100 {
		t.Fatalf("amount = %d, want 100", tr.Amount.Cents)
	}
	if tr.AccountID != 1 {
		t.Fatalf("account = %d, want 1", tr.AccountID)
	}
	if tr.CategoryID != nil {
		t.Fatalf("category should be nil, got %v", *tr.CategoryID)
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if !loan.Completed {
		t.Fatal("loan should be completed")
	}

	stored, err := s.GetTransaction(ctx, tr.ID)
	if err != nil {
		t.Fatalf("derived transaction not persisted: %v", err)
	}
	if !stored.Date.Equal(day) {
		t.Fatalf("transaction dated %s, want %s", stored.Date, day)
	}

	// Exactly one derived transaction: completing again must fail and
	// leave the transaction count unchanged.
	if _, err := s.CompleteLoan(ctx, loanID, 1, nil, day); !errors.Is(err, core.ErrLoanCompleted) {
		t.Fatalf("expected ErrLoanCompleted, got %v", err)
	}
	all, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 transaction, got %d", len(all))
	}
}

func TestCompleteLoanMapsCreditToIncome(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	loanID, err := s.InsertLoan(ctx, core.Loan{
		Type: core.Credit, Description: "Lunch money",
		Amount: core.Money{Cents: 1500}, StartDate: core.NewDate(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("insert loan: %v", err)
	}

	category := int64(7)
	tr, err := s.CompleteLoan(ctx, loanID, 3, &category, core.NewDate(2025, 2, 2))
	if err != nil {
		t.Fatalf("complete loan: %v", err)
	}
	if tr.Type != core.Income {
		t.Fatalf("CREDIT should map to INCOME, got %s", tr.Type)
	}
	if tr.CategoryID == nil || *tr.CategoryID != 7 {
		t.Fatalf("category not carried through: %v", tr.CategoryID)
	}
}

func TestCompleteLoanMissingLoan(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CompleteLoan(context.Background(), 99, 1, nil, core.Today())
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompletedLoanAcceptsOnlyMetadataEdits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	loanID, err := s.InsertLoan(ctx, core.Loan{
		Type: core.Debt, Description: "Rent",
		Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.CompleteLoan(ctx, loanID, 1, nil, core.Today()); err != nil {
		t.Fatalf("complete: %v", err)
	}

	err = s.UpdateLoan(ctx, core.Loan{
		ID: loanID, Type: core.Credit, Description: "Rent (edited)",
		Amount: core.Money{Cents: 999999}, StartDate: core.NewDate(2020, 1, 1),
	})
	if err != nil {
		t.Fatalf("metadata update: %v", err)
	}

	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loan.Description != "Rent (edited)" {
		t.Fatalf("description edit lost: %q", loan.Description)
	}
	if loan.Type != core.Debt || loan.Amount.Cents != 100 || !loan.Completed {
		t.Fatalf("frozen fields changed: %+v", loan)
	}
}

func TestCompletedLoanFieldsFrozenUnderConcurrentUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accountID, err := s.InsertAccount(ctx, core.Account{Title: "Bank"})
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}

	for i := 0; i < 25; i++ {
		loanID, err := s.InsertLoan(ctx, core.Loan{
			Type: core.Debt, Description: "Rent",
			Amount: core.Money{Cents: 100}, StartDate: core.NewDate(2025, 1, 1),
		})
		if err != nil {
			t.Fatalf("insert loan: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.CompleteLoan(ctx, loanID, accountID, nil, core.Today())
		}()
		go func() {
			defer wg.Done()
			_ = s.UpdateLoan(ctx, core.Loan{
				ID: loanID, Type: core.Credit, Description: "rewritten",
				Amount: core.Money{Cents: 999999}, StartDate: core.NewDate(2020, 1, 1),
			})
		}()
		wg.Wait()

		loan, err := s.GetLoan(ctx, loanID)
		if err != nil {
			t.Fatalf("get loan: %v", err)
		}
		if loan.Completed && (loan.Type != core.Debt || loan.Amount.Cents != 100) {
			t.Fatalf("completed loan had frozen fields rewritten: amount=%d type=%s",
				loan.Amount.Cents, loan.Type)
		}
	}
}

func TestHasAccounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	has, err := s.HasAccounts(ctx)
	if err != nil {
		t.Fatalf("has accounts: %v", err)
	}
	if has {
		t.Fatal("empty store should have no accounts")
	}

	if _, err := s.InsertAccount(ctx, core.Account{Title: "Bank"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	has, err = s.HasAccounts(ctx)
	if err != nil {
		t.Fatalf("has accounts: %v", err)
	}
	if !has {
		t.Fatal("expected accounts to exist")
	}
}

func TestAccountBalance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	day := core.NewDate(2025, 1, 1)
	entries := []core.Transaction{
		{AccountID: 1, Type: core.Income, Date: day, Description: "salary", Amount: core.Money{Cents: 10000}},
		{AccountID: 1, Type: core.Expense, Date: day, Description: "rent", Amount: core.Money{Cents: 4000}},
		{AccountID: 2, Type: core.Income, Date: day, Description: "other account", Amount: core.Money{Cents: 777}},
	}
	for _, e := range entries {
		if _, err := s.InsertTransaction(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	balance, err := s.AccountBalance(ctx, 1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cents != 6000 {
		t.Fatalf("balance = %d, want 6000", balance.Cents)
	}

	balance, err = s.AccountBalance(ctx, 3)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cents != 0 {
		t.Fatalf("fresh account balance = %d, want 0", balance.Cents)
	}
}
