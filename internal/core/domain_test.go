package core

import (
	"errors"
	"testing"
)

func TestEntryTypeValidate(t *testing.T) {
	cases := []struct {
		t  EntryType
		ok bool
	}{
		{Expense, true},
		{Income, true},
		{EntryType(""), false},
		{EntryType("TRANSFER"), false},
	}
	for i, tc := range cases {
		err := tc.t.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestLoanTypeEntryType(t *testing.T) {
	if got := Credit.EntryType(); got != Income {
		t.Fatalf("credit should map to income, got %s", got)
	}
	if got := Debt.EntryType(); got != Expense {
		t.Fatalf("debt should map to expense, got %s", got)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		AccountID:   1,
		Type:        Expense,
		Date:        NewDate(2025, 1, 15),
		Description: "groceries",
		Amount:      Money{Cents: 1250},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: EntryType("x"), Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}},
		{Type: Expense, Date: Date{}, Description: "a", Amount: Money{Cents: 1}},
		{Type: Expense, Date: NewDate(2025, 1, 1), Description: "  ", Amount: Money{Cents: 1}},
		{Type: Expense, Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}},
	}
	for i, tr := range bads {
		err := tr.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d error should wrap ErrValidation, got %v", i, err)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	if err := (Account{Title: "Bank"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Account{Title: "   "}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestObjectiveValidate(t *testing.T) {
	good := Objective{
		Type:        Income,
		Description: "vacation fund",
		Amount:      Money{Cents: 50000},
		StartDate:   NewDate(2025, 1, 1),
		EndDate:     NewDate(2025, 6, 30),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Same-day start and end is allowed; reversed is not.
	good.EndDate = good.StartDate
	if err := good.Validate(); err != nil {
		t.Fatalf("same-day range should be valid, got %v", err)
	}
	good.EndDate = NewDate(2024, 12, 31)
	if err := good.Validate(); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestLoanValidate(t *testing.T) {
	good := Loan{
		Type:        Debt,
		Description: "rent advance",
		Amount:      Money{Cents: 10000},
		StartDate:   NewDate(2025, 3, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("open-ended loan should be valid, got %v", err)
	}

	good.EndDate = NewDate(2025, 2, 1)
	if err := good.Validate(); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}
