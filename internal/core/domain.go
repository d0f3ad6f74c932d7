package core

import (
	"fmt"
	"strings"
)

const (
	Expense EntryType = "EXPENSE"
	Income  EntryType = "INCOME"

	Credit LoanType = "CREDIT"
	Debt   LoanType = "DEBT"
)

type (
	// EntryType classifies transactions, categories and objectives as
	// money going out or coming in.
	EntryType string

	// LoanType distinguishes money lent out (CREDIT) from money owed (DEBT).
	LoanType string

	Transaction struct {
		ID          int64
		AccountID   int64
		CategoryID  *int64 // nil when no category was chosen
		Type        EntryType
		Date        Date
		Description string
		Amount      Money
	}

	Account struct {
		ID    int64
		Title string
	}

	Category struct {
		ID          int64
		Type        EntryType
		Description string
	}

	Objective struct {
		ID          int64
		Type        EntryType
		Description string
		Amount      Money
		StartDate   Date
		EndDate     Date
	}

	Loan struct {
		ID          int64
		Type        LoanType
		Description string
		Amount      Money
		StartDate   Date
		EndDate     Date // optional, zero when open-ended
		Completed   bool
	}
)

// Error taxonomy. Field-level errors wrap ErrValidation so callers can
// match the whole class with errors.Is.
var (
	ErrConflict   = fmt.Errorf("record already exists")
	ErrNotFound   = fmt.Errorf("record not found")
	ErrValidation = fmt.Errorf("invalid input")
	ErrAtomicity  = fmt.Errorf("loan completion could not be applied atomically")

	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrEmptyTitle       = fmt.Errorf("%w: empty title", ErrValidation)
	ErrInvalidType      = fmt.Errorf("%w: unknown type", ErrValidation)
	ErrEndBeforeStart   = fmt.Errorf("%w: end date before start date", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrLoanCompleted    = fmt.Errorf("%w: loan already completed", ErrValidation)
)

func (t EntryType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	default:
		return ErrInvalidType
	}
}

func (t LoanType) Validate() error {
	switch t {
	case Credit, Debt:
		return nil
	default:
		return ErrInvalidType
	}
}

// EntryType maps a loan to the transaction type its completion produces:
// money lent coming back is income, a debt being settled is an expense.
func (t LoanType) EntryType() EntryType {
	if t == Credit {
		return Income
	}
	return Expense
}

func validateDescription(s string) error {
	if len(strings.TrimSpace(s)) == 0 {
		return ErrEmptyDescription
	}
	if len(s) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrValidation)
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	return t.Amount.Validate()
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(a.Title) > 100 {
		return fmt.Errorf("%w: title too long (max 100 characters)", ErrValidation)
	}
	return nil
}

func (c Category) Validate() error {
	if err := c.Type.Validate(); err != nil {
		return err
	}
	return validateDescription(c.Description)
}

func (o Objective) Validate() error {
	if err := o.Type.Validate(); err != nil {
		return err
	}
	if err := validateDescription(o.Description); err != nil {
		return err
	}
	if err := o.Amount.Validate(); err != nil {
		return err
	}
	if err := o.StartDate.Validate(); err != nil {
		return err
	}
	if err := o.EndDate.Validate(); err != nil {
		return err
	}
	if o.EndDate.Before(o.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

func (l Loan) Validate() error {
	if err := l.Type.Validate(); err != nil {
		return err
	}
	if err := validateDescription(l.Description); err != nil {
		return err
	}
	if err := l.Amount.Validate(); err != nil {
		return err
	}
	if err := l.StartDate.Validate(); err != nil {
		return err
	}
	// End date is optional for loans.
	if !l.EndDate.IsZero() && l.EndDate.Before(l.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}
