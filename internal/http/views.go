package http

import (
	"soldi/internal/core"
	"soldi/internal/services"
)

// JSON views. Amounts travel as decimal strings ("12.34") and dates as
// ISO-8601 days, matching what the client renders and submits.

type transactionView struct {
	ID          int64  `json:"id"`
	AccountID   int64  `json:"account_id"`
	CategoryID  *int64 `json:"category_id,omitempty"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func newTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		Type:        string(t.Type),
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      t.Amount.String(),
	}
}

func newTransactionViews(ts []core.Transaction) []transactionView {
	out := make([]transactionView, len(ts))
	for i, t := range ts {
		out[i] = newTransactionView(t)
	}
	return out
}

type accountView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newAccountViews(as []core.Account) []accountView {
	out := make([]accountView, len(as))
	for i, a := range as {
		out[i] = accountView{ID: a.ID, Title: a.Title}
	}
	return out
}

type categoryView struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func newCategoryViews(cs []core.Category) []categoryView {
	out := make([]categoryView, len(cs))
	for i, c := range cs {
		out[i] = categoryView{ID: c.ID, Type: string(c.Type), Description: c.Description}
	}
	return out
}

type objectiveView struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func newObjectiveView(o core.Objective) objectiveView {
	return objectiveView{
		ID:          o.ID,
		Type:        string(o.Type),
		Description: o.Description,
		Amount:      o.Amount.String(),
		StartDate:   o.StartDate.String(),
		EndDate:     o.EndDate.String(),
	}
}

func newObjectiveViews(os []core.Objective) []objectiveView {
	out := make([]objectiveView, len(os))
	for i, o := range os {
		out[i] = newObjectiveView(o)
	}
	return out
}

type loanView struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Completed   bool   `json:"completed"`
}

func newLoanView(l core.Loan) loanView {
	v := loanView{
		ID:          l.ID,
		Type:        string(l.Type),
		Description: l.Description,
		Amount:      l.Amount.String(),
		StartDate:   l.StartDate.String(),
		Completed:   l.Completed,
	}
	if !l.EndDate.IsZero() {
		v.EndDate = l.EndDate.String()
	}
	return v
}

func newLoanViews(ls []core.Loan) []loanView {
	out := make([]loanView, len(ls))
	for i, l := range ls {
		out[i] = newLoanView(l)
	}
	return out
}

type loanSummaryView struct {
	TotalCredit string     `json:"total_credit"`
	TotalDebt   string     `json:"total_debt"`
	Recent      []loanView `json:"recent"`
}

func newLoanSummaryView(s services.LoanSummary) loanSummaryView {
	return loanSummaryView{
		TotalCredit: s.TotalCredit.String(),
		TotalDebt:   s.TotalDebt.String(),
		Recent:      newLoanViews(s.Recent),
	}
}
