// Package http is the JSON adapter between the presentation layer and
// the services. Handlers parse and validate input, call one service
// method, and render a view; no business logic lives here.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"soldi/internal/core"
)

// Request DTOs. Amounts arrive as user-typed decimal strings and dates
// as ISO-8601 days; parsing failures surface as validation errors
// before any store call.

type transactionRequest struct {
	ID          int64  `json:"id,omitempty"`
	AccountID   int64  `json:"account_id"`
	CategoryID  *int64 `json:"category_id"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (req transactionRequest) toDomain() (core.Transaction, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          req.ID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        core.EntryType(req.Type),
		Date:        date,
		Description: req.Description,
		Amount:      amount,
	}, nil
}

type accountRequest struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title"`
}

func (req accountRequest) toDomain() core.Account {
	return core.Account{ID: req.ID, Title: req.Title}
}

type categoryRequest struct {
	ID          int64  `json:"id,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (req categoryRequest) toDomain() core.Category {
	return core.Category{ID: req.ID, Type: core.EntryType(req.Type), Description: req.Description}
}

type objectiveRequest struct {
	ID          int64  `json:"id,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (req objectiveRequest) toDomain() (core.Objective, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Objective{}, err
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Objective{}, err
	}
	end, err := core.ParseDate(req.EndDate)
	if err != nil {
		return core.Objective{}, err
	}
	return core.Objective{
		ID:          req.ID,
		Type:        core.EntryType(req.Type),
		Description: req.Description,
		Amount:      amount,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

type loanRequest struct {
	ID          int64  `json:"id,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"` // optional
}

func (req loanRequest) toDomain() (core.Loan, error) {
	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		return core.Loan{}, err
	}
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Loan{}, err
	}
	l := core.Loan{
		ID:          req.ID,
		Type:        core.LoanType(req.Type),
		Description: req.Description,
		Amount:      amount,
		StartDate:   start,
	}
	if req.EndDate != "" {
		if l.EndDate, err = core.ParseDate(req.EndDate); err != nil {
			return core.Loan{}, err
		}
	}
	return l, nil
}

type completeLoanRequest struct {
	AccountID  int64  `json:"account_id"`
	CategoryID *int64 `json:"category_id"`
}

// decodeBody parses a JSON request body into dst, rejecting unknown
// fields so client typos fail loudly instead of silently dropping data.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", core.ErrValidation, err)
	}
	return nil
}

// pathID extracts the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id %q", core.ErrValidation, raw)
	}
	return id, nil
}
