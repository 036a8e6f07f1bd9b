package expense

import (
	"net/url"
	"strconv"
	"time"

	"expensetracker/internal"
)

// CreateExpenseDTO is the request payload for submitting an expense.
type CreateExpenseDTO struct {
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ReceiptURL  *string   `json:"receipt_url,omitempty"`
}

// Validate enforces the submission policy: non-negative amount, a known
// category, a description, and a spend date within the past year. Records
// imported through migrations bypass this entirely, the repository itself
// accepts any date.
func (dto CreateExpenseDTO) Validate() error {
	var fields []internal.FieldError

	if dto.Amount < 0 {
		fields = append(fields, internal.FieldError{
			Field:   "amount",
			Message: "amount must not be negative",
			Code:    string(internal.ErrCodeInvalidAmount),
		})
	}
	if !ValidCategory(dto.Category) {
		fields = append(fields, internal.FieldError{
			Field:   "category",
			Message: "category is not one of the allowed values",
			Code:    string(internal.ErrCodeInvalidCategory),
		})
	}
	if dto.Description == "" {
		fields = append(fields, internal.FieldError{
			Field:   "description",
			Message: "description is required",
			Code:    string(internal.ErrCodeInvalidDescription),
		})
	}
	if dto.Date.IsZero() {
		fields = append(fields, internal.FieldError{
			Field:   "date",
			Message: "date is required",
			Code:    string(internal.ErrCodeInvalidDate),
		})
	} else {
		now := time.Now()
		if dto.Date.After(now) || dto.Date.Before(now.AddDate(-1, 0, 0)) {
			fields = append(fields, internal.FieldError{
				Field:   "date",
				Message: "date must fall within the past year",
				Code:    string(internal.ErrCodeInvalidDate),
			})
		}
	}

	if len(fields) > 0 {
		return internal.NewFieldValidationError(fields...)
	}
	return nil
}

// UpdateStatusDTO is the request payload for an approve/reject decision.
type UpdateStatusDTO struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func (dto UpdateStatusDTO) Validate() error {
	if !ValidDecision(dto.Status) {
		return internal.NewValidationError(
			"status must be either 'approved' or 'rejected'",
			internal.ErrCodeInvalidStatus,
		)
	}
	if dto.Status == StatusRejected && dto.RejectionReason == "" {
		return internal.NewValidationError(
			"rejection_reason is required when rejecting an expense",
			internal.ErrCodeMissingReason,
		)
	}
	return nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListQuery is the parsed shape of the list-expenses query string.
type ListQuery struct {
	Category  string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// ParseListQuery reads pagination and filter parameters, falling back to
// defaults on anything malformed rather than failing the request.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{Page: 1, Limit: defaultPageSize}

	if c := values.Get("category"); ValidCategory(c) {
		q.Category = c
	}
	if s := values.Get("status"); s == StatusPending || s == StatusApproved || s == StatusRejected {
		q.Status = s
	}
	if d, err := time.Parse("2006-01-02", values.Get("start_date")); err == nil {
		q.StartDate = &d
	}
	if d, err := time.Parse("2006-01-02", values.Get("end_date")); err == nil {
		q.EndDate = &d
	}
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l > 0 && l <= maxPageSize {
		q.Limit = l
	}

	return q
}

// Filter converts the query into a repository filter for the given scope.
func (q ListQuery) Filter(ownerID *int64) Filter {
	return Filter{
		OwnerID:   ownerID,
		Category:  q.Category,
		Status:    q.Status,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     q.Limit,
		Offset:    (q.Page - 1) * q.Limit,
	}
}

// Pagination is the page metadata returned alongside expense lists.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
