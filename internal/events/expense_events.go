package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExpenseSubmitted = "expense.submitted"
	ExpenseDecided   = "expense.decided"
)

// NewExpenseSubmittedEvent records a freshly created expense.
func NewExpenseSubmittedEvent(expenseID, ownerID int64, amount float64, category string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ExpenseSubmitted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"expense_id": expenseID,
			"owner_id":   ownerID,
			"amount":     amount,
			"category":   category,
		},
	}
}

// NewExpenseDecidedEvent records an approve/reject decision by an admin.
func NewExpenseDecidedEvent(expenseID, adminID int64, status string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ExpenseDecided,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"expense_id": expenseID,
			"admin_id":   adminID,
			"status":     status,
		},
	}
}
