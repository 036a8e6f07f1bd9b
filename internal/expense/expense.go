package expense

import (
	"errors"
	"time"
)

// Expense status values. Transitions are one-way: pending goes to approved
// or rejected, mutated only through the status update operation.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Category values mirror the expense report form.
const (
	CategoryTravel         = "travel"
	CategoryMeals          = "meals"
	CategoryOfficeSupplies = "office_supplies"
	CategorySoftware       = "software"
	CategoryTraining       = "training"
	CategoryMarketing      = "marketing"
	CategoryOther          = "other"
)

// Categories lists every valid category, in form order.
var Categories = []string{
	CategoryTravel,
	CategoryMeals,
	CategoryOfficeSupplies,
	CategorySoftware,
	CategoryTraining,
	CategoryMarketing,
	CategoryOther,
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidDecision(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

type Expense struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	UserID          int64      `json:"user_id" gorm:"column:user_id;not null;index"`
	Amount          float64    `json:"amount" gorm:"not null"`
	Category        string     `json:"category" gorm:"not null;index"`
	Description     string     `json:"description" gorm:"not null"`
	Date            time.Time  `json:"date" gorm:"column:date;index"`
	Status          string     `json:"status" gorm:"not null;default:pending;index"`
	ReceiptURL      *string    `json:"receipt_url,omitempty" gorm:"column:receipt_url"`
	ApprovedBy      *int64     `json:"approved_by,omitempty" gorm:"column:approved_by"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" gorm:"column:approved_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty" gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

func (e *Expense) IsPending() bool {
	return e.Status == StatusPending
}

// Filter is the optional-field query object every list, count and analytics
// read is built from. Nil/zero members mean "no constraint". StartDate and
// EndDate are inclusive bounds on the spend date, not on created_at.
type Filter struct {
	OwnerID   *int64
	Category  string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Repository is the data access contract for expenses.
type Repository interface {
	Create(e *Expense) error
	FindByID(id int64) (*Expense, error)
	FindWithFilters(f Filter) ([]*Expense, error)
	CountWithFilters(f Filter) (int64, error)
	// UpdateStatus applies an approve/reject decision in a single atomic
	// update. It reports false when no row matched. With requirePending the
	// update only matches expenses still in the pending state.
	UpdateStatus(id int64, status string, actingAdminID int64, rejectionReason *string, requirePending bool) (bool, error)
}

var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrUnauthorizedAccess   = errors.New("unauthorized access to expense")
	ErrInvalidExpenseStatus = errors.New("expense is no longer pending")
)
