package postgres

import (
	"time"

	"expensetracker/internal/expense"

	"gorm.io/gorm"
)

// ExpenseRepository implements expense.Repository over GORM.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) FindByID(id int64) (*expense.Expense, error) {
	var exp expense.Expense
	err := r.db.Where("id = ?", id).First(&exp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

// FindWithFilters resolves the filter to a deterministic query. Results are
// newest-created first with an id tiebreak, which keeps offset pagination
// stable across pages.
func (r *ExpenseRepository) FindWithFilters(f expense.Filter) ([]*expense.Expense, error) {
	q := r.scope(f).Order("created_at DESC, id DESC")

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var expenses []*expense.Expense
	err := q.Find(&expenses).Error
	return expenses, err
}

// CountWithFilters counts all matches for the filter, ignoring pagination.
func (r *ExpenseRepository) CountWithFilters(f expense.Filter) (int64, error) {
	var count int64
	err := r.scope(f).Count(&count).Error
	return count, err
}

// UpdateStatus applies a decision as one atomic UPDATE. approved_by and
// approved_at are always set together; rejection_reason is stored only for
// rejections and cleared on any other transition.
func (r *ExpenseRepository) UpdateStatus(id int64, status string, actingAdminID int64, rejectionReason *string, requirePending bool) (bool, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":           status,
		"approved_by":      actingAdminID,
		"approved_at":      now,
		"rejection_reason": rejectionReason,
		"updated_at":       now,
	}

	q := r.db.Model(&expense.Expense{}).Where("id = ?", id)
	if requirePending {
		q = q.Where("status = ?", expense.StatusPending)
	}

	tx := q.Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *ExpenseRepository) scope(f expense.Filter) *gorm.DB {
	q := r.db.Model(&expense.Expense{})

	if f.OwnerID != nil {
		q = q.Where("user_id = ?", *f.OwnerID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}

	return q
}
