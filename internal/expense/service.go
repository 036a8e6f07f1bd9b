package expense

import (
	"context"
	"errors"
	"log/slog"

	"expensetracker/internal"
	"expensetracker/internal/events"
)

// Service holds the expense lifecycle rules and the role-scoped access
// policy: employees only ever see their own expenses, admins see everything
// and are the only callers allowed to decide on status.
type Service struct {
	repo              Repository
	bus               *events.Bus
	strictTransitions bool
	logger            *slog.Logger
}

func NewService(repo Repository, bus *events.Bus, strictTransitions bool, logger *slog.Logger) *Service {
	return &Service{
		repo:              repo,
		bus:               bus,
		strictTransitions: strictTransitions,
		logger:            logger,
	}
}

// CreateExpense validates and persists a new pending expense for ownerID.
func (s *Service) CreateExpense(ownerID int64, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "owner_id", ownerID)
		return nil, err
	}

	exp := &Expense{
		UserID:      ownerID,
		Amount:      dto.Amount,
		Category:    dto.Category,
		Description: dto.Description,
		Date:        dto.Date,
		Status:      StatusPending,
		ReceiptURL:  dto.ReceiptURL,
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "owner_id", ownerID)
		return nil, internal.NewStoreError("failed to create expense", err)
	}

	if s.bus != nil {
		s.bus.Publish(context.Background(),
			events.NewExpenseSubmittedEvent(exp.ID, ownerID, exp.Amount, exp.Category))
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"owner_id", ownerID,
		"amount", exp.Amount,
		"category", exp.Category)

	return exp, nil
}

// ListExpenses resolves the caller's visible expenses plus page metadata.
// Whatever the request asked for, non-admin callers are pinned to their own
// expenses.
func (s *Service) ListExpenses(caller internal.Identity, q ListQuery) ([]*Expense, Pagination, error) {
	filter := q.Filter(s.scopeFor(caller))

	total, err := s.repo.CountWithFilters(filter)
	if err != nil {
		s.logger.Error("failed to count expenses", "error", err, "user_id", caller.UserID)
		return nil, Pagination{}, internal.NewStoreError("failed to count expenses", err)
	}

	expenses, err := s.repo.FindWithFilters(filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", caller.UserID)
		return nil, Pagination{}, internal.NewStoreError("failed to list expenses", err)
	}

	return expenses, NewPagination(q.Page, q.Limit, total), nil
}

// GetExpense loads one expense, enforcing owner visibility for employees.
func (s *Service) GetExpense(caller internal.Identity, id int64) (*Expense, error) {
	exp, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return nil, ErrExpenseNotFound
		}
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.NewStoreError("failed to get expense", err)
	}

	if !caller.IsAdmin() && exp.UserID != caller.UserID {
		s.logger.Warn("unauthorized expense access",
			"expense_id", id,
			"user_id", caller.UserID,
			"owner_id", exp.UserID)
		return nil, ErrUnauthorizedAccess
	}

	return exp, nil
}

// UpdateStatus applies an admin decision. It reports false without error
// when the expense does not exist, leaving messaging to the caller. In
// strict mode a decision on a non-pending expense fails with
// ErrInvalidExpenseStatus instead of silently overwriting the earlier one.
func (s *Service) UpdateStatus(caller internal.Identity, expenseID int64, dto UpdateStatusDTO) (bool, error) {
	if !caller.IsAdmin() {
		s.logger.Warn("status update denied: admin role required",
			"expense_id", expenseID,
			"user_id", caller.UserID)
		return false, ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return false, err
	}

	var reason *string
	if dto.Status == StatusRejected {
		reason = &dto.RejectionReason
	}

	updated, err := s.repo.UpdateStatus(expenseID, dto.Status, caller.UserID, reason, s.strictTransitions)
	if err != nil {
		s.logger.Error("failed to update expense status",
			"error", err,
			"expense_id", expenseID,
			"status", dto.Status)
		return false, internal.NewStoreError("failed to update expense status", err)
	}

	if !updated && s.strictTransitions {
		if _, err := s.repo.FindByID(expenseID); err == nil {
			return false, ErrInvalidExpenseStatus
		}
	}

	if updated {
		if s.bus != nil {
			s.bus.Publish(context.Background(),
				events.NewExpenseDecidedEvent(expenseID, caller.UserID, dto.Status))
		}
		s.logger.Info("expense status updated",
			"expense_id", expenseID,
			"status", dto.Status,
			"admin_id", caller.UserID)
	}

	return updated, nil
}

func (s *Service) scopeFor(caller internal.Identity) *int64 {
	if caller.IsAdmin() {
		return nil
	}
	ownerID := caller.UserID
	return &ownerID
}
