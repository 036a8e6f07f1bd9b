package analytics

import (
	"log/slog"
	"time"

	"expensetracker/internal"
	"expensetracker/internal/expense"
)

// ExpenseSource is the read surface the aggregator needs from the expense
// store: every expense in a scope, unpaginated.
type ExpenseSource interface {
	FindWithFilters(f expense.Filter) ([]*expense.Expense, error)
}

type Service struct {
	source ExpenseSource
	now    func() time.Time
	logger *slog.Logger
}

func NewService(source ExpenseSource, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		now:    time.Now,
		logger: logger,
	}
}

// GetAnalytics computes all rollups over the caller's scope. With a nil
// scopeOwnerID (admin view) the payload additionally carries the status
// breakdown over the whole organization; the scoped personal view omits it.
func (s *Service) GetAnalytics(scopeOwnerID *int64) (*Payload, error) {
	rows, err := s.source.FindWithFilters(expense.Filter{OwnerID: scopeOwnerID})
	if err != nil {
		s.logger.Error("failed to load expenses for analytics", "error", err)
		return nil, internal.NewStoreError("failed to load expenses for analytics", err)
	}

	payload := &Payload{
		Summary:         Summarize(rows),
		CategoryStats:   GroupByCategory(rows),
		MonthlyStats:    GroupByMonth(rows, s.now()),
		StatusBreakdown: []StatusStat{},
	}

	if scopeOwnerID == nil {
		payload.StatusBreakdown = GroupByStatus(rows)
	}

	return payload, nil
}
