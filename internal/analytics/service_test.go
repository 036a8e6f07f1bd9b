package analytics

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"expensetracker/internal"
	"expensetracker/internal/expense"
)

type mockExpenseSource struct {
	rows       []*expense.Expense
	lastFilter expense.Filter
	findError  error
}

func (m *mockExpenseSource) FindWithFilters(f expense.Filter) ([]*expense.Expense, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	m.lastFilter = f

	if f.OwnerID == nil {
		return m.rows, nil
	}
	var scoped []*expense.Expense
	for _, r := range m.rows {
		if r.UserID == *f.OwnerID {
			scoped = append(scoped, r)
		}
	}
	return scoped, nil
}

var _ = Describe("AnalyticsService", func() {
	var (
		service *Service
		source  *mockExpenseSource
	)

	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	owned := func(userID int64, amount float64, category, status string) *expense.Expense {
		e := row(amount, category, status, now.AddDate(0, 0, -5))
		e.UserID = userID
		return e
	}

	BeforeEach(func() {
		source = &mockExpenseSource{rows: []*expense.Expense{
			owned(1, 100, expense.CategoryTravel, expense.StatusPending),
			owned(1, 50, expense.CategoryMeals, expense.StatusApproved),
			owned(2, 200, expense.CategoryTravel, expense.StatusRejected),
		}}
		service = NewService(source, logger)
		service.now = func() time.Time { return now }
	})

	It("aggregates the whole organization for the unscoped view", func() {
		payload, err := service.GetAnalytics(nil)

		Expect(err).ToNot(HaveOccurred())
		Expect(payload.Summary.TotalExpenses).To(Equal(350.0))
		Expect(payload.Summary.TotalCount).To(Equal(int64(3)))
		Expect(payload.CategoryStats[0].Category).To(Equal(expense.CategoryTravel))
		Expect(payload.MonthlyStats).To(HaveLen(1))
		Expect(payload.MonthlyStats[0].Month).To(Equal("2026-08"))
	})

	It("includes the status breakdown only in the unscoped view", func() {
		payload, err := service.GetAnalytics(nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(payload.StatusBreakdown).To(HaveLen(3))
	})

	It("scopes the personal view and omits the status breakdown", func() {
		ownerID := int64(1)
		payload, err := service.GetAnalytics(&ownerID)

		Expect(err).ToNot(HaveOccurred())
		Expect(source.lastFilter.OwnerID).ToNot(BeNil())
		Expect(payload.Summary.TotalExpenses).To(Equal(150.0))
		Expect(payload.Summary.TotalCount).To(Equal(int64(2)))
		Expect(payload.StatusBreakdown).To(BeEmpty())
		Expect(payload.StatusBreakdown).ToNot(BeNil())
	})

	It("returns zeroed rollups for a user with no expenses", func() {
		ownerID := int64(7)
		payload, err := service.GetAnalytics(&ownerID)

		Expect(err).ToNot(HaveOccurred())
		Expect(payload.Summary.TotalCount).To(Equal(int64(0)))
		Expect(payload.Summary.AverageExpense).To(Equal(0.0))
		Expect(payload.CategoryStats).To(BeEmpty())
		Expect(payload.MonthlyStats).To(BeEmpty())
	})

	It("wraps store failures", func() {
		source.findError = errors.New("connection reset")

		_, err := service.GetAnalytics(nil)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
