package expense_test

import (
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"expensetracker/internal/expense"
)

var _ = Describe("ParseListQuery", func() {
	It("defaults to the first page of twenty", func() {
		q := expense.ParseListQuery(url.Values{})
		Expect(q.Page).To(Equal(1))
		Expect(q.Limit).To(Equal(20))
		Expect(q.Category).To(BeEmpty())
		Expect(q.Status).To(BeEmpty())
		Expect(q.StartDate).To(BeNil())
		Expect(q.EndDate).To(BeNil())
	})

	It("parses all recognized parameters", func() {
		q := expense.ParseListQuery(url.Values{
			"category":   {"travel"},
			"status":     {"approved"},
			"start_date": {"2026-01-01"},
			"end_date":   {"2026-06-30"},
			"page":       {"3"},
			"limit":      {"10"},
		})

		Expect(q.Category).To(Equal(expense.CategoryTravel))
		Expect(q.Status).To(Equal(expense.StatusApproved))
		Expect(q.StartDate).ToNot(BeNil())
		Expect(q.StartDate.Format("2006-01-02")).To(Equal("2026-01-01"))
		Expect(q.EndDate).ToNot(BeNil())
		Expect(q.Page).To(Equal(3))
		Expect(q.Limit).To(Equal(10))
	})

	It("ignores malformed or unknown values instead of failing", func() {
		q := expense.ParseListQuery(url.Values{
			"category":   {"entertainment"},
			"status":     {"open"},
			"start_date": {"01/02/2026"},
			"page":       {"zero"},
			"limit":      {"-5"},
		})

		Expect(q.Category).To(BeEmpty())
		Expect(q.Status).To(BeEmpty())
		Expect(q.StartDate).To(BeNil())
		Expect(q.Page).To(Equal(1))
		Expect(q.Limit).To(Equal(20))
	})

	It("caps the page size", func() {
		q := expense.ParseListQuery(url.Values{"limit": {"500"}})
		Expect(q.Limit).To(Equal(20))
	})

	It("computes the repository offset from the page", func() {
		q := expense.ParseListQuery(url.Values{"page": {"3"}, "limit": {"10"}})
		f := q.Filter(nil)
		Expect(f.Offset).To(Equal(20))
		Expect(f.Limit).To(Equal(10))
	})
})

var _ = Describe("NewPagination", func() {
	It("rounds page counts up", func() {
		p := expense.NewPagination(1, 20, 41)
		Expect(p.Pages).To(Equal(int64(3)))
	})

	It("reports zero pages for an empty result", func() {
		p := expense.NewPagination(1, 20, 0)
		Expect(p.Pages).To(Equal(int64(0)))
		Expect(p.Total).To(Equal(int64(0)))
	})
})

var _ = Describe("UpdateStatusDTO validation", func() {
	It("accepts an approval without a reason", func() {
		dto := expense.UpdateStatusDTO{Status: expense.StatusApproved}
		Expect(dto.Validate()).To(Succeed())
	})

	It("requires a reason for rejections", func() {
		dto := expense.UpdateStatusDTO{Status: expense.StatusRejected}
		Expect(dto.Validate()).ToNot(Succeed())
	})

	It("refuses pending as a decision", func() {
		dto := expense.UpdateStatusDTO{Status: expense.StatusPending}
		Expect(dto.Validate()).ToNot(Succeed())
	})
})

var _ = Describe("CreateExpenseDTO validation", func() {
	It("collects every failing field at once", func() {
		dto := expense.CreateExpenseDTO{
			Amount:   -10,
			Category: "entertainment",
			Date:     time.Time{},
		}
		err := dto.Validate()
		Expect(err).To(HaveOccurred())
	})
})
