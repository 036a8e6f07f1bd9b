package expense_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"

	"expensetracker/internal"
	"expensetracker/internal/expense"
)

// Mock service for handler tests
type mockExpenseService struct {
	expense          *expense.Expense
	expenses         []*expense.Expense
	pagination       expense.Pagination
	updated          bool
	err              error
	lastCaller       internal.Identity
	lastUpdateStatus expense.UpdateStatusDTO
}

func (m *mockExpenseService) CreateExpense(ownerID int64, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.expense, nil
}

func (m *mockExpenseService) ListExpenses(caller internal.Identity, q expense.ListQuery) ([]*expense.Expense, expense.Pagination, error) {
	m.lastCaller = caller
	if m.err != nil {
		return nil, expense.Pagination{}, m.err
	}
	return m.expenses, m.pagination, nil
}

func (m *mockExpenseService) GetExpense(caller internal.Identity, id int64) (*expense.Expense, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.expense, nil
}

func (m *mockExpenseService) UpdateStatus(caller internal.Identity, expenseID int64, dto expense.UpdateStatusDTO) (bool, error) {
	m.lastCaller = caller
	m.lastUpdateStatus = dto
	if m.err != nil {
		return false, m.err
	}
	return m.updated, nil
}

var _ = Describe("ExpenseHandler", func() {
	var (
		handler     *expense.Handler
		mockService *mockExpenseService
		router      *chi.Mux
	)

	employee := internal.Identity{UserID: 1, Role: internal.RoleEmployee}
	admin := internal.Identity{UserID: 99, Role: internal.RoleAdmin}

	sample := &expense.Expense{
		ID:          10,
		UserID:      1,
		Amount:      42.50,
		Category:    expense.CategoryMeals,
		Description: "team lunch",
		Date:        time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		Status:      expense.StatusPending,
	}

	BeforeEach(func() {
		mockService = &mockExpenseService{expense: sample}
		handler = expense.NewHandler(mockService)

		router = chi.NewRouter()
		router.Post("/expenses", handler.CreateExpense)
		router.Get("/expenses", handler.ListExpenses)
		router.Get("/expenses/{id}", handler.GetExpense)
		router.Patch("/expenses/{id}/status", handler.UpdateStatus)
	})

	do := func(identity *internal.Identity, method, target string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		if identity != nil {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), *identity))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("POST /expenses", func() {
		It("returns 201 with the created expense", func() {
			rec := do(&employee, http.MethodPost, "/expenses", map[string]interface{}{
				"amount":      42.50,
				"category":    "meals",
				"description": "team lunch",
				"date":        "2026-08-10T00:00:00Z",
			})

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var got expense.Expense
			Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
			Expect(got.ID).To(Equal(int64(10)))
			Expect(got.Status).To(Equal(expense.StatusPending))
		})

		It("returns 401 without an identity", func() {
			rec := do(nil, http.MethodPost, "/expenses", map[string]interface{}{})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString("{not json"))
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), employee))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps validation failures to 400", func() {
			mockService.err = internal.NewFieldValidationError(internal.FieldError{
				Field:   "amount",
				Message: "amount must not be negative",
			})
			rec := do(&employee, http.MethodPost, "/expenses", map[string]interface{}{"amount": -1})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /expenses", func() {
		It("returns the rows with page metadata", func() {
			mockService.expenses = []*expense.Expense{sample}
			mockService.pagination = expense.Pagination{Page: 1, Limit: 20, Total: 1, Pages: 1}

			rec := do(&admin, http.MethodGet, "/expenses?page=1&limit=20", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body struct {
				Expenses   []*expense.Expense `json:"expenses"`
				Pagination expense.Pagination `json:"pagination"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Expenses).To(HaveLen(1))
			Expect(body.Pagination.Total).To(Equal(int64(1)))
		})
	})

	Describe("GET /expenses/{id}", func() {
		It("returns 404 when the service reports not found", func() {
			mockService.err = expense.ErrExpenseNotFound
			rec := do(&admin, http.MethodGet, "/expenses/4242", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 403 for another employee's expense", func() {
			mockService.err = expense.ErrUnauthorizedAccess
			rec := do(&employee, http.MethodGet, "/expenses/10", nil)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 400 for a non-numeric id", func() {
			rec := do(&admin, http.MethodGet, "/expenses/abc", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PATCH /expenses/{id}/status", func() {
		It("echoes the decided status on success", func() {
			mockService.updated = true
			rec := do(&admin, http.MethodPatch, "/expenses/10/status", map[string]string{
				"status": "approved",
			})

			Expect(rec.Code).To(Equal(http.StatusOK))

			var body map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["status"]).To(Equal("approved"))
			Expect(mockService.lastUpdateStatus.Status).To(Equal(expense.StatusApproved))
		})

		It("returns 404 when nothing was updated", func() {
			mockService.updated = false
			rec := do(&admin, http.MethodPatch, "/expenses/4242/status", map[string]string{
				"status": "approved",
			})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 403 for non-admin callers", func() {
			mockService.err = expense.ErrUnauthorizedAccess
			rec := do(&employee, http.MethodPatch, "/expenses/10/status", map[string]string{
				"status": "approved",
			})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 409 for an already decided expense", func() {
			mockService.err = expense.ErrInvalidExpenseStatus
			rec := do(&admin, http.MethodPatch, "/expenses/10/status", map[string]string{
				"status": "rejected", "rejection_reason": "duplicate",
			})
			Expect(rec.Code).To(Equal(http.StatusConflict))
		})
	})
})
