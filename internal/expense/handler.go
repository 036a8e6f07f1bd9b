package expense

import (
	"encoding/json"
	"net/http"
	"strconv"

	"expensetracker/internal"
	"expensetracker/internal/transport"
	"expensetracker/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateExpense(ownerID int64, dto CreateExpenseDTO) (*Expense, error)
	ListExpenses(caller internal.Identity, q ListQuery) ([]*Expense, Pagination, error)
	GetExpense(caller internal.Identity, id int64) (*Expense, error)
	UpdateStatus(caller internal.Identity, expenseID int64, dto UpdateStatusDTO) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.CreateExpense(identity.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := ParseListQuery(r.URL.Query())

	expenses, pagination, err := h.Service.ListExpenses(identity, q)
	if err != nil {
		h.Logger.Error("ListExpenses: service error", "error", err, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses":   expenses,
		"pagination": pagination,
	})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.expenseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	exp, err := h.Service.GetExpense(identity, id)
	if err != nil {
		switch err {
		case ErrExpenseNotFound:
			h.WriteError(w, http.StatusNotFound, "expense not found")
		case ErrUnauthorizedAccess:
			h.WriteError(w, http.StatusForbidden, "access to this expense is not allowed")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

// UpdateStatus handles PATCH /expenses/{id}/status, the single
// approve/reject operation. A missing expense maps to 404.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.expenseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateStatus(identity, id, dto)
	if err != nil {
		switch err {
		case ErrUnauthorizedAccess:
			h.WriteError(w, http.StatusForbidden, "admin access required")
		case ErrInvalidExpenseStatus:
			h.WriteError(w, http.StatusConflict, "expense has already been decided")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	if !updated {
		h.WriteError(w, http.StatusNotFound, "expense not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": dto.Status})
}

func (h *Handler) expenseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
