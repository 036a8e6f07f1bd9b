package analytics

import (
	"net/http"

	"expensetracker/internal"
	"expensetracker/internal/transport"
	"expensetracker/pkg/logger"
)

type ServiceAPI interface {
	GetAnalytics(scopeOwnerID *int64) (*Payload, error)
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

// GetAnalytics handles GET /analytics. The scope is derived from the
// caller's role, never from request parameters: employees get their
// personal rollups, admins the organization-wide view.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var scope *int64
	if !identity.IsAdmin() {
		ownerID := identity.UserID
		scope = &ownerID
	}

	payload, err := h.Service.GetAnalytics(scope)
	if err != nil {
		h.Logger.Error("GetAnalytics: service error", "error", err, "user_id", identity.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, payload)
}
