package post

import (
	"net/http"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/shared/httpx"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

// Public read; the include_deleted switch requires an admin token.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("post_id")
	if id == "" {
		return apperr.InvalidArgument("missing post_id")
	}
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	p, err := h.svc.GetPost(r.Context(), id, includeDeleted, httpx.IsAdmin(r))
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}
