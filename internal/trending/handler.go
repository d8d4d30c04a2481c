package trending

import (
	"fmt"
	"net/http"
	"strconv"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/shared/httpx"
)

type Handler struct {
	svc          Service
	defaultLimit int
}

func NewHandler(s Service, defaultLimit int) *Handler {
	return &Handler{svc: s, defaultLimit: defaultLimit}
}

// Public: globally ranked posts, viewer-independent.
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) error {
	limit := h.defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return apperr.InvalidArgument(fmt.Sprintf("limit must be an integer, got %q", s))
		}
		limit = n
	}
	results, err := h.svc.GetTrending(r.Context(), limit)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, map[string]any{"results": results}, http.StatusOK)
	return nil
}
