package cachepolicy

import (
	"net/http"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/shared/httpx"
)

type Handler struct{ policy *Policy }

func NewHandler(p *Policy) *Handler { return &Handler{policy: p} }

// Protected: drop the cached copy of one post. Succeeds even when the
// key does not exist.
func (h *Handler) InvalidatePost(w http.ResponseWriter, r *http.Request) error {
	if _, err := httpx.UserFromCtx(r); err != nil {
		return err
	}
	postID := r.PathValue("post_id")
	if postID == "" {
		return apperr.InvalidArgument("missing post_id")
	}
	if err := h.policy.InvalidatePost(r.Context(), postID); err != nil {
		return apperr.DependencyUnavailable("invalidate post cache", err)
	}
	httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	return nil
}
