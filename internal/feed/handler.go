package feed

import (
	"net/http"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/shared/httpx"
)

type Handler struct {
	svc          Service
	defaultLimit int
	maxLimit     int
}

func NewHandler(s Service, defaultLimit, maxLimit int) *Handler {
	return &Handler{svc: s, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Protected: home feed of the current user.
func (h *Handler) GetHomeFeed(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	q, err := httpx.ParseListQuery(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		return err
	}
	page, err := h.svc.GetFeed(r.Context(), uid, q.Page, q.Limit)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, page, http.StatusOK)
	return nil
}

// Public: feed as seen by an explicit viewer id.
func (h *Handler) GetUserFeed(w http.ResponseWriter, r *http.Request) error {
	uid := r.PathValue("user_id")
	if uid == "" {
		return apperr.InvalidArgument("missing user_id")
	}
	q, err := httpx.ParseListQuery(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		return err
	}
	page, err := h.svc.GetFeed(r.Context(), uid, q.Page, q.Limit)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, page, http.StatusOK)
	return nil
}
