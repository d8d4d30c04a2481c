package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"newsfeed-service/internal/apperr"
	"newsfeed-service/internal/shared/jwt"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

type APIError struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Status int    `json:"status"`
}

type ctxKey string

const (
	ctxUserIDKey ctxKey = "httpx.user_id"
	ctxAdminKey  ctxKey = "httpx.admin"
)

var ErrUnauthorized = errors.New("unauthorized")

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, err error, reason string) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}
	WriteJSON(w, APIError{Error: err.Error(), Reason: reason, Status: status}, status)
}

// Wrap adapts an error-returning handler, mapping taxonomy kinds to
// status codes so route code never deals with HTTP statuses directly.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrUnauthorized):
			code = http.StatusUnauthorized
		case apperr.KindOf(err) == apperr.KindInvalidArgument:
			code = http.StatusBadRequest
		case apperr.KindOf(err) == apperr.KindNotFound:
			code = http.StatusNotFound
		case apperr.KindOf(err) == apperr.KindForbidden:
			code = http.StatusForbidden
		case apperr.KindOf(err) == apperr.KindDependencyUnavailable:
			code = http.StatusServiceUnavailable
		}
		WriteError(w, code, err, "")
	})
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "missing_bearer")
			return
		}
		claims, err := jwt.Parse(tok)
		if err != nil || claims.UserID == "" {
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, ctxAdminKey, claims.Admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthOptional attaches identity when a valid bearer token is present
// but lets anonymous requests through. Used on public reads that honor
// admin-only switches.
func AuthOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := BearerToken(r); tok != "" {
			if claims, err := jwt.Parse(tok); err == nil && claims.UserID != "" {
				ctx := context.WithValue(r.Context(), ctxUserIDKey, claims.UserID)
				ctx = context.WithValue(ctx, ctxAdminKey, claims.Admin)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromCtx(r *http.Request) (string, error) {
	uid, _ := r.Context().Value(ctxUserIDKey).(string)
	if uid == "" {
		return "", ErrUnauthorized
	}
	return uid, nil
}

func IsAdmin(r *http.Request) bool {
	admin, _ := r.Context().Value(ctxAdminKey).(bool)
	return admin
}

// ListQuery is the recognized shape of listing query parameters. Routes
// parse through here instead of pulling raw strings per handler.
type ListQuery struct {
	Page   int
	Limit  int
	UserID string
}

// ParseListQuery validates page/limit/userId against the pagination
// policy. Absent values take defaults; out-of-range values are rejected.
func ParseListQuery(r *http.Request, defaultLimit, maxLimit int) (ListQuery, error) {
	q := ListQuery{Page: 1, Limit: defaultLimit, UserID: r.URL.Query().Get("userId")}

	if s := r.URL.Query().Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return ListQuery{}, apperr.InvalidArgument(fmt.Sprintf("page must be a positive integer, got %q", s))
		}
		q.Page = n
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLimit {
			return ListQuery{}, apperr.InvalidArgument(fmt.Sprintf("limit must be in 1..%d, got %q", maxLimit, s))
		}
		q.Limit = n
	}
	return q, nil
}

func QueryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
