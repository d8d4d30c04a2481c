package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed-service/internal/shared/httpx"
)

type stubService struct {
	page *Page
	err  error

	gotViewer   string
	gotPage     int
	gotPageSize int
}

func (s *stubService) GetFeed(_ context.Context, viewerID string, page, pageSize int) (*Page, error) {
	s.gotViewer = viewerID
	s.gotPage = page
	s.gotPageSize = pageSize
	return s.page, s.err
}

func TestGetUserFeedHandler(t *testing.T) {
	stub := &stubService{page: &Page{
		Items:      []Item{{PostID: "p1", AuthorID: "u1"}},
		Page:       2,
		TotalPages: 5,
		TotalItems: 42,
		HasMore:    true,
	}}
	h := NewHandler(stub, 20, 100)

	mux := http.NewServeMux()
	mux.Handle("GET /users/{user_id}/feed", httpx.Wrap(h.GetUserFeed))

	req := httptest.NewRequest(http.MethodGet, "/users/u1/feed?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", stub.gotViewer)
	assert.Equal(t, 2, stub.gotPage)
	assert.Equal(t, 10, stub.gotPageSize)

	var body Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.HasMore)
	assert.EqualValues(t, 42, body.TotalItems)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "p1", body.Items[0].PostID)
}

func TestGetUserFeedHandlerRejectsBadQuery(t *testing.T) {
	stub := &stubService{page: &Page{}}
	h := NewHandler(stub, 20, 100)

	mux := http.NewServeMux()
	mux.Handle("GET /users/{user_id}/feed", httpx.Wrap(h.GetUserFeed))

	for _, raw := range []string{"page=0", "limit=500", "page=x"} {
		req := httptest.NewRequest(http.MethodGet, "/users/u1/feed?"+raw, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}

func TestGetHomeFeedHandlerRequiresAuth(t *testing.T) {
	h := NewHandler(&stubService{page: &Page{}}, 20, 100)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rec := httptest.NewRecorder()
	httpx.Wrap(h.GetHomeFeed).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
