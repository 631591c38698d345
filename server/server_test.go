package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ic-timon/flatbush/indexer"
)

func newTestServer(t *testing.T, boxes []indexer.Box, maxResults int) *Server {
	t.Helper()
	b, err := indexer.NewBuilder(len(boxes), nil)
	require.NoError(t, err)
	for _, bb := range boxes {
		b.Add(bb)
	}
	idx, err := b.Finish()
	require.NoError(t, err)

	s, err := New(idx, &Config{Mode: gin.TestMode, MaxResults: maxResults}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func threeBoxes() []indexer.Box {
	return []indexer.Box{{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}, {MinX: 5, MinY: 5, MaxX: 6, MaxY: 6}, {MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}}
}

func get(t *testing.T, s *Server, url string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, threeBoxes(), 0)

	w := get(t, s, "/v1/search?min_x=0&min_y=0&max_x=3&max_y=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[searchResponse](t, w)
	assert.ElementsMatch(t, []int{0, 2}, resp.IDs)
	assert.Equal(t, 2, resp.Count)
	assert.False(t, resp.Truncated)

	w = get(t, s, "/v1/search?min_x=10&min_y=10&max_x=11&max_y=11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ids":[],"count":0}`, w.Body.String())
}

func TestSearch_Truncated(t *testing.T) {
	s := newTestServer(t, threeBoxes(), 2)
	w := get(t, s, "/v1/search?min_x=-1&min_y=-1&max_x=10&max_y=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[searchResponse](t, w)
	assert.Len(t, resp.IDs, 2)
	assert.True(t, resp.Truncated)
}

func TestSearch_Validation(t *testing.T) {
	s := newTestServer(t, threeBoxes(), 0)
	for _, url := range []string{
		"/v1/search?min_x=0&min_y=0&max_x=3",
		"/v1/search?min_x=4&min_y=0&max_x=3&max_y=3",
		"/v1/search?min_x=NaN&min_y=0&max_x=3&max_y=3",
		"/v1/search?min_x=0&min_y=0&max_x=Inf&max_y=3",
		"/v1/search?min_x=a&min_y=0&max_x=3&max_y=3",
	} {
		w := get(t, s, url, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
		assert.NotEmpty(t, decode[errorResponse](t, w).Error, url)
	}
}

func TestNeighbors(t *testing.T) {
	s := newTestServer(t, threeBoxes(), 0)

	w := get(t, s, "/v1/neighbors?x=2.5&y=2.5&k=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2, 0}, decode[searchResponse](t, w).IDs)

	w = get(t, s, "/v1/neighbors?x=2.5&y=2.5&max_distance=0.1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2}, decode[searchResponse](t, w).IDs)

	w = get(t, s, "/v1/neighbors?x=2.5&y=2.5&k=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInfo(t *testing.T) {
	s := newTestServer(t, threeBoxes(), 0)
	w := get(t, s, "/v1/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":3,"node_size":16,"nodes":4,"bytes":144,
		"extent":{"min_x":0,"min_y":0,"max_x":6,"max_y":6}}`, w.Body.String())

	empty := newTestServer(t, nil, 0)
	w = get(t, empty, "/v1/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":0,"node_size":16,"nodes":1,"bytes":42}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, threeBoxes(), 0)

	w := get(t, s, "/healthz", nil)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	w = get(t, s, "/healthz", http.Header{requestIDHeader: []string{"abc"}})
	assert.Equal(t, "abc", w.Header().Get(requestIDHeader))
}

func TestConfigOrDefault(t *testing.T) {
	c := (&Config{Addr: ":9000"}).OrDefault()
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, gin.ReleaseMode, c.Mode)
	assert.Equal(t, 10000, c.MaxResults)
	assert.Equal(t, DefaultConfig(), (*Config)(nil).OrDefault())
}
