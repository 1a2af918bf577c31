package realdebrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrsnap/pkg/retryhttp"
)

var testPolicy = retryhttp.Policy{BaseDelay: time.Millisecond, MaxAttempts: 2}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithPolicy(testPolicy)}, opts...)
	return New("secret", opts...)
}

func TestClient_ListTorrents_Paginates(t *testing.T) {
	var pages []int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/torrents", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)

		var batch []Torrent
		switch page {
		case 1:
			batch = []Torrent{{ID: "a"}, {ID: "b"}}
		case 2:
			batch = []Torrent{{ID: "c", Status: "downloaded", Links: []string{"https://rd/d/1"}}}
		}
		_ = json.NewEncoder(w).Encode(batch)
	}, WithPageSize(2))

	got, err := c.ListTorrents(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.True(t, got[2].Downloaded())
	assert.Equal(t, []string{"https://rd/d/1"}, got[2].Links)
	assert.Equal(t, []int{1, 2}, pages)
}

func TestClient_ListTorrents_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, WithPageSize(2))

	got, err := c.ListTorrents(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, calls)
}

func TestClient_ListTorrents_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad_token","error_code":8}`))
	})

	_, err := c.ListTorrents(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var te *retryhttp.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.Status)
}

func TestClient_TorrentInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/torrents/info/ABC", r.URL.Path)
		fmt.Fprint(w, `{
			"id": "ABC",
			"filename": "Show.S01.1080p",
			"files": [
				{"id": 1, "path": "/Show.S01E01.mkv", "bytes": 100, "selected": 1},
				{"id": 2, "path": "/sample.txt", "bytes": 1, "selected": 0}
			],
			"links": ["https://rd/d/1"]
		}`)
	})

	info, err := c.TorrentInfo(context.Background(), "ABC")

	require.NoError(t, err)
	require.Len(t, info.Files, 2)
	assert.True(t, info.Files[0].IsSelected())
	assert.False(t, info.Files[1].IsSelected())
	assert.Equal(t, []string{"https://rd/d/1"}, info.Links)
}

func TestClient_TorrentInfo_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.TorrentInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_TorrentInfo_EmptyID(t *testing.T) {
	c := New("secret")
	_, err := c.TorrentInfo(context.Background(), "  ")
	assert.Error(t, err)
}

func TestClient_Unrestrict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/unrestrict/link", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://rd/d/1", r.PostForm.Get("link"))
		fmt.Fprint(w, `{"filename":"Show.S01E01.mkv","filesize":100,"download":"https://dl/1","mimeType":"video/x-matroska"}`)
	})

	got, err := c.Unrestrict(context.Background(), "https://rd/d/1")

	require.NoError(t, err)
	assert.Equal(t, "Show.S01E01.mkv", got.Filename)
	assert.Equal(t, int64(100), got.Filesize)
	assert.Equal(t, "https://dl/1", got.Download)
	assert.Equal(t, "video/x-matroska", got.MimeType)
}

func TestClient_Unrestrict_RetriesThenFails(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Unrestrict(context.Background(), "https://rd/d/1")

	require.Error(t, err)
	assert.ErrorIs(t, err, retryhttp.ErrRateLimited)
	assert.Equal(t, 2, calls)
}
