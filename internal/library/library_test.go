package library

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestExtractEpisodes(t *testing.T) {
	files := []SourceFile{
		{Path: "/Show.S01/Show.S01E03.1080p.mkv", Bytes: 300, Selected: true},
		{Path: "/Show.S01/Show.S01E01.1080p.mkv", Bytes: 100, Selected: true},
		{Path: "/Show.S01/Show.S01E02.1080p.mkv", Bytes: 200, Selected: false},
		{Path: "/Show.S01/Show.S01.nfo", Bytes: 1, Selected: true},
		{Path: "/Show.S01/Extras/Behind.The.Scenes.mp4", Bytes: 50, Selected: true},
	}

	t.Run("selected only", func(t *testing.T) {
		got := ExtractEpisodes(files, true)
		require.Len(t, got, 3)

		// Unnumbered extras sort first as (0, 0).
		assert.Equal(t, "Behind.The.Scenes.mp4", got[0].Filename)
		assert.Nil(t, got[0].Season)
		assert.Equal(t, "Show.S01E01.1080p.mkv", got[1].Filename)
		assert.Equal(t, ptr(1), got[1].Season)
		assert.Equal(t, ptr(1), got[1].Episode)
		assert.Equal(t, "Show", got[1].FriendlyName)
		assert.Equal(t, "/Show.S01/Show.S01E01.1080p.mkv", got[1].Path)
		assert.Equal(t, int64(100), got[1].Size)
		assert.Equal(t, ptr(3), got[2].Episode)
	})

	t.Run("all video files", func(t *testing.T) {
		got := ExtractEpisodes(files, false)
		require.Len(t, got, 4)
		assert.Equal(t, ptr(2), got[2].Episode)
	})

	t.Run("no videos", func(t *testing.T) {
		assert.Empty(t, ExtractEpisodes([]SourceFile{{Path: "/readme.txt", Selected: true}}, true))
	})
}

func TestExtractEpisodes_StableForEqualKeys(t *testing.T) {
	files := []SourceFile{
		{Path: "/b.mkv"},
		{Path: "/a.mkv"},
		{Path: "/c.mkv"},
	}
	got := ExtractEpisodes(files, false)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"b.mkv", "a.mkv", "c.mkv"}, []string{got[0].Filename, got[1].Filename, got[2].Filename})
}

func TestAttachStreams(t *testing.T) {
	episodes := []Episode{
		{Filename: "Show.S01E01.mkv"},
		{Filename: "Show.S01E02.mkv"},
		{Filename: "Show.S01E03.mkv"},
	}
	links := []StreamLink{
		{Filename: "", Download: "https://dl/empty"},
		{Filename: "show.s01e02.mkv", Download: "https://dl/2"},
		{Filename: "Show.S01E01.mkv", Download: "https://dl/1"},
		{Filename: "Show.S01E01.mkv.part", Download: "https://dl/1-dup"},
	}

	AttachStreams(episodes, links)

	assert.Equal(t, "https://dl/1", episodes[0].StreamURL)
	assert.Equal(t, "https://dl/2", episodes[1].StreamURL)
	assert.Empty(t, episodes[2].StreamURL)
}

func TestAttachStreams_ContainmentEitherWay(t *testing.T) {
	episodes := []Episode{{Filename: "E01.mkv"}, {Filename: "Long.Name.E02.mkv"}}
	links := []StreamLink{
		{Filename: "Show.E01.mkv", Download: "https://dl/1"},
		{Filename: "E02.mkv", Download: "https://dl/2"},
	}

	AttachStreams(episodes, links)

	assert.Equal(t, "https://dl/1", episodes[0].StreamURL)
	assert.Equal(t, "https://dl/2", episodes[1].StreamURL)
}

func TestSortSnapshot(t *testing.T) {
	entries := []Entry{
		{ID: "old", Added: "2023-01-01T00:00:00.000Z"},
		{ID: "new", Added: "2024-06-01T12:00:00.000Z"},
		{ID: "tie-a", Added: "2023-06-01T00:00:00.000Z"},
		{ID: "tie-b", Added: "2023-06-01T00:00:00.000Z"},
	}

	SortSnapshot(entries)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"new", "tie-a", "tie-b", "old"}, ids)
}

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 999, time.FixedZone("X", 3600))
	entries := []Entry{{ID: "a", Added: "1"}, {ID: "b", Added: "2"}}

	snap := NewSnapshot(entries, now, "full")

	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, "2024-03-09T13:05:07Z", snap.Updated)
	assert.Equal(t, "full", snap.Mode)
	assert.Equal(t, "b", snap.Items[0].ID)
	assert.Equal(t, "a", entries[0].ID, "input slice is not reordered")
}

func TestNewSnapshot_EmptyItemsEncodeAsArray(t *testing.T) {
	b, err := json.Marshal(NewSnapshot(nil, time.Unix(0, 0), ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"updated":"1970-01-01T00:00:00Z","items":[]}`, string(b))
}

func TestCacheRecord_Fresh(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	ttl := 23 * time.Hour

	rec := NewCacheRecord(Entry{ID: "a"}, now.Add(-22*time.Hour))
	assert.True(t, rec.Fresh(now, ttl))

	rec = NewCacheRecord(Entry{ID: "a"}, now.Add(-23*time.Hour-time.Second))
	assert.False(t, rec.Fresh(now, ttl))

	assert.WithinDuration(t, now.Add(-23*time.Hour-time.Second), rec.Fetched(), time.Millisecond)
}

func TestCache_JSONFormat(t *testing.T) {
	c := NewCache()
	c.Torrents["T1"] = CacheRecord{FetchedAt: 1700000000.5, Entry: Entry{ID: "T1", Title: "Heat", Type: "movie", Year: ptr(1995)}}
	c.Enrichment["heat|1995|movie"] = &Enrichment{Title: "Heat", Genres: []string{"Crime"}}
	c.Enrichment["nothing||movie"] = nil

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	rec := raw["torrents"]["T1"].(map[string]any)
	assert.InDelta(t, 1700000000.5, rec["_fetched_at"], 0.0001)
	assert.Equal(t, "Heat", rec["_library_entry"].(map[string]any)["title"])

	v, ok := raw["tmdb_cache"]["nothing||movie"]
	assert.True(t, ok)
	assert.Nil(t, v)

	var decoded Cache
	require.NoError(t, json.Unmarshal(b, &decoded))
	_, present := decoded.Enrichment["nothing||movie"]
	assert.True(t, present, "absent marker survives a round trip")
	assert.Equal(t, c.Torrents, decoded.Torrents)
}

func TestCache_Init(t *testing.T) {
	var c Cache
	require.NoError(t, json.Unmarshal([]byte(`{}`), &c))
	c.Init()
	assert.NotNil(t, c.Torrents)
	assert.NotNil(t, c.Enrichment)
}

func TestEntry_NullOptionalFields(t *testing.T) {
	b, err := json.Marshal(Entry{ID: "x", Type: "movie"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"year", "season", "episode"} {
		v, ok := raw[k]
		assert.True(t, ok, k)
		assert.Nil(t, v, k)
	}
	assert.NotContains(t, raw, "episodes")
	assert.NotContains(t, raw, "tmdb")
}
