package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/feedrank/catalog"
	"github.com/rushteam/feedrank/config"
	"github.com/rushteam/feedrank/core"
	"github.com/rushteam/feedrank/preference"
	"github.com/rushteam/feedrank/store"
)

var topics = []string{
	"music", "news", "gaming", "cooking", "travel", "science",
	"documentary", "comedy", "history", "art", "nature", "sports", "technology",
}

func videoID(i int) string { return fmt.Sprintf("v%010d", i) }

func fixtureCatalog() *catalog.Memory {
	m := catalog.NewMemory()
	i := 0
	for _, topic := range topics {
		for k := 0; k < 30; k++ {
			m.Add(core.ContentItem{
				ID:            videoID(i),
				Title:         fmt.Sprintf("%s episode %d", topic, k),
				ChannelID:     fmt.Sprintf("ch%02d", i%40),
				ChannelName:   fmt.Sprintf("Channel %d", i%40),
				ViewCountText: fmt.Sprintf("%dK views", k+1),
				DurationText:  fmt.Sprintf("%d:00", 2+k%20),
			})
			i++
		}
	}
	var trending []core.ContentItem
	for k := 0; k < 30; k++ {
		trending = append(trending, core.ContentItem{
			ID:          fmt.Sprintf("t%010d", k),
			Title:       fmt.Sprintf("viral clip %d", k),
			ChannelID:   fmt.Sprintf("tr%02d", k%10),
			ChannelName: "Trending",
		})
	}
	m.SetTrending(trending...)
	return m
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Feed.Seed = 7
	return cfg
}

func newEngine(t *testing.T, cat core.Catalog, cfg config.Config, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) })}, opts...)
	e, err := New(cat, cfg, opts...)
	require.NoError(t, err)
	return e
}

func idSet(items []core.ContentItem) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it.ID] = struct{}{}
	}
	return out
}

func TestColdStartReturnsItems(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())

	items, err := e.GetFeed(context.Background(), &core.FeedRequest{UserID: "u1"}, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.LessOrEqual(t, len(items), config.DefaultPageSize)
	assert.True(t, e.CurrentProfile().IsEmpty())
}

func TestAllCatalogOperationsFail(t *testing.T) {
	cat := fixtureCatalog()
	boom := errors.New("catalog down")
	for _, op := range []string{catalog.OpSearch, catalog.OpRelated, catalog.OpLatest, catalog.OpTrending} {
		cat.FailOn(op, boom)
	}
	e := newEngine(t, cat, testConfig())

	req := &core.FeedRequest{
		UserID:        "u1",
		WatchHistory:  []core.ContentItem{{ID: videoID(1), Title: "music episode 1"}},
		Subscriptions: []core.SourceChannel{{ID: "ch01", Name: "Channel 1"}},
	}
	items, err := e.GetFeed(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPagesAreDisjoint(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	req := &core.FeedRequest{UserID: "u1", SearchHistory: []string{"cooking", "travel"}}

	seen := map[string]struct{}{}
	for page := 1; page <= 3; page++ {
		items, err := e.GetFeed(context.Background(), req, page)
		require.NoError(t, err)
		for _, it := range items {
			_, dup := seen[it.ID]
			require.False(t, dup, "item %s repeated on page %d", it.ID, page)
			seen[it.ID] = struct{}{}
		}
	}
	assert.NotEmpty(t, seen)
	assert.Equal(t, len(seen), e.Session().Emitted)
}

func TestInvalidInput(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	ctx := context.Background()

	tests := []struct {
		name string
		req  *core.FeedRequest
		page int
	}{
		{"nil request", nil, 1},
		{"empty user", &core.FeedRequest{}, 1},
		{"page zero", &core.FeedRequest{UserID: "u1"}, 0},
		{"unknown bucket", &core.FeedRequest{UserID: "u1", DurationBuckets: []core.DurationBucket{"tiny"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.GetFeed(ctx, tt.req, tt.page)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestPageSkippingAhead(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	req := &core.FeedRequest{UserID: "u1"}

	_, err := e.GetFeed(context.Background(), req, 1)
	require.NoError(t, err)
	_, err = e.GetFeed(context.Background(), req, 3)
	assert.True(t, core.IsInvalidInput(err))

	_, err = e.GetFeed(context.Background(), req, 2)
	assert.NoError(t, err)
}

func TestFingerprintChangeResetsSession(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	ctx := context.Background()

	_, err := e.GetFeed(ctx, &core.FeedRequest{UserID: "u1"}, 1)
	require.NoError(t, err)
	first := e.Session()

	_, err = e.GetFeed(ctx, &core.FeedRequest{UserID: "u1", Block: core.BlockList{Keywords: []string{"news"}}}, 1)
	require.NoError(t, err)
	second := e.Session()

	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.Generation, first.Generation)
}

func TestBlockedChannelNeverEmitted(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	req := &core.FeedRequest{UserID: "u1", Block: core.BlockList{
		Channels: []string{"ch00", "ch01", "ch02"},
		Keywords: []string{"gaming"},
	}}
	for page := 1; page <= 2; page++ {
		items, err := e.GetFeed(context.Background(), req, page)
		require.NoError(t, err)
		for _, it := range items {
			assert.NotContains(t, []string{"ch00", "ch01", "ch02"}, it.ChannelID)
			assert.NotContains(t, it.Title, "gaming")
		}
	}
}

func TestChannelCapAndDuration(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	req := &core.FeedRequest{UserID: "u1", DurationBuckets: []core.DurationBucket{core.DurationShort}}

	items, err := e.GetFeed(context.Background(), req, 1)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	perChannel := map[string]int{}
	for _, it := range items {
		perChannel[it.ChannelID]++
		if it.DurationText != "" {
			var m, s int
			_, err := fmt.Sscanf(it.DurationText, "%d:%d", &m, &s)
			require.NoError(t, err)
			assert.Less(t, m*60+s, 240)
		}
	}
	for ch, n := range perChannel {
		assert.LessOrEqual(t, n, 4, ch)
	}
}

func TestCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.Feed.Ceiling = 5
	e := newEngine(t, fixtureCatalog(), cfg)
	req := &core.FeedRequest{UserID: "u1"}

	items, err := e.GetFeed(context.Background(), req, 1)
	require.NoError(t, err)
	assert.Len(t, items, 5)

	items, err = e.GetFeed(context.Background(), req, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, e.Session().HasMore)
}

func TestRetryingServedPageKeepsSessionOpen(t *testing.T) {
	req := &core.FeedRequest{UserID: "u1", SearchHistory: []string{"cooking", "travel"}}
	ctx := context.Background()

	control := newEngine(t, fixtureCatalog(), testConfig())
	for page := 1; page <= 2; page++ {
		_, err := control.GetFeed(ctx, req, page)
		require.NoError(t, err)
	}
	want, err := control.GetFeed(ctx, req, 3)
	require.NoError(t, err)

	e := newEngine(t, fixtureCatalog(), testConfig())
	for _, page := range []int{1, 2} {
		_, err := e.GetFeed(ctx, req, page)
		require.NoError(t, err)
	}
	retry, err := e.GetFeed(ctx, req, 2)
	require.NoError(t, err)
	assert.Empty(t, retry, "items already served are not repeated")
	assert.True(t, e.Session().HasMore)
	assert.Equal(t, 3, e.Session().Page)

	got, err := e.GetFeed(ctx, req, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeterministicWithSeed(t *testing.T) {
	req := &core.FeedRequest{UserID: "u1", SearchHistory: []string{"science"}}
	run := func() []core.ContentItem {
		e := newEngine(t, fixtureCatalog(), testConfig())
		items, err := e.GetFeed(context.Background(), req, 1)
		require.NoError(t, err)
		return items
	}
	assert.Equal(t, run(), run())
}

type resettingCatalog struct {
	*catalog.Memory
	onTrending func()
}

func (c *resettingCatalog) Trending(ctx context.Context) ([]core.ContentItem, error) {
	if c.onTrending != nil {
		c.onTrending()
	}
	return c.Memory.Trending(ctx)
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	cat := &resettingCatalog{Memory: fixtureCatalog()}
	e := newEngine(t, cat, testConfig())
	cat.onTrending = e.Reset

	items, err := e.GetFeed(context.Background(), &core.FeedRequest{UserID: "u1"}, 1)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Nil(t, e.Session())
}

func TestGetFeedForUser(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	prefs := preference.NewStoreSource(kv)
	require.NoError(t, prefs.Save(context.Background(), &core.FeedRequest{
		UserID:        "u1",
		SearchHistory: []string{"nature"},
		Block:         core.BlockList{Keywords: []string{"comedy"}},
	}))

	e := newEngine(t, fixtureCatalog(), testConfig(), WithPreferences(prefs))
	items, err := e.GetFeedForUser(context.Background(), "u1", 1)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.NotContains(t, it.Title, "comedy")
	}
	assert.Greater(t, e.CurrentProfile().Weight("nature"), 0.0)

	_, err = e.GetFeedForUser(context.Background(), "", 1)
	assert.True(t, core.IsInvalidInput(err))
}

func TestGetFeedForUserWithoutPreferences(t *testing.T) {
	e := newEngine(t, fixtureCatalog(), testConfig())
	_, err := e.GetFeedForUser(context.Background(), "u1", 1)
	assert.True(t, core.IsNotSupported(err))
}

func TestNewRejectsBadDropExpr(t *testing.T) {
	cfg := testConfig()
	cfg.Filter.DropExpr = "item.title =="
	_, err := New(fixtureCatalog(), cfg)
	assert.Error(t, err)
}
