package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/feedrank/core"
)

func TestBuildColdStart(t *testing.T) {
	p := NewBuilder().Build(&core.FeedRequest{UserID: "u1"})
	require.NotNil(t, p)
	assert.True(t, p.IsEmpty())
	assert.Zero(t, p.Magnitude)
}

func TestBuildWeights(t *testing.T) {
	b := NewBuilder()
	req := &core.FeedRequest{
		UserID:        "u1",
		SearchHistory: []string{"minecraft"},
		WatchHistory: []core.ContentItem{
			{ID: "aaaaaaaaaaa", Title: "Cooking pasta", ChannelName: "Chef"},
		},
		Subscriptions: []core.SourceChannel{{ID: "c1", Name: "Guitar"}},
	}
	p := b.Build(req)

	assert.InDelta(t, 3.0, p.Weight("minecraft"), 1e-9)
	assert.InDelta(t, 1.0, p.Weight("cooking"), 1e-9)
	assert.InDelta(t, 1.5, p.Weight("chef"), 1e-9)
	assert.InDelta(t, 2.0, p.Weight("guitar"), 1e-9)

	var sum float64
	for _, w := range p.Keywords {
		sum += w * w
	}
	assert.InDelta(t, math.Sqrt(sum), p.Magnitude, 1e-9)
}

func TestBuildDecayAndAccumulation(t *testing.T) {
	b := NewBuilder()
	p := b.Build(&core.FeedRequest{
		UserID:        "u1",
		SearchHistory: []string{"jazz", "rock", "jazz"},
	})
	want := 3.0 + 3.0*math.Exp(-2.0/10)
	assert.InDelta(t, want, p.Weight("jazz"), 1e-9)
	assert.InDelta(t, 3.0*math.Exp(-1.0/10), p.Weight("rock"), 1e-9)
	assert.Greater(t, p.Weight("jazz"), p.Weight("rock"))
}

func TestBuildWindow(t *testing.T) {
	b := NewBuilder()
	b.Window = 2
	p := b.Build(&core.FeedRequest{
		UserID:        "u1",
		SearchHistory: []string{"alpha", "beta", "gamma"},
	})
	assert.Positive(t, p.Weight("beta"))
	assert.Zero(t, p.Weight("gamma"))
}

func TestSubscriptionNotDecayed(t *testing.T) {
	b := NewBuilder()
	subs := make([]core.SourceChannel, 0, 20)
	for i := 0; i < 20; i++ {
		subs = append(subs, core.SourceChannel{ID: "c", Name: "drums"})
	}
	p := b.Build(&core.FeedRequest{UserID: "u1", Subscriptions: subs})
	assert.InDelta(t, 40.0, p.Weight("drums"), 1e-9)
}

func TestRecentIDs(t *testing.T) {
	b := NewBuilder()
	b.Window = 1
	ids := b.RecentIDs(&core.FeedRequest{WatchHistory: []core.ContentItem{{ID: "a"}, {ID: "b"}}})
	assert.Contains(t, ids, "a")
	assert.NotContains(t, ids, "b")
}
