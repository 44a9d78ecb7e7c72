package session

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/feedrank/core"
)

func contents(prefix string, n int) []core.ContentItem {
	out := make([]core.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, core.ContentItem{ID: fmt.Sprintf("%s%0*d", prefix, 11-len(prefix), i)})
	}
	return out
}

func TestNew(t *testing.T) {
	s := New("u1", 42, 3, 0)
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, DefaultCeiling, s.Ceiling)
	assert.True(t, s.HasMore)
	assert.False(t, s.Exhausted())
}

func TestCommitDropsSeenAndAdvancesPage(t *testing.T) {
	s := New("u1", 0, 1, 0)
	first := s.Commit(1, contents("a", 3))
	assert.Len(t, first, 3)
	assert.Equal(t, 2, s.Page)

	again := append(contents("a", 2), contents("b", 2)...)
	again = append(again, again[2])
	second := s.Commit(2, again)
	assert.Len(t, second, 2)
	assert.Equal(t, 5, s.Emitted)
	assert.Equal(t, 3, s.Page)
}

func TestCommitCeiling(t *testing.T) {
	s := New("u1", 0, 1, 5)
	out := s.Commit(1, contents("a", 4))
	assert.Len(t, out, 4)
	out = s.Commit(2, contents("b", 4))
	assert.Len(t, out, 1)
	assert.True(t, s.Exhausted())
	assert.Equal(t, 0, s.Remaining())
}

func TestCommitEmptyPage(t *testing.T) {
	s := New("u1", 0, 1, 0)
	s.Commit(1, nil)
	assert.True(t, s.HasMore, "empty first page keeps the session open")

	s.Commit(2, nil)
	assert.False(t, s.HasMore)
	assert.True(t, s.Exhausted())
}

func TestCommitRetryOfServedPage(t *testing.T) {
	s := New("u1", 0, 1, 0)
	s.Commit(1, contents("a", 3))
	s.Commit(2, contents("b", 3))

	out := s.Commit(2, contents("b", 3))
	assert.Empty(t, out)
	assert.True(t, s.HasMore)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, 6, s.Emitted)
}

func TestSeenSnapshotIsCopy(t *testing.T) {
	s := New("u1", 0, 1, 0)
	s.Commit(1, contents("a", 1))
	snap := s.SeenSnapshot()
	snap["zzzzzzzzzzz"] = struct{}{}
	assert.Len(t, s.Seen, 1)
}
