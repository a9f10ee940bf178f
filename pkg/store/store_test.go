package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)

	payload := map[string]interface{}{"totalUsers": 42}
	require.NoError(t, s.SaveSnapshot("dashboard", payload))
	require.NoError(t, s.SaveSnapshot("dashboard", payload))
	require.NoError(t, s.SaveSnapshot("users", payload))

	snaps, err := s.RecentSnapshots("dashboard", 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.Equal(t, "dashboard", snaps[0].Scope)
	assert.Contains(t, snaps[0].Payload, "totalUsers")

	// Scope filter holds.
	snaps, err = s.RecentSnapshots("users", 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestPruneSnapshots(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveSnapshot("dashboard", map[string]int{"n": 1}))

	// A generous window keeps everything; a negative one clears it.
	require.NoError(t, s.PruneSnapshots(24*time.Hour))
	snaps, _ := s.RecentSnapshots("dashboard", 10)
	assert.Len(t, snaps, 1)

	require.NoError(t, s.PruneSnapshots(-time.Minute))
	snaps, _ = s.RecentSnapshots("dashboard", 10)
	assert.Empty(t, snaps)
}

func TestActionLog(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.LogAction(Action{
		Entity: "kyc", Action: "reject", TargetID: "k1", TargetName: "Asha",
		Outcome: "ok", Message: "document unreadable",
	}))
	require.NoError(t, s.LogAction(Action{
		Entity: "users", Action: "add-coins", TargetID: "u1", Outcome: "error",
	}))

	actions, err := s.RecentActions(10)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	// Newest first.
	assert.Equal(t, "users", actions[0].Entity)
	assert.Equal(t, "kyc", actions[1].Entity)
	assert.Equal(t, "document unreadable", actions[1].Message)
}

func TestSettingsCacheUpsert(t *testing.T) {
	s := newTestStore(t)

	type bundle struct {
		BaseRate float64 `json:"baseRate"`
	}
	require.NoError(t, s.CacheSettings("mining", bundle{BaseRate: 10}))
	require.NoError(t, s.CacheSettings("mining", bundle{BaseRate: 12}))

	var got bundle
	found, err := s.CachedSettings("mining", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 12.0, got.BaseRate)

	found, err = s.CachedSettings("missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCounts(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveSnapshot("dashboard", map[string]int{}))
	require.NoError(t, s.LogAction(Action{Entity: "kyc", Action: "approve", Outcome: "ok"}))

	counts, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["stats_snapshots"])
	assert.Equal(t, int64(1), counts["action_log"])
}
