package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "plugga.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	masteredAt := now.Add(-time.Hour)
	want := mastery.State{
		SkillID: "gloss-1", UserID: "elsa", Probability: 0.92,
		Attempts: 14, CorrectAttempts: 12,
		LastAttempt: now, LastUpdate: now,
		Mastered: true, MasteredAt: &masteredAt,
	}
	require.NoError(t, db.PutState(ctx, want))

	got, err := db.GetState(ctx, "gloss-1", "elsa")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.SkillID, got.SkillID)
	assert.Equal(t, want.UserID, got.UserID)
	assert.InDelta(t, want.Probability, got.Probability, 1e-9)
	assert.Equal(t, want.Attempts, got.Attempts)
	assert.Equal(t, want.CorrectAttempts, got.CorrectAttempts)
	assert.True(t, got.Mastered)
	require.NotNil(t, got.MasteredAt)
	assert.WithinDuration(t, masteredAt, *got.MasteredAt, time.Second)
	assert.WithinDuration(t, now, got.LastAttempt, time.Second)
}

func TestSQLiteStateUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	st := mastery.State{SkillID: "s", UserID: "u", Probability: 0.5, Attempts: 1, LastAttempt: now, LastUpdate: now}
	require.NoError(t, db.PutState(ctx, st))

	st.Probability = 0.7
	st.Attempts = 2
	require.NoError(t, db.PutState(ctx, st))

	got, err := db.GetState(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.7, got.Probability, 1e-9)
	assert.Equal(t, 2, got.Attempts)

	states, err := db.UserStates(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, states, 1, "upsert must not create a second row")
}

func TestSQLiteStateMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetState(context.Background(), "nope", "u")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteItemRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	lastDecay := now.Add(-30 * time.Hour)
	want := spacedrep.Item{
		ID: spacedrep.ItemID("elsa", "gloss-1"), SkillID: "gloss-1", UserID: "elsa",
		IntervalHours: 72, Repetitions: 3, EaseFactor: 2.7,
		NextReview: now.Add(72 * time.Hour), LastReview: now,
		LastDecay: &lastDecay,
	}
	require.NoError(t, db.PutItem(ctx, want))

	got, err := db.GetItem(ctx, "gloss-1", "elsa")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, 72, got.IntervalHours)
	assert.Equal(t, 3, got.Repetitions)
	assert.InDelta(t, 2.7, got.EaseFactor, 1e-9)
	require.NotNil(t, got.LastDecay)
	assert.WithinDuration(t, lastDecay, *got.LastDecay, time.Second)
	assert.WithinDuration(t, want.NextReview, got.NextReview, time.Second)
}

func TestSQLiteItemNilLastDecay(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.PutItem(ctx, spacedrep.Item{
		ID: "u-s", SkillID: "s", UserID: "u",
		IntervalHours: 8, EaseFactor: 2.5,
		NextReview: now.Add(8 * time.Hour), LastReview: now,
	}))

	got, err := db.GetItem(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.LastDecay)
}

func TestSQLiteUserItemsOrderedByInsertion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, skill := range []string{"c", "a", "b"} {
		require.NoError(t, db.PutItem(ctx, spacedrep.Item{
			ID: spacedrep.ItemID("u", skill), SkillID: skill, UserID: "u",
			IntervalHours: 8, EaseFactor: 2.5,
			NextReview: now, LastReview: now,
		}))
	}

	items, err := db.UserItems(ctx, "u")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].SkillID)
	assert.Equal(t, "a", items[1].SkillID)
	assert.Equal(t, "b", items[2].SkillID)
}

func TestSQLiteRemoveItem(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.PutItem(ctx, spacedrep.Item{
		ID: "u-s", SkillID: "s", UserID: "u",
		IntervalHours: 8, EaseFactor: 2.5,
		NextReview: now, LastReview: now,
	}))

	removed, err := db.RemoveItem(ctx, "s", "u")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = db.RemoveItem(ctx, "s", "u")
	require.NoError(t, err)
	assert.False(t, removed, "removing a missing item must be a no-op")
}

func TestSQLiteUserIDsAndReset(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, user := range []string{"hugo", "elsa"} {
		require.NoError(t, db.PutItem(ctx, spacedrep.Item{
			ID: spacedrep.ItemID(user, "s"), SkillID: "s", UserID: user,
			IntervalHours: 8, EaseFactor: 2.5,
			NextReview: now, LastReview: now,
		}))
	}
	require.NoError(t, db.PutState(ctx, mastery.State{
		SkillID: "s", UserID: "hugo", Probability: 0.5, LastAttempt: now, LastUpdate: now,
	}))

	ids, err := db.UserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"elsa", "hugo"}, ids)

	require.NoError(t, db.Reset(ctx))

	ids, err = db.UserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	states, err := db.AllStates(ctx)
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestSQLiteHydrationQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.PutState(ctx, mastery.State{
		SkillID: "s", UserID: "u", Probability: 0.6, LastAttempt: now, LastUpdate: now,
	}))
	require.NoError(t, db.PutItem(ctx, spacedrep.Item{
		ID: "u-s", SkillID: "s", UserID: "u",
		IntervalHours: 24, EaseFactor: 2.5,
		NextReview: now.Add(24 * time.Hour), LastReview: now,
	}))

	states, err := db.AllStates(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 1)

	items, err := db.AllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
