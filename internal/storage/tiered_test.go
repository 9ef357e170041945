package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

// flakyDurable implements Durable over a Memory, failing every call once
// fail is set.
type flakyDurable struct {
	mem  *Memory
	fail bool
}

var errDown = errors.New("database is locked")

func (f *flakyDurable) GetState(ctx context.Context, skillID, userID string) (*mastery.State, error) {
	if f.fail {
		return nil, errDown
	}
	return f.mem.GetState(ctx, skillID, userID)
}

func (f *flakyDurable) PutState(ctx context.Context, state mastery.State) error {
	if f.fail {
		return errDown
	}
	return f.mem.PutState(ctx, state)
}

func (f *flakyDurable) UserStates(ctx context.Context, userID string) ([]mastery.State, error) {
	if f.fail {
		return nil, errDown
	}
	return f.mem.UserStates(ctx, userID)
}

func (f *flakyDurable) GetItem(ctx context.Context, skillID, userID string) (*spacedrep.Item, error) {
	if f.fail {
		return nil, errDown
	}
	return f.mem.GetItem(ctx, skillID, userID)
}

func (f *flakyDurable) PutItem(ctx context.Context, item spacedrep.Item) error {
	if f.fail {
		return errDown
	}
	return f.mem.PutItem(ctx, item)
}

func (f *flakyDurable) UserItems(ctx context.Context, userID string) ([]spacedrep.Item, error) {
	if f.fail {
		return nil, errDown
	}
	return f.mem.UserItems(ctx, userID)
}

func (f *flakyDurable) RemoveItem(ctx context.Context, skillID, userID string) (bool, error) {
	if f.fail {
		return false, errDown
	}
	return f.mem.RemoveItem(ctx, skillID, userID)
}

func (f *flakyDurable) AllStates(ctx context.Context) ([]mastery.State, error) {
	if f.fail {
		return nil, errDown
	}
	var out []mastery.State
	for _, k := range f.mem.stateOrder {
		out = append(out, f.mem.states[k])
	}
	return out, nil
}

func (f *flakyDurable) AllItems(ctx context.Context) ([]spacedrep.Item, error) {
	if f.fail {
		return nil, errDown
	}
	var out []spacedrep.Item
	for _, k := range f.mem.itemOrder {
		out = append(out, f.mem.items[k])
	}
	return out, nil
}

func (f *flakyDurable) UserIDs(ctx context.Context) ([]string, error) {
	if f.fail {
		return nil, errDown
	}
	return f.mem.UserIDs(ctx)
}

func newFlaky() *flakyDurable {
	return &flakyDurable{mem: NewMemory()}
}

func TestTieredHydrate(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.mem.PutState(ctx, mastery.State{SkillID: "s", UserID: "u", Probability: 0.8})
	durable.mem.PutItem(ctx, spacedrep.Item{ID: "u-s", SkillID: "s", UserID: "u", IntervalHours: 24})

	tiered := NewTiered(NewMemory(), durable, nil)
	require.NoError(t, tiered.Hydrate(ctx))

	// Knock the durable tier out; the hydrated cache must still answer.
	durable.fail = true

	st, err := tiered.GetState(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 0.8, st.Probability)

	it, err := tiered.GetItem(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, 24, it.IntervalHours)
}

func TestTieredWriteSurvivesDurableFailure(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.fail = true
	tiered := NewTiered(NewMemory(), durable, nil)

	err := tiered.PutState(ctx, mastery.State{SkillID: "s", UserID: "u", Probability: 0.6})
	require.NoError(t, err, "durable failure must not propagate")

	st, err := tiered.GetState(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 0.6, st.Probability)
}

func TestTieredReadFailureTreatedAsMiss(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.fail = true
	tiered := NewTiered(NewMemory(), durable, nil)

	st, err := tiered.GetState(ctx, "s", "u")
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestTieredMemoryWinsOnMerge(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.mem.PutState(ctx, mastery.State{SkillID: "shared", UserID: "u", Probability: 0.5})
	durable.mem.PutState(ctx, mastery.State{SkillID: "only-durable", UserID: "u", Probability: 0.7})

	mem := NewMemory()
	mem.PutState(ctx, mastery.State{SkillID: "shared", UserID: "u", Probability: 0.9})

	tiered := NewTiered(mem, durable, nil)
	states, err := tiered.UserStates(ctx, "u")
	require.NoError(t, err)
	require.Len(t, states, 2)

	byID := make(map[string]float64, len(states))
	for _, st := range states {
		byID[st.SkillID] = st.Probability
	}
	assert.Equal(t, 0.9, byID["shared"], "memory tier must take precedence")
	assert.Equal(t, 0.7, byID["only-durable"])
}

func TestTieredGetBackfillsCache(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.mem.PutItem(ctx, spacedrep.Item{ID: "u-s", SkillID: "s", UserID: "u", IntervalHours: 72})

	mem := NewMemory()
	tiered := NewTiered(mem, durable, nil)

	it, err := tiered.GetItem(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, it)

	cached, err := mem.GetItem(ctx, "s", "u")
	require.NoError(t, err)
	require.NotNil(t, cached, "durable hit must be backfilled into memory")
	assert.Equal(t, 72, cached.IntervalHours)
}

func TestTieredRemoveItemBothTiers(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.mem.PutItem(ctx, spacedrep.Item{ID: "u-s", SkillID: "s", UserID: "u"})

	mem := NewMemory()
	mem.PutItem(ctx, spacedrep.Item{ID: "u-s", SkillID: "s", UserID: "u"})

	tiered := NewTiered(mem, durable, nil)
	removed, err := tiered.RemoveItem(ctx, "s", "u")
	require.NoError(t, err)
	assert.True(t, removed)

	it, _ := mem.GetItem(ctx, "s", "u")
	assert.Nil(t, it)
	it, _ = durable.mem.GetItem(ctx, "s", "u")
	assert.Nil(t, it)
}

func TestTieredUserIDsUnion(t *testing.T) {
	ctx := context.Background()
	durable := newFlaky()
	durable.mem.PutItem(ctx, spacedrep.Item{ID: "hugo-s", SkillID: "s", UserID: "hugo"})

	mem := NewMemory()
	mem.PutItem(ctx, spacedrep.Item{ID: "elsa-s", SkillID: "s", UserID: "elsa"})
	mem.PutItem(ctx, spacedrep.Item{ID: "hugo-s", SkillID: "s", UserID: "hugo"})

	tiered := NewTiered(mem, durable, nil)
	ids, err := tiered.UserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"elsa", "hugo"}, ids)
}

func TestTieredNilDurable(t *testing.T) {
	ctx := context.Background()
	tiered := NewTiered(NewMemory(), nil, nil)

	require.NoError(t, tiered.Hydrate(ctx))
	require.NoError(t, tiered.PutItem(ctx, spacedrep.Item{
		ID: "u-s", SkillID: "s", UserID: "u", NextReview: time.Now(),
	}))

	it, err := tiered.GetItem(ctx, "s", "u")
	require.NoError(t, err)
	assert.NotNil(t, it)
}
