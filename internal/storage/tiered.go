package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

// Durable is the contract the backing store must satisfy to sit behind the
// tiered cache. *SQLite implements it.
type Durable interface {
	mastery.Store
	spacedrep.Store
	AllStates(ctx context.Context) ([]mastery.State, error)
	AllItems(ctx context.Context) ([]spacedrep.Item, error)
	UserIDs(ctx context.Context) ([]string, error)
}

// Tiered layers the authoritative memory store over a durable backend.
// Reads prefer memory; writes update memory unconditionally and attempt the
// durable write, logging but never propagating its failures. The in-session
// answer therefore stays correct even when the backing store is down, at
// the cost of eventual consistency between the tiers.
type Tiered struct {
	mem     *Memory
	durable Durable
	log     *zap.SugaredLogger
}

// NewTiered creates a tiered store. durable and log may be nil; with a nil
// durable backend the store degrades to memory-only.
func NewTiered(mem *Memory, durable Durable, log *zap.SugaredLogger) *Tiered {
	if mem == nil {
		mem = NewMemory()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tiered{mem: mem, durable: durable, log: log}
}

// Hydrate warms the memory tier from the durable tier. Call once at session
// start, before the cache is trusted.
func (t *Tiered) Hydrate(ctx context.Context) error {
	if t.durable == nil {
		return nil
	}
	states, err := t.durable.AllStates(ctx)
	if err != nil {
		return err
	}
	for _, st := range states {
		_ = t.mem.PutState(ctx, st)
	}
	items, err := t.durable.AllItems(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		_ = t.mem.PutItem(ctx, it)
	}
	return nil
}

// GetState implements mastery.Store. A durable-tier failure falls back to
// the memory answer.
func (t *Tiered) GetState(ctx context.Context, skillID, userID string) (*mastery.State, error) {
	if st, _ := t.mem.GetState(ctx, skillID, userID); st != nil {
		return st, nil
	}
	if t.durable == nil {
		return nil, nil
	}
	st, err := t.durable.GetState(ctx, skillID, userID)
	if err != nil {
		t.log.Warnw("durable read failed, treating as miss", "user", userID, "skill", skillID, "error", err)
		return nil, nil
	}
	if st != nil {
		_ = t.mem.PutState(ctx, *st)
	}
	return st, nil
}

// PutState implements mastery.Store: memory unconditionally, durable
// best-effort.
func (t *Tiered) PutState(ctx context.Context, state mastery.State) error {
	_ = t.mem.PutState(ctx, state)
	if t.durable != nil {
		if err := t.durable.PutState(ctx, state); err != nil {
			t.log.Warnw("durable write failed", "user", state.UserID, "skill", state.SkillID, "error", err)
		}
	}
	return nil
}

// UserStates implements mastery.Store, merging both tiers without duplicate
// keys; memory entries take precedence.
func (t *Tiered) UserStates(ctx context.Context, userID string) ([]mastery.State, error) {
	cached, _ := t.mem.UserStates(ctx, userID)
	if t.durable == nil {
		return cached, nil
	}
	stored, err := t.durable.UserStates(ctx, userID)
	if err != nil {
		t.log.Warnw("durable list failed, serving cache only", "user", userID, "error", err)
		return cached, nil
	}

	seen := make(map[string]bool, len(cached))
	for i := range cached {
		seen[cached[i].Key()] = true
	}
	out := cached
	for i := range stored {
		if !seen[stored[i].Key()] {
			out = append(out, stored[i])
		}
	}
	return out, nil
}

// GetItem implements spacedrep.Store.
func (t *Tiered) GetItem(ctx context.Context, skillID, userID string) (*spacedrep.Item, error) {
	if it, _ := t.mem.GetItem(ctx, skillID, userID); it != nil {
		return it, nil
	}
	if t.durable == nil {
		return nil, nil
	}
	it, err := t.durable.GetItem(ctx, skillID, userID)
	if err != nil {
		t.log.Warnw("durable read failed, treating as miss", "user", userID, "skill", skillID, "error", err)
		return nil, nil
	}
	if it != nil {
		_ = t.mem.PutItem(ctx, *it)
	}
	return it, nil
}

// PutItem implements spacedrep.Store.
func (t *Tiered) PutItem(ctx context.Context, item spacedrep.Item) error {
	_ = t.mem.PutItem(ctx, item)
	if t.durable != nil {
		if err := t.durable.PutItem(ctx, item); err != nil {
			t.log.Warnw("durable write failed", "user", item.UserID, "skill", item.SkillID, "error", err)
		}
	}
	return nil
}

// UserItems implements spacedrep.Store, merging both tiers without
// duplicate ids; memory entries take precedence.
func (t *Tiered) UserItems(ctx context.Context, userID string) ([]spacedrep.Item, error) {
	cached, _ := t.mem.UserItems(ctx, userID)
	if t.durable == nil {
		return cached, nil
	}
	stored, err := t.durable.UserItems(ctx, userID)
	if err != nil {
		t.log.Warnw("durable list failed, serving cache only", "user", userID, "error", err)
		return cached, nil
	}

	seen := make(map[string]bool, len(cached))
	for i := range cached {
		seen[cached[i].ID] = true
	}
	out := cached
	for i := range stored {
		if !seen[stored[i].ID] {
			out = append(out, stored[i])
		}
	}
	return out, nil
}

// RemoveItem implements spacedrep.Store, removing from both tiers.
func (t *Tiered) RemoveItem(ctx context.Context, skillID, userID string) (bool, error) {
	removed, _ := t.mem.RemoveItem(ctx, skillID, userID)
	if t.durable != nil {
		stored, err := t.durable.RemoveItem(ctx, skillID, userID)
		if err != nil {
			t.log.Warnw("durable remove failed", "user", userID, "skill", skillID, "error", err)
		} else if stored {
			removed = true
		}
	}
	return removed, nil
}

// UserIDs returns the distinct users across both tiers.
func (t *Tiered) UserIDs(ctx context.Context) ([]string, error) {
	cached, _ := t.mem.UserIDs(ctx)
	if t.durable == nil {
		return cached, nil
	}
	stored, err := t.durable.UserIDs(ctx)
	if err != nil {
		t.log.Warnw("durable user listing failed, serving cache only", "error", err)
		return cached, nil
	}
	seen := make(map[string]bool, len(cached))
	for _, id := range cached {
		seen[id] = true
	}
	out := cached
	for _, id := range stored {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
