package storage

import (
	"context"
	"sync"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

// Memory is the authoritative in-memory store: a mutex-guarded arena keyed
// by the composite user-skill id. It never fails, which makes it the
// always-available tier the engine falls back to when durable storage is
// unavailable. Insertion order is preserved so stable sorts downstream
// break ties predictably.
type Memory struct {
	mu         sync.RWMutex
	states     map[string]mastery.State
	stateOrder []string
	items      map[string]spacedrep.Item
	itemOrder  []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		states: make(map[string]mastery.State),
		items:  make(map[string]spacedrep.Item),
	}
}

func key(userID, skillID string) string {
	return userID + "-" + skillID
}

// GetState implements mastery.Store.
func (m *Memory) GetState(_ context.Context, skillID, userID string) (*mastery.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[key(userID, skillID)]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// PutState implements mastery.Store.
func (m *Memory) PutState(_ context.Context, state mastery.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(state.UserID, state.SkillID)
	if _, ok := m.states[k]; !ok {
		m.stateOrder = append(m.stateOrder, k)
	}
	m.states[k] = state
	return nil
}

// UserStates implements mastery.Store, returning states in insertion order.
func (m *Memory) UserStates(_ context.Context, userID string) ([]mastery.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []mastery.State
	for _, k := range m.stateOrder {
		if st := m.states[k]; st.UserID == userID {
			out = append(out, st)
		}
	}
	return out, nil
}

// GetItem implements spacedrep.Store.
func (m *Memory) GetItem(_ context.Context, skillID, userID string) (*spacedrep.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[key(userID, skillID)]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// PutItem implements spacedrep.Store.
func (m *Memory) PutItem(_ context.Context, item spacedrep.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(item.UserID, item.SkillID)
	if _, ok := m.items[k]; !ok {
		m.itemOrder = append(m.itemOrder, k)
	}
	m.items[k] = item
	return nil
}

// UserItems implements spacedrep.Store, returning items in insertion order.
func (m *Memory) UserItems(_ context.Context, userID string) ([]spacedrep.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []spacedrep.Item
	for _, k := range m.itemOrder {
		if it := m.items[k]; it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

// RemoveItem implements spacedrep.Store. Removing a nonexistent item is a
// no-op returning false.
func (m *Memory) RemoveItem(_ context.Context, skillID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(userID, skillID)
	if _, ok := m.items[k]; !ok {
		return false, nil
	}
	delete(m.items, k)
	for i, existing := range m.itemOrder {
		if existing == k {
			m.itemOrder = append(m.itemOrder[:i], m.itemOrder[i+1:]...)
			break
		}
	}
	return true, nil
}

// UserIDs returns the distinct users holding review items, in first-seen order.
func (m *Memory) UserIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, k := range m.itemOrder {
		it := m.items[k]
		if !seen[it.UserID] {
			seen[it.UserID] = true
			out = append(out, it.UserID)
		}
	}
	return out, nil
}

// Clear drops all stored state. Used by explicit resets and tests.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = make(map[string]mastery.State)
	m.stateOrder = nil
	m.items = make(map[string]spacedrep.Item)
	m.itemOrder = nil
}
