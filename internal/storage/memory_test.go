package storage

import (
	"context"
	"testing"
	"time"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

func TestMemoryStatesInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := m.PutState(ctx, mastery.State{SkillID: id, UserID: "u", Probability: 0.5}); err != nil {
			t.Fatalf("PutState(%q) error = %v", id, err)
		}
	}
	// Updating an existing state must not move it.
	m.PutState(ctx, mastery.State{SkillID: "c", UserID: "u", Probability: 0.7})

	states, err := m.UserStates(ctx, "u")
	if err != nil {
		t.Fatalf("UserStates() error = %v", err)
	}

	want := []string{"c", "a", "b"}
	if len(states) != len(want) {
		t.Fatalf("UserStates() returned %d states, want %d", len(states), len(want))
	}
	for i, id := range want {
		if states[i].SkillID != id {
			t.Errorf("UserStates()[%d] = %q, want %q", i, states[i].SkillID, id)
		}
	}
	if states[0].Probability != 0.7 {
		t.Errorf("updated probability = %v, want 0.7", states[0].Probability)
	}
}

func TestMemoryStateMissing(t *testing.T) {
	m := NewMemory()

	st, err := m.GetState(context.Background(), "nope", "u")
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if st != nil {
		t.Errorf("GetState() = %+v, want nil for missing state", st)
	}
}

func TestMemoryStatesScopedToUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.PutState(ctx, mastery.State{SkillID: "s", UserID: "elsa"})
	m.PutState(ctx, mastery.State{SkillID: "s", UserID: "hugo"})

	states, _ := m.UserStates(ctx, "elsa")
	if len(states) != 1 || states[0].UserID != "elsa" {
		t.Errorf("UserStates(elsa) = %+v, want only elsa's state", states)
	}
}

func TestMemoryRemoveItem(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	m.PutItem(ctx, spacedrep.Item{ID: "u-a", SkillID: "a", UserID: "u", NextReview: now})
	m.PutItem(ctx, spacedrep.Item{ID: "u-b", SkillID: "b", UserID: "u", NextReview: now})

	removed, err := m.RemoveItem(ctx, "a", "u")
	if err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if !removed {
		t.Error("RemoveItem() = false for existing item, want true")
	}

	removed, _ = m.RemoveItem(ctx, "a", "u")
	if removed {
		t.Error("RemoveItem() = true for missing item, want false")
	}

	items, _ := m.UserItems(ctx, "u")
	if len(items) != 1 || items[0].SkillID != "b" {
		t.Errorf("UserItems() = %+v, want only item b", items)
	}
}

func TestMemoryUserIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.PutItem(ctx, spacedrep.Item{ID: "hugo-a", SkillID: "a", UserID: "hugo"})
	m.PutItem(ctx, spacedrep.Item{ID: "elsa-a", SkillID: "a", UserID: "elsa"})
	m.PutItem(ctx, spacedrep.Item{ID: "hugo-b", SkillID: "b", UserID: "hugo"})

	ids, err := m.UserIDs(ctx)
	if err != nil {
		t.Fatalf("UserIDs() error = %v", err)
	}
	want := []string{"hugo", "elsa"}
	if len(ids) != len(want) {
		t.Fatalf("UserIDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("UserIDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.PutState(ctx, mastery.State{SkillID: "s", UserID: "u"})
	m.PutItem(ctx, spacedrep.Item{ID: "u-s", SkillID: "s", UserID: "u"})

	m.Clear()

	if states, _ := m.UserStates(ctx, "u"); len(states) != 0 {
		t.Errorf("UserStates() after Clear = %+v, want empty", states)
	}
	if items, _ := m.UserItems(ctx, "u"); len(items) != 0 {
		t.Errorf("UserItems() after Clear = %+v, want empty", items)
	}
}
