package opsengine

import "github.com/julianshen/nereid-core/internal/model"

// Delta is the minimal set of object references touched by an applied
// batch: an object appears in exactly one of the three slices.
type Delta struct {
	Added   []model.ObjectRef
	Removed []model.ObjectRef
	Updated []model.ObjectRef
}

type changeKind int

const (
	changeAdded changeKind = iota
	changeUpdated
	changeRemoved
)

// deltaTracker accumulates per-ref change state across a batch and applies
// the collapse policy from SPEC_FULL.md §4.3: add-then-remove cancels,
// repeated updates collapse to one, and any remove wins over a prior update.
type deltaTracker struct {
	state map[model.ObjectRef]changeKind
	order []model.ObjectRef
}

func newDeltaTracker() *deltaTracker {
	return &deltaTracker{state: map[model.ObjectRef]changeKind{}}
}

func (t *deltaTracker) recordAdd(ref model.ObjectRef) {
	if _, ok := t.state[ref]; !ok {
		t.order = append(t.order, ref)
	}
	t.state[ref] = changeAdded
}

func (t *deltaTracker) recordUpdate(ref model.ObjectRef) {
	if existing, ok := t.state[ref]; ok {
		if existing == changeAdded || existing == changeRemoved {
			return // already added-this-batch or removed: no separate update entry
		}
		t.state[ref] = changeUpdated
		return
	}
	t.order = append(t.order, ref)
	t.state[ref] = changeUpdated
}

func (t *deltaTracker) recordRemove(ref model.ObjectRef) {
	if existing, ok := t.state[ref]; ok && existing == changeAdded {
		delete(t.state, ref)
		return // added then removed within the same batch: cancels out
	}
	if _, ok := t.state[ref]; !ok {
		t.order = append(t.order, ref)
	}
	t.state[ref] = changeRemoved
}

func (t *deltaTracker) finalize() Delta {
	var d Delta
	for _, ref := range t.order {
		kind, ok := t.state[ref]
		if !ok {
			continue // was added-then-removed and deleted from state
		}
		switch kind {
		case changeAdded:
			d.Added = append(d.Added, ref)
		case changeUpdated:
			d.Updated = append(d.Updated, ref)
		case changeRemoved:
			d.Removed = append(d.Removed, ref)
		}
	}
	return d
}

// mergeDeltas collapses a sequence of per-batch deltas (oldest first) into a
// single delta under the same policy, for GetDelta's multi-entry union.
func mergeDeltas(deltas []Delta) Delta {
	t := newDeltaTracker()
	for _, d := range deltas {
		for _, r := range d.Added {
			t.recordAdd(r)
		}
		for _, r := range d.Updated {
			t.recordUpdate(r)
		}
		for _, r := range d.Removed {
			t.recordRemove(r)
		}
	}
	return t.finalize()
}
