package opsengine

import "github.com/julianshen/nereid-core/internal/model"

// WalkthroughDelta mirrors Delta but over WalkthroughRef, since walkthrough
// nodes/edges are not addressable via the diagram ObjectRef grammar.
type WalkthroughDelta struct {
	Added   []model.WalkthroughRef
	Removed []model.WalkthroughRef
	Updated []model.WalkthroughRef
}

type walkthroughDeltaTracker struct {
	state map[model.WalkthroughRef]changeKind
	order []model.WalkthroughRef
}

func newWalkthroughDeltaTracker() *walkthroughDeltaTracker {
	return &walkthroughDeltaTracker{state: map[model.WalkthroughRef]changeKind{}}
}

func (t *walkthroughDeltaTracker) recordAdd(ref model.WalkthroughRef) {
	if _, ok := t.state[ref]; !ok {
		t.order = append(t.order, ref)
	}
	t.state[ref] = changeAdded
}

func (t *walkthroughDeltaTracker) recordUpdate(ref model.WalkthroughRef) {
	if existing, ok := t.state[ref]; ok {
		if existing == changeAdded || existing == changeRemoved {
			return
		}
		t.state[ref] = changeUpdated
		return
	}
	t.order = append(t.order, ref)
	t.state[ref] = changeUpdated
}

func (t *walkthroughDeltaTracker) recordRemove(ref model.WalkthroughRef) {
	if existing, ok := t.state[ref]; ok && existing == changeAdded {
		delete(t.state, ref)
		return
	}
	if _, ok := t.state[ref]; !ok {
		t.order = append(t.order, ref)
	}
	t.state[ref] = changeRemoved
}

func (t *walkthroughDeltaTracker) finalize() WalkthroughDelta {
	var d WalkthroughDelta
	for _, ref := range t.order {
		kind, ok := t.state[ref]
		if !ok {
			continue
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

func mergeWalkthroughDeltas(deltas []WalkthroughDelta) WalkthroughDelta {
	t := newWalkthroughDeltaTracker()
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
