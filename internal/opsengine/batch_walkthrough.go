package opsengine

import "github.com/julianshen/nereid-core/internal/model"

// ApplyWalkthroughBatch applies ops to w under the identical clone-validate-
// commit contract used for diagrams, with its own per-walkthrough history.
func (e *Engine) ApplyWalkthroughBatch(w *model.Walkthrough, baseRev uint64, ops []WalkthroughOp) (uint64, WalkthroughDelta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if baseRev != w.Rev() {
		return 0, WalkthroughDelta{}, &RevConflict{CurrentRev: w.Rev()}
	}
	clone := w.Clone()
	dt := newWalkthroughDeltaTracker()
	for _, op := range ops {
		if err := op.Apply(clone, dt); err != nil {
			return 0, WalkthroughDelta{}, err
		}
	}
	if err := clone.Validate(); err != nil {
		return 0, WalkthroughDelta{}, &InvalidEndpoint{Detail: err.Error()}
	}

	*w = *clone
	w.BumpRev()
	delta := dt.finalize()
	e.walkthroughHistoryFor(w.ID).push(walkthroughHistoryEntry{FromRev: baseRev, ToRev: w.Rev(), Delta: delta})
	return w.Rev(), delta, nil
}

// ProposeWalkthroughBatch runs the same validation as ApplyWalkthroughBatch
// but never commits or appends history.
func (e *Engine) ProposeWalkthroughBatch(w *model.Walkthrough, baseRev uint64, ops []WalkthroughOp) (uint64, WalkthroughDelta, error) {
	if baseRev != w.Rev() {
		return 0, WalkthroughDelta{}, &RevConflict{CurrentRev: w.Rev()}
	}
	clone := w.Clone()
	dt := newWalkthroughDeltaTracker()
	for _, op := range ops {
		if err := op.Apply(clone, dt); err != nil {
			return 0, WalkthroughDelta{}, err
		}
	}
	if err := clone.Validate(); err != nil {
		return 0, WalkthroughDelta{}, &InvalidEndpoint{Detail: err.Error()}
	}
	return baseRev + 1, dt.finalize(), nil
}

// GetWalkthroughDelta returns the union delta for walkthroughID since
// sinceRev, or an Unavailable error if sinceRev predates the retained
// history window.
func (e *Engine) GetWalkthroughDelta(walkthroughID string, sinceRev, currentRev uint64) (WalkthroughDelta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rb, ok := e.wHistory[walkthroughID]
	if !ok {
		if sinceRev == currentRev {
			return WalkthroughDelta{}, nil
		}
		return WalkthroughDelta{}, &Unavailable{CurrentRev: currentRev}
	}
	entries, covered := rb.since(sinceRev)
	if !covered {
		return WalkthroughDelta{}, &Unavailable{CurrentRev: currentRev}
	}
	deltas := make([]WalkthroughDelta, len(entries))
	for i, e := range entries {
		deltas[i] = e.Delta
	}
	return mergeWalkthroughDeltas(deltas), nil
}
