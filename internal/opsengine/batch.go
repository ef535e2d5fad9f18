package opsengine

import (
	"sync"

	"github.com/julianshen/nereid-core/internal/model"
)

// DefaultHistoryCapacity bounds how many batch entries each subject's ring
// buffer retains.
const DefaultHistoryCapacity = 64

// Engine owns the history ring buffers backing GetDelta and enforces the
// clone-validate-commit contract for both diagrams and walkthroughs. A
// single Engine may serve an entire Session; history is keyed by subject id
// so diagrams and walkthroughs never collide.
type Engine struct {
	mu       sync.Mutex
	history  map[string]*ringBuffer
	wHistory map[string]*walkthroughRingBuffer
	capacity int
}

// NewEngine returns an Engine with the default history capacity.
func NewEngine() *Engine {
	return &Engine{
		history:  map[string]*ringBuffer{},
		wHistory: map[string]*walkthroughRingBuffer{},
		capacity: DefaultHistoryCapacity,
	}
}

func (e *Engine) historyFor(subjectID string) *ringBuffer {
	rb, ok := e.history[subjectID]
	if !ok {
		rb = newRingBuffer(e.capacity)
		e.history[subjectID] = rb
	}
	return rb
}

func (e *Engine) walkthroughHistoryFor(subjectID string) *walkthroughRingBuffer {
	rb, ok := e.wHistory[subjectID]
	if !ok {
		rb = newWalkthroughRingBuffer(e.capacity)
		e.wHistory[subjectID] = rb
	}
	return rb
}

// ApplySequenceBatch applies ops to d's sequence AST under the clone-
// validate-commit contract, committing on success.
func (e *Engine) ApplySequenceBatch(d *model.Diagram, baseRev uint64, ops []SeqOp) (uint64, Delta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := d.Sequence()
	if cur == nil {
		return 0, Delta{}, &model.ErrKindMismatch{Want: model.KindSequence, Got: d.Kind}
	}
	if baseRev != d.Rev() {
		return 0, Delta{}, &RevConflict{CurrentRev: d.Rev()}
	}

	clone := cur.Clone()
	dt := newDeltaTracker()
	for _, op := range ops {
		if err := op.Apply(clone, d.DiagramID, dt); err != nil {
			return 0, Delta{}, err
		}
	}
	if err := clone.Validate(); err != nil {
		return 0, Delta{}, &InvalidEndpoint{Detail: err.Error()}
	}

	if err := d.ReplaceSequence(clone); err != nil {
		return 0, Delta{}, err
	}
	d.BumpRev()
	delta := dt.finalize()
	e.historyFor(d.DiagramID).push(HistoryEntry{FromRev: baseRev, ToRev: d.Rev(), Delta: delta})
	return d.Rev(), delta, nil
}

// ProposeSequenceBatch runs the same validation as ApplySequenceBatch but
// never commits or appends history; it is pure with respect to d.
func (e *Engine) ProposeSequenceBatch(d *model.Diagram, baseRev uint64, ops []SeqOp) (uint64, Delta, error) {
	cur := d.Sequence()
	if cur == nil {
		return 0, Delta{}, &model.ErrKindMismatch{Want: model.KindSequence, Got: d.Kind}
	}
	if baseRev != d.Rev() {
		return 0, Delta{}, &RevConflict{CurrentRev: d.Rev()}
	}
	clone := cur.Clone()
	dt := newDeltaTracker()
	for _, op := range ops {
		if err := op.Apply(clone, d.DiagramID, dt); err != nil {
			return 0, Delta{}, err
		}
	}
	if err := clone.Validate(); err != nil {
		return 0, Delta{}, &InvalidEndpoint{Detail: err.Error()}
	}
	return baseRev + 1, dt.finalize(), nil
}

// ApplyFlowBatch applies ops to d's flowchart AST under the clone-validate-
// commit contract, committing on success.
func (e *Engine) ApplyFlowBatch(d *model.Diagram, baseRev uint64, ops []FlowOp) (uint64, Delta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := d.Flow()
	if cur == nil {
		return 0, Delta{}, &model.ErrKindMismatch{Want: model.KindFlowchart, Got: d.Kind}
	}
	if baseRev != d.Rev() {
		return 0, Delta{}, &RevConflict{CurrentRev: d.Rev()}
	}

	clone := cur.Clone()
	dt := newDeltaTracker()
	for _, op := range ops {
		if err := op.Apply(clone, d.DiagramID, dt); err != nil {
			return 0, Delta{}, err
		}
	}
	if err := clone.Validate(); err != nil {
		return 0, Delta{}, &InvalidEndpoint{Detail: err.Error()}
	}

	if err := d.ReplaceFlow(clone); err != nil {
		return 0, Delta{}, err
	}
	d.BumpRev()
	delta := dt.finalize()
	e.historyFor(d.DiagramID).push(HistoryEntry{FromRev: baseRev, ToRev: d.Rev(), Delta: delta})
	return d.Rev(), delta, nil
}

// ProposeFlowBatch runs the same validation as ApplyFlowBatch but never
// commits or appends history.
func (e *Engine) ProposeFlowBatch(d *model.Diagram, baseRev uint64, ops []FlowOp) (uint64, Delta, error) {
	cur := d.Flow()
	if cur == nil {
		return 0, Delta{}, &model.ErrKindMismatch{Want: model.KindFlowchart, Got: d.Kind}
	}
	if baseRev != d.Rev() {
		return 0, Delta{}, &RevConflict{CurrentRev: d.Rev()}
	}
	clone := cur.Clone()
	dt := newDeltaTracker()
	for _, op := range ops {
		if err := op.Apply(clone, d.DiagramID, dt); err != nil {
			return 0, Delta{}, err
		}
	}
	if err := clone.Validate(); err != nil {
		return 0, Delta{}, &InvalidEndpoint{Detail: err.Error()}
	}
	return baseRev + 1, dt.finalize(), nil
}

// GetDelta returns the union delta for subjectID since sinceRev, or an
// Unavailable error if sinceRev predates the retained history window.
func (e *Engine) GetDelta(subjectID string, sinceRev, currentRev uint64) (Delta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rb, ok := e.history[subjectID]
	if !ok {
		if sinceRev == currentRev {
			return Delta{}, nil
		}
		return Delta{}, &Unavailable{CurrentRev: currentRev}
	}
	entries, covered := rb.since(sinceRev)
	if !covered {
		return Delta{}, &Unavailable{CurrentRev: currentRev}
	}
	deltas := make([]Delta, len(entries))
	for i, e := range entries {
		deltas[i] = e.Delta
	}
	return mergeDeltas(deltas), nil
}
