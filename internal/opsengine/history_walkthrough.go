package opsengine

// walkthroughHistoryEntry is one committed walkthrough batch's revision
// span and delta.
type walkthroughHistoryEntry struct {
	FromRev uint64
	ToRev   uint64
	Delta   WalkthroughDelta
}

// walkthroughRingBuffer mirrors ringBuffer but over WalkthroughDelta
// entries, since walkthrough deltas are not expressible as ObjectRef.
type walkthroughRingBuffer struct {
	entries  []walkthroughHistoryEntry
	capacity int
}

func newWalkthroughRingBuffer(capacity int) *walkthroughRingBuffer {
	return &walkthroughRingBuffer{capacity: capacity}
}

func (r *walkthroughRingBuffer) push(e walkthroughHistoryEntry) {
	r.entries = append(r.entries, e)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
}

func (r *walkthroughRingBuffer) since(sinceRev uint64) (entries []walkthroughHistoryEntry, ok bool) {
	if len(r.entries) == 0 {
		return nil, sinceRev == 0
	}
	oldest := r.entries[0].FromRev
	if sinceRev < oldest {
		return nil, false
	}
	for _, e := range r.entries {
		if e.FromRev >= sinceRev {
			entries = append(entries, e)
		}
	}
	return entries, true
}
