package layout

import (
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/julianshen/nereid-core/internal/model"
)

// DiagramLayout pairs a diagram id with whichever layout kind applies to
// it, or the error layout computation returned.
type DiagramLayout struct {
	DiagramID string
	Seq       *SequenceLayout
	Flow      *FlowLayout
	Err       error
}

// RenderMany computes layout for every diagram concurrently, bounded by
// maxGoroutines, then returns results re-sorted by DiagramID so the output
// is independent of goroutine completion order. Each diagram's layout
// computation is independent and read-only, so this is safe regardless of
// scheduling.
func RenderMany(diagrams []*model.Diagram, opts Options, maxGoroutines int) []DiagramLayout {
	if maxGoroutines <= 0 {
		maxGoroutines = 1
	}
	p := pool.New().WithMaxGoroutines(maxGoroutines)
	var mu sync.Mutex
	var results []DiagramLayout

	for _, d := range diagrams {
		d := d
		p.Go(func() {
			res := DiagramLayout{DiagramID: d.DiagramID}
			switch d.Kind {
			case model.KindSequence:
				l := Sequence(d.Sequence(), opts)
				res.Seq = &l
			case model.KindFlowchart:
				l, err := Flowchart(d.Flow(), opts)
				if err != nil {
					res.Err = err
				} else {
					res.Flow = &l
				}
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		})
	}
	p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].DiagramID < results[j].DiagramID })
	return results
}
