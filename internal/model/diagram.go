package model

import "fmt"

// DiagramKind tags which AST variant a Diagram carries.
type DiagramKind string

const (
	KindSequence  DiagramKind = "sequence"
	KindFlowchart DiagramKind = "flowchart"
)

// ErrKindMismatch is returned when an AST replacement, an op batch, or a
// query names a diagram kind that does not match the Diagram's own kind.
type ErrKindMismatch struct {
	Want, Got DiagramKind
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("kind mismatch: want %s, got %s", e.Want, e.Got)
}

// ErrRevOverflow is returned by SetRev when asked to restore a revision
// beyond the safety cap used to reject pathological persisted values.
type ErrRevOverflow struct{ Value uint64 }

func (e *ErrRevOverflow) Error() string {
	return fmt.Sprintf("revision %d exceeds safety cap %d", e.Value, MaxSafeRevision)
}

// MaxSafeRevision bounds the revision values accepted from persisted state.
const MaxSafeRevision = 1 << 40

// Diagram is a single named sequence or flowchart diagram plus its revision
// counter. The AST field is kind-checked: callers may only replace it with
// an AST matching Kind.
type Diagram struct {
	DiagramID string
	Name      string
	Kind      DiagramKind
	rev       uint64

	seqAST  *SequenceAST
	flowAST *FlowAST
}

// NewSequenceDiagram constructs an empty sequence diagram.
func NewSequenceDiagram(id, name string) *Diagram {
	return &Diagram{DiagramID: id, Name: name, Kind: KindSequence, seqAST: NewSequenceAST()}
}

// NewFlowchartDiagram constructs an empty flowchart diagram.
func NewFlowchartDiagram(id, name string) *Diagram {
	return &Diagram{DiagramID: id, Name: name, Kind: KindFlowchart, flowAST: NewFlowAST()}
}

// Rev returns the current revision counter.
func (d *Diagram) Rev() uint64 { return d.rev }

// BumpRev increments the revision by exactly one, as required after every
// successfully committed op batch.
func (d *Diagram) BumpRev() { d.rev++ }

// SetRev restores a revision value (used when loading from persisted state),
// rejecting values beyond the safety cap in O(1).
func (d *Diagram) SetRev(rev uint64) error {
	if rev > MaxSafeRevision {
		return &ErrRevOverflow{Value: rev}
	}
	d.rev = rev
	return nil
}

// Sequence returns the sequence AST, or nil if Kind != KindSequence.
func (d *Diagram) Sequence() *SequenceAST {
	if d.Kind != KindSequence {
		return nil
	}
	return d.seqAST
}

// Flow returns the flowchart AST, or nil if Kind != KindFlowchart.
func (d *Diagram) Flow() *FlowAST {
	if d.Kind != KindFlowchart {
		return nil
	}
	return d.flowAST
}

// ReplaceSequence swaps in a new sequence AST in O(1). Returns
// ErrKindMismatch if the diagram is not a sequence diagram.
func (d *Diagram) ReplaceSequence(ast *SequenceAST) error {
	if d.Kind != KindSequence {
		return &ErrKindMismatch{Want: d.Kind, Got: KindSequence}
	}
	d.seqAST = ast
	return nil
}

// ReplaceFlow swaps in a new flowchart AST in O(1). Returns ErrKindMismatch
// if the diagram is not a flowchart diagram.
func (d *Diagram) ReplaceFlow(ast *FlowAST) error {
	if d.Kind != KindFlowchart {
		return &ErrKindMismatch{Want: d.Kind, Got: KindFlowchart}
	}
	d.flowAST = ast
	return nil
}

// Clone returns a deep copy of the diagram, including its AST, for use by
// the clone-validate-commit op application contract.
func (d *Diagram) Clone() *Diagram {
	out := &Diagram{DiagramID: d.DiagramID, Name: d.Name, Kind: d.Kind, rev: d.rev}
	if d.seqAST != nil {
		out.seqAST = d.seqAST.Clone()
	}
	if d.flowAST != nil {
		out.flowAST = d.flowAST.Clone()
	}
	return out
}
