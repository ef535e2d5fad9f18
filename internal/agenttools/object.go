package agenttools

import (
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
)

// ObjectRead resolves ref to the underlying object: a Participant, Message,
// Block, Section, Node, or Edge value depending on ref.Category.
func ObjectRead(ws *Workspace, ref model.ObjectRef) (any, error) {
	d, err := diagramOrNotFound(ws, ref.DiagramID)
	if err != nil {
		return nil, err
	}

	switch ref.Category {
	case model.CategorySeqParticipant, model.CategorySeqMessage, model.CategorySeqBlock, model.CategorySeqSection:
		seq := d.Sequence()
		if seq == nil {
			return nil, &model.ErrKindMismatch{Want: model.KindSequence, Got: d.Kind}
		}
		return readSequenceObject(seq, ref)
	case model.CategoryFlowNode, model.CategoryFlowEdge:
		flow := d.Flow()
		if flow == nil {
			return nil, &model.ErrKindMismatch{Want: model.KindFlowchart, Got: d.Kind}
		}
		return readFlowObject(flow, ref)
	}
	return nil, &opsengine.NotFound{Kind: "category", ID: string(ref.Category)}
}

func readSequenceObject(seq *model.SequenceAST, ref model.ObjectRef) (any, error) {
	switch ref.Category {
	case model.CategorySeqParticipant:
		for _, p := range seq.Participants {
			if p.ID == ref.ObjectID {
				return p, nil
			}
		}
	case model.CategorySeqMessage:
		for _, m := range seq.Messages {
			if m.ID == ref.ObjectID {
				return m, nil
			}
		}
	case model.CategorySeqBlock:
		for _, b := range seq.Blocks {
			if b.ID == ref.ObjectID {
				return b, nil
			}
		}
	case model.CategorySeqSection:
		for _, b := range seq.Blocks {
			for _, sec := range b.Sections {
				if sec.ID == ref.ObjectID {
					return sec, nil
				}
			}
		}
	}
	return nil, &opsengine.NotFound{Kind: string(ref.Category), ID: ref.ObjectID}
}

func readFlowObject(flow *model.FlowAST, ref model.ObjectRef) (any, error) {
	switch ref.Category {
	case model.CategoryFlowNode:
		for _, n := range flow.Nodes {
			if n.ID == ref.ObjectID {
				return n, nil
			}
		}
	case model.CategoryFlowEdge:
		for _, e := range flow.Edges {
			if e.ID == ref.ObjectID {
				return e, nil
			}
		}
	}
	return nil, &opsengine.NotFound{Kind: string(ref.Category), ID: ref.ObjectID}
}
