package mermaid

import (
	"fmt"
	"strings"

	"github.com/julianshen/nereid-core/internal/model"
)

func arrowToken(kind model.MessageKind) string {
	switch kind {
	case model.MessageSync, model.MessageSelfSync:
		return "->>"
	case model.MessageReturn:
		return "-->>"
	case model.MessageAsync, model.MessageSelfAsync:
		return "-)"
	default:
		return "->>"
	}
}

// ExportSequence renders a SequenceAST back to the sequenceDiagram subset,
// in canonical order: participants by ObjectID, then top-level messages
// interleaved with blocks in the order they were recorded. Export is
// deterministic: the same AST always yields the same text byte-for-byte.
func ExportSequence(a *model.SequenceAST) (string, error) {
	var b strings.Builder
	b.WriteString("sequenceDiagram\n")

	for _, p := range a.CanonicalParticipants() {
		if p.DisplayLabel != "" && p.DisplayLabel != p.MermaidIdent {
			fmt.Fprintf(&b, "    participant %s as %s\n", p.MermaidIdent, p.DisplayLabel)
		} else {
			fmt.Fprintf(&b, "    participant %s\n", p.MermaidIdent)
		}
	}

	identOf := map[string]string{}
	for _, p := range a.Participants {
		identOf[p.ID] = p.MermaidIdent
	}

	messageByID := map[string]model.Message{}
	for _, m := range a.Messages {
		messageByID[m.ID] = m
	}
	blockByID := map[string]model.Block{}
	for _, blk := range a.Blocks {
		blockByID[blk.ID] = blk
	}
	isChildBlock := map[string]bool{}
	for _, blk := range a.Blocks {
		for _, sec := range blk.Sections {
			for _, cid := range sec.ChildBlockIDs {
				isChildBlock[cid] = true
			}
		}
	}

	var writeMessage func(ind string, mid string) error
	writeMessage = func(ind string, mid string) error {
		m, ok := messageByID[mid]
		if !ok {
			return fmt.Errorf("export: unknown message %s", mid)
		}
		fromIdent, toIdent := identOf[m.FromID], identOf[m.ToID]
		if containsNewlineStr(m.Text) {
			return &ExportError{Kind: NewlineInLabel, Detail: "message " + m.ID}
		}
		fmt.Fprintf(&b, "%s%s%s%s: %s\n", ind, fromIdent, arrowToken(m.Kind), toIdent, m.Text)
		return nil
	}

	var writeBlock func(ind string, blk model.Block) error
	writeBlock = func(ind string, blk model.Block) error {
		for i, sec := range blk.Sections {
			if i == 0 {
				fmt.Fprintf(&b, "%s%s %s\n", ind, blk.Kind, sec.Header)
			} else {
				fmt.Fprintf(&b, "%s%s %s\n", ind, sec.Kind, sec.Header)
			}
			for _, mid := range sec.MessageIDs {
				if err := writeMessage(ind+"    ", mid); err != nil {
					return err
				}
			}
			for _, cid := range sec.ChildBlockIDs {
				child, ok := blockByID[cid]
				if !ok {
					return fmt.Errorf("export: unknown block %s", cid)
				}
				if err := writeBlock(ind+"    ", child); err != nil {
					return err
				}
			}
		}
		fmt.Fprintf(&b, "%send\n", ind)
		return nil
	}

	used := map[string]bool{}
	for _, blk := range a.Blocks {
		for _, sec := range blk.Sections {
			for _, mid := range sec.MessageIDs {
				used[mid] = true
			}
		}
	}
	for _, m := range a.CanonicalMessages() {
		if used[m.ID] {
			continue
		}
		if err := writeMessage("    ", m.ID); err != nil {
			return "", err
		}
	}
	for _, blk := range a.Blocks {
		if isChildBlock[blk.ID] {
			continue
		}
		if err := writeBlock("    ", blk); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

func shapeBrackets(shape model.NodeShape, label string) string {
	switch shape {
	case model.ShapeRound:
		return "(" + label + ")"
	case model.ShapeDiamond:
		return "{" + label + "}"
	default:
		return "[" + label + "]"
	}
}

// ExportFlowchart renders a FlowAST back to the flowchart subset, with nodes
// declared once (at first canonical appearance as an edge endpoint, or
// standalone if never referenced by an edge) and edges in canonical order.
func ExportFlowchart(a *model.FlowAST) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	mermaidIDs := map[string]string{}
	shapes := map[string]model.NodeShape{}
	labels := map[string]string{}
	for _, n := range a.Nodes {
		if containsNewlineStr(n.Label) {
			return "", &ExportError{Kind: NewlineInLabel, Detail: "node " + n.ID}
		}
		mermaidIDs[n.ID] = n.MermaidID
		shapes[n.ID] = n.Shape
		labels[n.ID] = n.Label
	}

	declared := map[string]bool{}
	declareNode := func(id string) string {
		ident := mermaidIDs[id]
		if declared[id] {
			return ident
		}
		declared[id] = true
		return ident + shapeBrackets(shapes[id], labels[id])
	}

	for _, e := range a.CanonicalEdges() {
		if containsNewlineStr(e.Label) {
			return "", &ExportError{Kind: NewlineInLabel, Detail: "edge " + e.ID}
		}
		fromTok := declareNode(e.From)
		toTok := declareNode(e.To)
		if e.Label != "" {
			fmt.Fprintf(&b, "    %s --> |%s| %s\n", fromTok, e.Label, toTok)
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", fromTok, toTok)
		}
	}
	for _, n := range a.CanonicalNodes() {
		if declared[n.ID] {
			continue
		}
		fmt.Fprintf(&b, "    %s\n", declareNode(n.ID))
	}

	return b.String(), nil
}
