package persist

import "github.com/julianshen/nereid-core/internal/model"

func messageFingerprintKey(fromIdent, toIdent, kind, text string) string {
	return fromIdent + "\x00" + toIdent + "\x00" + kind + "\x00" + text
}

func edgeFingerprintKey(fromMermaid, toMermaid, label string) string {
	return fromMermaid + "\x00" + toMermaid + "\x00" + label
}

// buildSequenceSidecar captures the stable ids, notes, and roles an
// export/reparse round trip cannot carry through Mermaid text alone.
func buildSequenceSidecar(ast *model.SequenceAST) sequenceSidecar {
	out := sequenceSidecar{
		Kind:               "sequence",
		ParticipantsByName: map[string]string{},
		ParticipantNotes:   map[string]string{},
		ParticipantRoles:   map[string]string{},
	}
	for _, p := range ast.CanonicalParticipants() {
		out.ParticipantsByName[p.MermaidIdent] = p.ID
		if p.Note != "" {
			out.ParticipantNotes[p.ID] = p.Note
		}
		if p.Role != "" {
			out.ParticipantRoles[p.ID] = p.Role
		}
	}

	identByID := map[string]string{}
	for _, p := range ast.Participants {
		identByID[p.ID] = p.MermaidIdent
	}
	for _, m := range ast.CanonicalMessages() {
		out.Messages = append(out.Messages, messageFingerprintEntry{
			FromIdent: identByID[m.FromID],
			ToIdent:   identByID[m.ToID],
			Kind:      string(m.Kind),
			Text:      m.Text,
			MessageID: m.ID,
		})
	}
	return out
}

// reconcileSequence remaps the fresh ids a reparse of the exported .mmd
// assigns back to the stable ids recorded in the sidecar: messages first by
// fingerprint (first-fit, preserving duplicate counts), then participants
// by name, then restoring non-interchange fields (notes, roles). Message
// fingerprints use participant Mermaid identifiers rather than ids, so
// matching messages before participants gives the same result.
func reconcileSequence(ast *model.SequenceAST, side sequenceSidecar) {
	// identByID is keyed by the fresh ids the reparse just allocated,
	// matching how messages still reference From/To at this point.
	identByID := map[string]string{}
	for _, p := range ast.Participants {
		identByID[p.ID] = p.MermaidIdent
	}

	byKey := map[string][]string{}
	for _, entry := range side.Messages {
		key := messageFingerprintKey(entry.FromIdent, entry.ToIdent, entry.Kind, entry.Text)
		byKey[key] = append(byKey[key], entry.MessageID)
	}

	msgRemap := map[string]string{}
	for i, m := range ast.Messages {
		key := messageFingerprintKey(identByID[m.FromID], identByID[m.ToID], string(m.Kind), m.Text)
		queue := byKey[key]
		if len(queue) == 0 {
			continue
		}
		stableID := queue[0]
		byKey[key] = queue[1:]
		msgRemap[m.ID] = stableID
		ast.Messages[i].ID = stableID
	}

	idRemap := map[string]string{}
	for i, p := range ast.Participants {
		if stableID, ok := side.ParticipantsByName[p.MermaidIdent]; ok {
			idRemap[p.ID] = stableID
			ast.Participants[i].ID = stableID
		}
	}
	for i, m := range ast.Messages {
		if newID, ok := idRemap[m.FromID]; ok {
			ast.Messages[i].FromID = newID
		}
		if newID, ok := idRemap[m.ToID]; ok {
			ast.Messages[i].ToID = newID
		}
	}
	for bi := range ast.Blocks {
		for si := range ast.Blocks[bi].Sections {
			ids := ast.Blocks[bi].Sections[si].MessageIDs
			for k, id := range ids {
				if newID, ok := msgRemap[id]; ok {
					ids[k] = newID
				}
			}
		}
	}

	for i, p := range ast.Participants {
		if note, ok := side.ParticipantNotes[p.ID]; ok {
			ast.Participants[i].Note = note
		}
		if role, ok := side.ParticipantRoles[p.ID]; ok {
			ast.Participants[i].Role = role
		}
	}
}

// buildFlowSidecar captures the stable ids, notes, and edge styles an
// export/reparse round trip cannot carry through Mermaid text alone.
func buildFlowSidecar(ast *model.FlowAST) flowSidecar {
	out := flowSidecar{
		Kind:           "flowchart",
		NodesByMermaid: map[string]string{},
		NodeNotes:      map[string]string{},
	}
	for _, n := range ast.CanonicalNodes() {
		out.NodesByMermaid[n.MermaidID] = n.ID
		if n.Note != "" {
			out.NodeNotes[n.ID] = n.Note
		}
	}
	mermaidByID := map[string]string{}
	for _, n := range ast.Nodes {
		mermaidByID[n.ID] = n.MermaidID
	}
	for _, e := range ast.CanonicalEdges() {
		out.Edges = append(out.Edges, edgeFingerprintEntry{
			FromMermaidID: mermaidByID[e.From],
			ToMermaidID:   mermaidByID[e.To],
			Label:         e.Label,
			EdgeID:        e.ID,
			Style:         e.Style,
		})
	}
	return out
}

func reconcileFlow(ast *model.FlowAST, side flowSidecar) {
	// mermaidByID is keyed by the fresh ids the reparse just allocated,
	// matching how edges still reference From/To at this point.
	mermaidByID := map[string]string{}
	for _, n := range ast.Nodes {
		mermaidByID[n.ID] = n.MermaidID
	}

	byKey := map[string][]string{}
	byKeyStyle := map[string][]string{}
	for _, entry := range side.Edges {
		key := edgeFingerprintKey(entry.FromMermaidID, entry.ToMermaidID, entry.Label)
		byKey[key] = append(byKey[key], entry.EdgeID)
		byKeyStyle[key] = append(byKeyStyle[key], entry.Style)
	}
	for i, e := range ast.Edges {
		key := edgeFingerprintKey(mermaidByID[e.From], mermaidByID[e.To], e.Label)
		ids := byKey[key]
		styles := byKeyStyle[key]
		if len(ids) == 0 {
			continue
		}
		stableID, style := ids[0], styles[0]
		byKey[key] = ids[1:]
		byKeyStyle[key] = styles[1:]
		ast.Edges[i].ID = stableID
		ast.Edges[i].Style = style
	}

	idRemap := map[string]string{}
	for i, n := range ast.Nodes {
		if stableID, ok := side.NodesByMermaid[n.MermaidID]; ok {
			idRemap[n.ID] = stableID
			ast.Nodes[i].ID = stableID
		}
	}
	for i, e := range ast.Edges {
		if newID, ok := idRemap[e.From]; ok {
			ast.Edges[i].From = newID
		}
		if newID, ok := idRemap[e.To]; ok {
			ast.Edges[i].To = newID
		}
	}

	for i, n := range ast.Nodes {
		if note, ok := side.NodeNotes[n.ID]; ok {
			ast.Nodes[i].Note = note
		}
	}
}
