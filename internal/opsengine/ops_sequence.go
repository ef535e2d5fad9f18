package opsengine

import (
	"github.com/julianshen/nereid-core/internal/model"
)

// SeqOp is a single typed mutation against a SequenceAST clone. Apply
// returns an error if the op cannot be applied, possibly after having
// changed part of the clone; the caller discards the whole clone on any op
// failure.
type SeqOp interface {
	Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error
}

func seqRef(diagramID string, cat model.Category, id string) model.ObjectRef {
	return model.ObjectRef{DiagramID: diagramID, Category: cat, ObjectID: id}
}

// AddParticipant appends a new lifeline.
type AddParticipant struct {
	ID           string
	MermaidIdent string
	DisplayLabel string
	Role         string
}

func (op AddParticipant) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for _, p := range ast.Participants {
		if p.ID == op.ID {
			return &DuplicateID{Kind: "participant", ID: op.ID}
		}
		if p.MermaidIdent == op.MermaidIdent {
			return &IdentifierCollision{Ident: op.MermaidIdent}
		}
	}
	ast.Participants = append(ast.Participants, model.Participant{
		ID:           op.ID,
		MermaidIdent: op.MermaidIdent,
		DisplayLabel: op.DisplayLabel,
		Role:         op.Role,
	})
	dt.recordAdd(seqRef(diagramID, model.CategorySeqParticipant, op.ID))
	return nil
}

// ParticipantPatch applies only the non-nil fields.
type ParticipantPatch struct {
	DisplayLabel *string
	Role         *string
}

// UpdateParticipant patches mutable participant fields in place.
type UpdateParticipant struct {
	ID    string
	Patch ParticipantPatch
}

func (op UpdateParticipant) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for i := range ast.Participants {
		if ast.Participants[i].ID != op.ID {
			continue
		}
		if op.Patch.DisplayLabel != nil {
			ast.Participants[i].DisplayLabel = *op.Patch.DisplayLabel
		}
		if op.Patch.Role != nil {
			ast.Participants[i].Role = *op.Patch.Role
		}
		dt.recordUpdate(seqRef(diagramID, model.CategorySeqParticipant, op.ID))
		return nil
	}
	return &NotFound{Kind: "participant", ID: op.ID}
}

// SetParticipantNote sets or clears a participant's note.
type SetParticipantNote struct {
	ID   string
	Note string
}

func (op SetParticipantNote) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for i := range ast.Participants {
		if ast.Participants[i].ID != op.ID {
			continue
		}
		ast.Participants[i].Note = op.Note
		dt.recordUpdate(seqRef(diagramID, model.CategorySeqParticipant, op.ID))
		return nil
	}
	return &NotFound{Kind: "participant", ID: op.ID}
}

// RemoveParticipant removes a participant and cascades removal of every
// message that names it as either endpoint.
type RemoveParticipant struct {
	ID string
}

func (op RemoveParticipant) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	idx := -1
	for i, p := range ast.Participants {
		if p.ID == op.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFound{Kind: "participant", ID: op.ID}
	}
	var cascaded []string
	kept := ast.Messages[:0:0]
	for _, m := range ast.Messages {
		if m.FromID == op.ID || m.ToID == op.ID {
			cascaded = append(cascaded, m.ID)
			continue
		}
		kept = append(kept, m)
	}
	ast.Messages = kept
	for _, mid := range cascaded {
		removeMessageIDFromSections(ast, mid)
		dt.recordRemove(seqRef(diagramID, model.CategorySeqMessage, mid))
	}
	ast.Participants = append(ast.Participants[:idx], ast.Participants[idx+1:]...)
	dt.recordRemove(seqRef(diagramID, model.CategorySeqParticipant, op.ID))
	return nil
}

// AddMessage appends a new message in order-key position.
type AddMessage struct {
	ID       string
	FromID   string
	ToID     string
	Kind     model.MessageKind
	Text     string
	OrderKey model.OrderKey
}

func (op AddMessage) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	if containsNewlineOp(op.Text) {
		return &InvalidText{Detail: "message text must be single line"}
	}
	fromOK, toOK := false, false
	for _, p := range ast.Participants {
		if p.ID == op.FromID {
			fromOK = true
		}
		if p.ID == op.ToID {
			toOK = true
		}
	}
	if !fromOK {
		return &InvalidEndpoint{Detail: "unknown from participant " + op.FromID}
	}
	if !toOK {
		return &InvalidEndpoint{Detail: "unknown to participant " + op.ToID}
	}
	for _, m := range ast.Messages {
		if m.ID == op.ID {
			return &DuplicateID{Kind: "message", ID: op.ID}
		}
	}
	ast.Messages = append(ast.Messages, model.Message{
		ID: op.ID, FromID: op.FromID, ToID: op.ToID,
		Kind: op.Kind, Text: op.Text, OrderKey: op.OrderKey,
	})
	dt.recordAdd(seqRef(diagramID, model.CategorySeqMessage, op.ID))
	return nil
}

// MessagePatch applies only the non-nil fields.
type MessagePatch struct {
	Text *string
	Kind *model.MessageKind
}

// UpdateMessage patches mutable message fields in place.
type UpdateMessage struct {
	ID    string
	Patch MessagePatch
}

func (op UpdateMessage) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for i := range ast.Messages {
		if ast.Messages[i].ID != op.ID {
			continue
		}
		if op.Patch.Text != nil {
			if containsNewlineOp(*op.Patch.Text) {
				return &InvalidText{Detail: "message text must be single line"}
			}
			ast.Messages[i].Text = *op.Patch.Text
		}
		if op.Patch.Kind != nil {
			ast.Messages[i].Kind = *op.Patch.Kind
		}
		dt.recordUpdate(seqRef(diagramID, model.CategorySeqMessage, op.ID))
		return nil
	}
	return &NotFound{Kind: "message", ID: op.ID}
}

// RemoveMessage removes a message and detaches it from any section that
// references it.
type RemoveMessage struct {
	ID string
}

func (op RemoveMessage) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	idx := -1
	for i, m := range ast.Messages {
		if m.ID == op.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFound{Kind: "message", ID: op.ID}
	}
	ast.Messages = append(ast.Messages[:idx], ast.Messages[idx+1:]...)
	removeMessageIDFromSections(ast, op.ID)
	dt.recordRemove(seqRef(diagramID, model.CategorySeqMessage, op.ID))
	return nil
}

func removeMessageIDFromSections(ast *model.SequenceAST, mid string) {
	for bi := range ast.Blocks {
		for si := range ast.Blocks[bi].Sections {
			ids := ast.Blocks[bi].Sections[si].MessageIDs
			out := ids[:0:0]
			for _, id := range ids {
				if id != mid {
					out = append(out, id)
				}
			}
			ast.Blocks[bi].Sections[si].MessageIDs = out
		}
	}
}

// AddBlock creates a new alt/opt/loop/par block. If ParentSectionID is
// non-empty, the block is nested as a child of that section; otherwise it
// becomes a root block.
type AddBlock struct {
	ID              string
	Kind            model.BlockKind
	Header          string
	FirstSectionID  string
	ParentSectionID string
}

func (op AddBlock) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for _, b := range ast.Blocks {
		if b.ID == op.ID {
			return &DuplicateID{Kind: "block", ID: op.ID}
		}
		for _, s := range b.Sections {
			if s.ID == op.FirstSectionID {
				return &DuplicateID{Kind: "section", ID: op.FirstSectionID}
			}
		}
	}
	depth := 1
	if op.ParentSectionID != "" {
		found := false
		for bi := range ast.Blocks {
			for si := range ast.Blocks[bi].Sections {
				if ast.Blocks[bi].Sections[si].ID == op.ParentSectionID {
					ast.Blocks[bi].Sections[si].ChildBlockIDs = append(ast.Blocks[bi].Sections[si].ChildBlockIDs, op.ID)
					found = true
				}
			}
		}
		if !found {
			return &NotFound{Kind: "section", ID: op.ParentSectionID}
		}
		depth = blockDepthOf(ast, op.ParentSectionID) + 1
	}
	if depth > model.MaxBlockNestDepth {
		return &InvalidEndpoint{Detail: "block nesting exceeds maximum depth"}
	}
	ast.Blocks = append(ast.Blocks, model.Block{
		ID: op.ID, Kind: op.Kind, Header: op.Header,
		Sections: []model.Section{{ID: op.FirstSectionID, Kind: model.SectionMain, Header: op.Header}},
	})
	dt.recordAdd(seqRef(diagramID, model.CategorySeqBlock, op.ID))
	dt.recordAdd(seqRef(diagramID, model.CategorySeqSection, op.FirstSectionID))
	return nil
}

func blockDepthOf(ast *model.SequenceAST, sectionID string) int {
	// Walk from roots to find which block owns sectionID and how deep it
	// sits; returns 0 if not found (treated as a root parent).
	var depth int
	var walk func(blockID string, d int) bool
	blockByID := map[string]*model.Block{}
	for i := range ast.Blocks {
		blockByID[ast.Blocks[i].ID] = &ast.Blocks[i]
	}
	walk = func(blockID string, d int) bool {
		b := blockByID[blockID]
		if b == nil {
			return false
		}
		for _, sec := range b.Sections {
			if sec.ID == sectionID {
				depth = d
				return true
			}
			for _, cid := range sec.ChildBlockIDs {
				if walk(cid, d+1) {
					return true
				}
			}
		}
		return false
	}
	childIDs := map[string]bool{}
	for _, b := range ast.Blocks {
		for _, sec := range b.Sections {
			for _, cid := range sec.ChildBlockIDs {
				childIDs[cid] = true
			}
		}
	}
	for _, b := range ast.Blocks {
		if childIDs[b.ID] {
			continue
		}
		if walk(b.ID, 1) {
			return depth
		}
	}
	return 0
}

// RemoveBlock removes a block, recursively removing any nested child
// blocks and detaching it from its parent section's ChildBlockIDs.
type RemoveBlock struct {
	ID string
}

func (op RemoveBlock) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	found := false
	for _, b := range ast.Blocks {
		if b.ID == op.ID {
			found = true
			break
		}
	}
	if !found {
		return &NotFound{Kind: "block", ID: op.ID}
	}
	toRemove := map[string]bool{op.ID: true}
	collectDescendants(ast, op.ID, toRemove)

	for bi := range ast.Blocks {
		for si := range ast.Blocks[bi].Sections {
			ids := ast.Blocks[bi].Sections[si].ChildBlockIDs
			out := ids[:0:0]
			for _, id := range ids {
				if !toRemove[id] {
					out = append(out, id)
				}
			}
			ast.Blocks[bi].Sections[si].ChildBlockIDs = out
		}
	}

	var kept []model.Block
	for _, b := range ast.Blocks {
		if toRemove[b.ID] {
			for _, sec := range b.Sections {
				dt.recordRemove(seqRef(diagramID, model.CategorySeqSection, sec.ID))
			}
			dt.recordRemove(seqRef(diagramID, model.CategorySeqBlock, b.ID))
			continue
		}
		kept = append(kept, b)
	}
	ast.Blocks = kept
	return nil
}

func collectDescendants(ast *model.SequenceAST, blockID string, out map[string]bool) {
	for _, b := range ast.Blocks {
		if b.ID != blockID {
			continue
		}
		for _, sec := range b.Sections {
			for _, cid := range sec.ChildBlockIDs {
				out[cid] = true
				collectDescendants(ast, cid, out)
			}
		}
	}
}

// sectionKindAllowed enforces spec.md §4.1: an else section only attaches to
// an alt block, and only a par block's sections may be and sections.
func sectionKindAllowed(section model.SectionKind, block model.BlockKind) bool {
	switch section {
	case model.SectionElse:
		return block == model.BlockAlt
	case model.SectionAnd:
		return block == model.BlockPar
	default:
		return true
	}
}

// AddSection appends an else/and section to an existing block.
type AddSection struct {
	BlockID string
	ID      string
	Kind    model.SectionKind
	Header  string
}

func (op AddSection) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for bi := range ast.Blocks {
		if ast.Blocks[bi].ID != op.BlockID {
			continue
		}
		if !sectionKindAllowed(op.Kind, ast.Blocks[bi].Kind) {
			return &InvalidSection{BlockKind: ast.Blocks[bi].Kind, SectionKind: op.Kind}
		}
		for _, s := range ast.Blocks[bi].Sections {
			if s.ID == op.ID {
				return &DuplicateID{Kind: "section", ID: op.ID}
			}
		}
		ast.Blocks[bi].Sections = append(ast.Blocks[bi].Sections, model.Section{
			ID: op.ID, Kind: op.Kind, Header: op.Header,
		})
		dt.recordAdd(seqRef(diagramID, model.CategorySeqSection, op.ID))
		return nil
	}
	return &NotFound{Kind: "block", ID: op.BlockID}
}

// RemoveSection removes an else/and section. Removing a block's only
// remaining section is rejected since every block requires one.
type RemoveSection struct {
	ID string
}

func (op RemoveSection) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	for bi := range ast.Blocks {
		for si, s := range ast.Blocks[bi].Sections {
			if s.ID != op.ID {
				continue
			}
			if len(ast.Blocks[bi].Sections) == 1 {
				return &InvalidEndpoint{Detail: "cannot remove a block's only section"}
			}
			ast.Blocks[bi].Sections = append(ast.Blocks[bi].Sections[:si], ast.Blocks[bi].Sections[si+1:]...)
			dt.recordRemove(seqRef(diagramID, model.CategorySeqSection, op.ID))
			return nil
		}
	}
	return &NotFound{Kind: "section", ID: op.ID}
}

// AddMessageToSection attaches an already-existing message to a section's
// body, in addition to its place in the top-level message list.
type AddMessageToSection struct {
	SectionID string
	MessageID string
}

func (op AddMessageToSection) Apply(ast *model.SequenceAST, diagramID string, dt *deltaTracker) error {
	msgFound := false
	for _, m := range ast.Messages {
		if m.ID == op.MessageID {
			msgFound = true
			break
		}
	}
	if !msgFound {
		return &NotFound{Kind: "message", ID: op.MessageID}
	}
	for bi := range ast.Blocks {
		for si := range ast.Blocks[bi].Sections {
			if ast.Blocks[bi].Sections[si].ID != op.SectionID {
				continue
			}
			for _, id := range ast.Blocks[bi].Sections[si].MessageIDs {
				if id == op.MessageID {
					return nil // already attached, idempotent
				}
			}
			ast.Blocks[bi].Sections[si].MessageIDs = append(ast.Blocks[bi].Sections[si].MessageIDs, op.MessageID)
			dt.recordUpdate(seqRef(diagramID, model.CategorySeqSection, op.SectionID))
			return nil
		}
	}
	return &NotFound{Kind: "section", ID: op.SectionID}
}

func containsNewlineOp(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			return true
		}
	}
	return false
}
