package layout

import "github.com/julianshen/nereid-core/internal/model"

// SequenceLayout is the coordinate-only result of laying out a sequence
// diagram: column x-positions for participants, row y-positions for
// messages. No dimensions or drawing data; the renderer owns those.
type SequenceLayout struct {
	Participants map[string]int // ObjectID -> column_x
	Messages     map[string]int // ObjectID -> row_y
}

// Sequence assigns participants to columns in canonical ObjectId order and
// messages to rows in canonical message order. Row spacing leaves odd rows
// free for block-frame drawing; self-messages reserve one extra row.
func Sequence(ast *model.SequenceAST, opts Options) SequenceLayout {
	out := SequenceLayout{
		Participants: map[string]int{},
		Messages:     map[string]int{},
	}
	for i, p := range ast.CanonicalParticipants() {
		out.Participants[p.ID] = i * opts.ColumnWidth
	}

	row := 0
	for _, m := range ast.CanonicalMessages() {
		out.Messages[m.ID] = row
		row += opts.RowSpacing
		if m.FromID == m.ToID {
			row += 1 // self-messages reserve one extra row
		}
	}
	return out
}
