package mermaid

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/julianshen/nereid-core/internal/model"
)

var (
	seqHeaderRe      = regexp.MustCompile(`^sequenceDiagram\s*$`)
	seqParticipantRe = regexp.MustCompile(`^participant\s+([\w.-]+)(?:\s+as\s+(.+))?$`)
	seqMessageRe     = regexp.MustCompile(`^([\w.-]+)\s*(->>|-->>|-\))\s*([\w.-]+)\s*:\s*(.*)$`)
	seqBlockStartRe  = regexp.MustCompile(`^(alt|opt|loop|par)\b\s*(.*)$`)
	seqSectionRe     = regexp.MustCompile(`^(else|and)\b\s*(.*)$`)
	seqEndRe         = regexp.MustCompile(`^end\s*$`)
)

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

func arrowKind(token string, selfCall bool) model.MessageKind {
	switch token {
	case "->>":
		if selfCall {
			return model.MessageSelfSync
		}
		return model.MessageSync
	case "-->>":
		return model.MessageReturn
	case "-)":
		if selfCall {
			return model.MessageSelfAsync
		}
		return model.MessageAsync
	default:
		return model.MessageSync
	}
}

type seqBlockFrame struct {
	block      *model.Block
	curSection int
}

// ParseSequence parses the sequenceDiagram subset described in SPEC_FULL.md
// §4.1: participant declarations, sync/async/return arrows, and alt/opt/
// loop/par blocks with else/and sections, nested up to MaxBlockNestDepth.
func ParseSequence(text string) (*model.SequenceAST, error) {
	ast := model.NewSequenceAST()
	participantIDs := model.NewIDAllocator("p")
	messageIDs := model.NewIDAllocator("m")
	blockIDs := model.NewIDAllocator("b")
	sectionIDs := model.NewIDAllocator("s")

	identToParticipant := map[string]string{} // mermaid ident -> ObjectID
	var lastOrderKey model.OrderKey

	var stack []*seqBlockFrame
	var finishedBlocks []model.Block

	getOrCreateParticipant := func(ident string) string {
		if id, ok := identToParticipant[ident]; ok {
			return id
		}
		id := participantIDs.Next()
		identToParticipant[ident] = id
		ast.Participants = append(ast.Participants, model.Participant{
			ID:           id,
			MermaidIdent: ident,
			DisplayLabel: ident,
		})
		return id
	}

	lineNo := 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	sawHeader := false
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if !sawHeader {
			if !seqHeaderRe.MatchString(line) {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: UnsupportedLine, Detail: "expected sequenceDiagram header"}
			}
			sawHeader = true
			continue
		}

		switch {
		case seqParticipantRe.MatchString(line):
			m := seqParticipantRe.FindStringSubmatch(line)
			ident, alias := m[1], m[2]
			if _, exists := identToParticipant[ident]; exists {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: DuplicateParticipant, Detail: ident}
			}
			id := participantIDs.Next()
			identToParticipant[ident] = id
			label := ident
			if alias != "" {
				label = alias
			}
			ast.Participants = append(ast.Participants, model.Participant{
				ID:           id,
				MermaidIdent: ident,
				DisplayLabel: label,
			})

		case seqMessageRe.MatchString(line):
			m := seqMessageRe.FindStringSubmatch(line)
			fromIdent, token, toIdent, text := m[1], m[2], m[3], m[4]
			if containsNewlineStr(text) {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: UnsupportedLine, Detail: "message text must be single line"}
			}
			fromID := getOrCreateParticipant(fromIdent)
			toID := getOrCreateParticipant(toIdent)
			lastOrderKey = model.OrderKeyBetween(lastOrderKey, "")
			msg := model.Message{
				ID:       messageIDs.Next(),
				FromID:   fromID,
				ToID:     toID,
				Kind:     arrowKind(token, fromIdent == toIdent),
				Text:     text,
				OrderKey: lastOrderKey,
			}
			ast.Messages = append(ast.Messages, msg)
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				sec := &top.block.Sections[top.curSection]
				sec.MessageIDs = append(sec.MessageIDs, msg.ID)
			}

		case seqBlockStartRe.MatchString(line):
			m := seqBlockStartRe.FindStringSubmatch(line)
			kind, header := model.BlockKind(m[1]), m[2]
			if len(stack) >= model.MaxBlockNestDepth {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: BlockOverflow, Detail: "nesting too deep"}
			}
			b := &model.Block{
				ID:     blockIDs.Next(),
				Kind:   kind,
				Header: header,
				Sections: []model.Section{
					{ID: sectionIDs.Next(), Kind: model.SectionMain, Header: header},
				},
			}
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				sec := &top.block.Sections[top.curSection]
				sec.ChildBlockIDs = append(sec.ChildBlockIDs, b.ID)
			}
			stack = append(stack, &seqBlockFrame{block: b, curSection: 0})

		case seqSectionRe.MatchString(line):
			if len(stack) == 0 {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: BlockUnderflow, Detail: "else/and outside a block"}
			}
			m := seqSectionRe.FindStringSubmatch(line)
			kind, header := model.SectionKind(m[1]), m[2]
			top := stack[len(stack)-1]
			if !sectionKindAllowed(kind, top.block.Kind) {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: InvalidSection, Detail: fmt.Sprintf("%s section not allowed in %s block", kind, top.block.Kind)}
			}
			top.block.Sections = append(top.block.Sections, model.Section{
				ID:     sectionIDs.Next(),
				Kind:   kind,
				Header: header,
			})
			top.curSection = len(top.block.Sections) - 1

		case seqEndRe.MatchString(line):
			if len(stack) == 0 {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: BlockUnderflow, Detail: "unmatched end"}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			finishedBlocks = append(finishedBlocks, *top.block)

		default:
			return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: UnsupportedLine}
		}
	}

	if len(stack) > 0 {
		return nil, &ParseError{LineNo: lineNo, Line: "", Kind: BlockUnderflow, Detail: "missing end for open block"}
	}
	ast.Blocks = finishedBlocks

	if err := ast.Validate(); err != nil {
		return nil, &ParseError{LineNo: lineNo, Line: "", Kind: UnsupportedLine, Detail: err.Error()}
	}
	return ast, nil
}

func containsNewlineStr(s string) bool {
	return strings.ContainsAny(s, "\n\r")
}
