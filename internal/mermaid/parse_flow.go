package mermaid

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/julianshen/nereid-core/internal/model"
)

var (
	flowHeaderRe = regexp.MustCompile(`^flowchart\s+(TD|LR|RL|BT|TB)\s*$`)
	flowNodeDecl = `([\w.-]+)(?:(\[[^\]]*\])|(\([^)]*\))|(\{[^}]*\}))?`
	flowEdgeRe   = regexp.MustCompile(`^` + flowNodeDecl + `\s*-->\s*(?:\|([^|]*)\|\s*)?` + flowNodeDecl + `\s*$`)
	flowDeclRe   = regexp.MustCompile(`^` + flowNodeDecl + `\s*$`)
)

func shapeOf(rect, round, diamond string) (model.NodeShape, string, bool) {
	switch {
	case rect != "":
		return model.ShapeRect, strings.TrimSuffix(strings.TrimPrefix(rect, "["), "]"), true
	case round != "":
		return model.ShapeRound, strings.TrimSuffix(strings.TrimPrefix(round, "("), ")"), true
	case diamond != "":
		return model.ShapeDiamond, strings.TrimSuffix(strings.TrimPrefix(diamond, "{"), "}"), true
	default:
		return "", "", false
	}
}

// ParseFlowchart parses the flowchart subset described in SPEC_FULL.md §4.1:
// a direction header, node declarations with rect/round/diamond shape
// brackets, and "-->" edges with an optional "|label|" annotation.
func ParseFlowchart(text string) (*model.FlowAST, error) {
	ast := model.NewFlowAST()
	nodeIDs := model.NewIDAllocator("n")
	edgeIDs := model.NewIDAllocator("e")
	identToNode := map[string]string{}

	getOrCreateNode := func(ident, rect, round, diamond string) string {
		shape, label, hasDecl := shapeOf(rect, round, diamond)
		if id, ok := identToNode[ident]; ok {
			return id
		}
		if !hasDecl {
			shape = model.ShapeRect
			label = ident
		}
		id := nodeIDs.Next()
		identToNode[ident] = id
		ast.Nodes = append(ast.Nodes, model.Node{
			ID:        id,
			MermaidID: ident,
			Label:     label,
			Shape:     shape,
		})
		return id
	}

	lineNo := 0
	sawHeader := false
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if !sawHeader {
			if !flowHeaderRe.MatchString(line) {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: UnsupportedLine, Detail: "expected flowchart header"}
			}
			sawHeader = true
			continue
		}

		if m := flowEdgeRe.FindStringSubmatch(line); m != nil {
			fromIdent, fromRect, fromRound, fromDiamond := m[1], m[2], m[3], m[4]
			label := m[5]
			toIdent, toRect, toRound, toDiamond := m[6], m[7], m[8], m[9]
			if containsNewlineStr(label) {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: UnsupportedLine, Detail: "edge label must be single line"}
			}
			fromID := getOrCreateNode(fromIdent, fromRect, fromRound, fromDiamond)
			toID := getOrCreateNode(toIdent, toRect, toRound, toDiamond)
			ast.Edges = append(ast.Edges, model.Edge{
				ID:    edgeIDs.Next(),
				From:  fromID,
				To:    toID,
				Label: label,
			})
			continue
		}

		if m := flowDeclRe.FindStringSubmatch(line); m != nil {
			ident, rect, round, diamond := m[1], m[2], m[3], m[4]
			if _, exists := identToNode[ident]; exists {
				return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: DuplicateNodeID, Detail: ident}
			}
			getOrCreateNode(ident, rect, round, diamond)
			continue
		}

		return nil, &ParseError{LineNo: lineNo, Line: raw, Kind: UnsupportedLine}
	}

	if err := ast.Validate(); err != nil {
		return nil, &ParseError{LineNo: lineNo, Line: "", Kind: UnsupportedLine, Detail: err.Error()}
	}
	return ast, nil
}
