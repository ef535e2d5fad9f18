package layout

import (
	"fmt"
	"strings"
)

// Cycle reports that a flowchart contains a cycle, which longest-path
// layering cannot assign a finite layer to.
type Cycle struct {
	Nodes []string
}

func (e *Cycle) Error() string {
	return fmt.Sprintf("cycle detected among nodes: %s", strings.Join(e.Nodes, " -> "))
}

// UnknownNode reports that an edge referenced a node id absent from the AST.
type UnknownNode struct {
	ID string
}

func (e *UnknownNode) Error() string { return fmt.Sprintf("unknown node %q", e.ID) }
