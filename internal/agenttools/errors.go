package agenttools

// Unsupported reports that requested Mermaid text falls outside the
// sequence/flowchart subset this workspace parses (spec.md §7's
// parser-rejection category, surfaced at the tool boundary).
type Unsupported struct {
	Detail string
}

func (e *Unsupported) Error() string { return "unsupported: " + e.Detail }
