package persist

// sessionMetaFile is the shape of nereid-session.meta.json.
type sessionMetaFile struct {
	SessionID           string            `json:"session_id"`
	SchemaVersion        string            `json:"schema_version"`
	Diagrams             []diagramMetaRef  `json:"diagrams"`
	ActiveDiagramID      string            `json:"active_diagram_id,omitempty"`
	ActiveWalkthroughID  string            `json:"active_walkthrough_id,omitempty"`
	WalkthroughIDs       []string          `json:"walkthrough_ids,omitempty"`
	XRefs                []xrefDTO         `json:"xrefs"`
}

type diagramMetaRef struct {
	DiagramID string `json:"diagram_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	MmdPath   string `json:"mmd_path"`
	MetaPath  string `json:"meta_path"`
	Rev       uint64 `json:"rev"`
}

type xrefDTO struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Kind   string `json:"kind"`
	Label  string `json:"label,omitempty"`
	Status string `json:"status"`
}

// sequenceSidecar is the per-diagram <stem>.meta.json shape for a sequence
// diagram: stable ids for objects the Mermaid grammar cannot faithfully
// round-trip on its own.
type sequenceSidecar struct {
	Kind               string                    `json:"kind"`
	ParticipantsByName map[string]string         `json:"participants_by_name"`
	ParticipantNotes   map[string]string         `json:"participant_notes,omitempty"`
	ParticipantRoles   map[string]string         `json:"participant_roles,omitempty"`
	Messages           []messageFingerprintEntry `json:"messages"`
}

type messageFingerprintEntry struct {
	FromIdent string `json:"from_ident"`
	ToIdent   string `json:"to_ident"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	MessageID string `json:"message_id"`
}

// flowSidecar is the per-diagram <stem>.meta.json shape for a flowchart.
type flowSidecar struct {
	Kind            string                 `json:"kind"`
	NodesByMermaid  map[string]string      `json:"nodes_by_mermaid_id"`
	NodeNotes       map[string]string      `json:"node_notes,omitempty"`
	Edges           []edgeFingerprintEntry `json:"edges"`
}

type edgeFingerprintEntry struct {
	FromMermaidID string `json:"from_mermaid_id"`
	ToMermaidID   string `json:"to_mermaid_id"`
	Label         string `json:"label"`
	EdgeID        string `json:"edge_id"`
	Style         string `json:"style,omitempty"`
}

// walkthroughFile is the shape of <stem>.wt.json.
type walkthroughFile struct {
	ID    string               `json:"id"`
	Title string               `json:"title"`
	Nodes []walkthroughNodeDTO `json:"nodes"`
	Edges []walkthroughEdgeDTO `json:"edges"`
}

type walkthroughNodeDTO struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	BodyMD string   `json:"body_md,omitempty"`
	Refs   []string `json:"refs,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Status string   `json:"status,omitempty"`
}

type walkthroughEdgeDTO struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
}
