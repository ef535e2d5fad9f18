package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/julianshen/nereid-core/internal/mermaid"
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/render"
)

// Save writes a full session under root: canonical Mermaid text plus a
// Unicode render and fingerprint sidecar per diagram, a JSON file per
// walkthrough, and the session meta file last. Every write is atomic;
// paths are validated to stay within root before anything touches disk.
func Save(sess *model.Session, root string, durable bool) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	meta := sessionMetaFile{
		SessionID:           sess.SessionID,
		SchemaVersion:       sess.SchemaVersion,
		ActiveDiagramID:     sess.ActiveDiagramID,
		ActiveWalkthroughID: sess.ActiveWalkthroughID,
		WalkthroughIDs:      sess.WalkthroughIDs(),
	}

	for _, id := range sess.DiagramIDs() {
		d := sess.Diagram(id)
		ref, err := saveDiagram(root, d, durable)
		if err != nil {
			return err
		}
		meta.Diagrams = append(meta.Diagrams, ref)
	}

	for _, id := range sess.WalkthroughIDs() {
		w := sess.Walkthrough(id)
		if err := saveWalkthrough(root, w, durable); err != nil {
			return err
		}
	}
	if err := gcWalkthroughs(root, sess.WalkthroughIDs()); err != nil {
		return err
	}

	for _, x := range sess.XRefs() {
		meta.XRefs = append(meta.XRefs, xrefDTO{
			ID: x.ID, From: x.From.Format(), To: x.To.Format(),
			Kind: x.Kind, Label: x.Label, Status: string(x.Status),
		})
	}
	if meta.XRefs == nil {
		meta.XRefs = []xrefDTO{}
	}

	metaPath, err := safeResolve(root, "nereid-session.meta.json")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(metaPath, data, durable)
}

func saveDiagram(root string, d *model.Diagram, durable bool) (diagramMetaRef, error) {
	stem := stemFor(d.DiagramID)
	mmdRel := filepath.Join("diagrams", stem+".mmd")
	textRel := filepath.Join("diagrams", stem+".text.txt")
	metaRel := filepath.Join("diagrams", stem+".meta.json")

	var mmdText, asciiText string
	var sidecar any

	switch d.Kind {
	case model.KindSequence:
		seq := d.Sequence()
		text, err := mermaid.ExportSequence(seq)
		if err != nil {
			return diagramMetaRef{}, err
		}
		mmdText = text
		canvas, _, err := render.Sequence(d.DiagramID, seq, render.DefaultOptions())
		if err != nil {
			return diagramMetaRef{}, err
		}
		asciiText = canvas.String()
		sidecar = buildSequenceSidecar(seq)
	case model.KindFlowchart:
		flow := d.Flow()
		text, err := mermaid.ExportFlowchart(flow)
		if err != nil {
			return diagramMetaRef{}, err
		}
		mmdText = text
		canvas, _, err := render.Flowchart(d.DiagramID, flow, render.DefaultOptions())
		if err != nil {
			return diagramMetaRef{}, err
		}
		asciiText = canvas.String()
		sidecar = buildFlowSidecar(flow)
	}

	mmdAbs, err := safeResolve(root, mmdRel)
	if err != nil {
		return diagramMetaRef{}, err
	}
	if err := atomicWriteFile(mmdAbs, []byte(mmdText), durable); err != nil {
		return diagramMetaRef{}, err
	}

	textAbs, err := safeResolve(root, textRel)
	if err != nil {
		return diagramMetaRef{}, err
	}
	if err := atomicWriteFile(textAbs, []byte(asciiText), durable); err != nil {
		return diagramMetaRef{}, err
	}

	metaAbs, err := safeResolve(root, metaRel)
	if err != nil {
		return diagramMetaRef{}, err
	}
	sidecarData, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return diagramMetaRef{}, err
	}
	if err := atomicWriteFile(metaAbs, sidecarData, durable); err != nil {
		return diagramMetaRef{}, err
	}

	return diagramMetaRef{
		DiagramID: d.DiagramID, Name: d.Name, Kind: string(d.Kind),
		MmdPath: mmdRel, MetaPath: metaRel, Rev: d.Rev(),
	}, nil
}

func saveWalkthrough(root string, w *model.Walkthrough, durable bool) error {
	stem := stemFor(w.ID)
	jsonRel := filepath.Join("walkthroughs", stem+".wt.json")
	textRel := filepath.Join("walkthroughs", stem+".text.txt")

	dto := walkthroughFile{ID: w.ID, Title: w.Title}
	ids := make([]string, 0, len(w.Nodes))
	for id := range w.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		n := w.Nodes[id]
		refs := make([]string, 0, len(n.Refs))
		for _, r := range n.Refs {
			refs = append(refs, r.Format())
		}
		dto.Nodes = append(dto.Nodes, walkthroughNodeDTO{
			ID: n.ID, Title: n.Title, BodyMD: n.BodyMD, Refs: refs, Tags: n.Tags, Status: n.Status,
		})
	}
	for _, e := range w.Edges {
		dto.Edges = append(dto.Edges, walkthroughEdgeDTO{From: e.From, To: e.To, Kind: e.Kind, Label: e.Label})
	}

	jsonAbs, err := safeResolve(root, jsonRel)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return err
	}
	if err := atomicWriteFile(jsonAbs, data, durable); err != nil {
		return err
	}

	canvas, _, err := render.Walkthrough(w)
	if err != nil {
		return err
	}
	textAbs, err := safeResolve(root, textRel)
	if err != nil {
		return err
	}
	return atomicWriteFile(textAbs, []byte(canvas.String()), durable)
}

// gcWalkthroughs removes walkthrough files under root whose stem does not
// correspond to any id in keepIDs.
func gcWalkthroughs(root string, keepIDs []string) error {
	dir := filepath.Join(root, "walkthroughs")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	keep := map[string]bool{}
	for _, id := range keepIDs {
		keep[stemFor(id)] = true
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := walkthroughStemOf(entry.Name())
		if stem == "" || keep[stem] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func walkthroughStemOf(name string) string {
	for _, suffix := range []string{".wt.json", ".text.txt"} {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return ""
}
