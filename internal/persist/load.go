package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/julianshen/nereid-core/internal/mermaid"
	"github.com/julianshen/nereid-core/internal/model"
)

// Load reads a full session from root, reparsing each diagram's canonical
// Mermaid text and reconciling it against its fingerprint sidecar so
// participant, message, node and edge refs resolve again to the same ids.
// Block and section ids are the ones the reparse allocates.
func Load(root string) (*model.Session, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	metaPath, err := safeResolve(root, "nereid-session.meta.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFile{Path: metaPath}
		}
		return nil, err
	}
	var meta sessionMetaFile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, &Parse{Path: metaPath, Err: err}
	}

	if err := checkSchemaCompat(meta.SchemaVersion); err != nil {
		return nil, err
	}

	sess := model.NewSession()
	sess.SessionID = meta.SessionID
	sess.SchemaVersion = meta.SchemaVersion
	sess.ActiveDiagramID = meta.ActiveDiagramID
	sess.ActiveWalkthroughID = meta.ActiveWalkthroughID

	for _, ref := range meta.Diagrams {
		if strings.Contains(ref.MmdPath, "..") || strings.Contains(ref.MetaPath, "..") {
			return nil, &PathEscape{Path: ref.MmdPath}
		}
		d, err := loadDiagram(root, ref)
		if err != nil {
			return nil, err
		}
		if err := sess.AddDiagram(d); err != nil {
			return nil, err
		}
	}

	walkthroughIDs := meta.WalkthroughIDs
	if walkthroughIDs == nil {
		walkthroughIDs, err = scanWalkthroughIDs(root)
		if err != nil {
			return nil, err
		}
	}
	for _, id := range walkthroughIDs {
		w, err := loadWalkthrough(root, id)
		if err != nil {
			return nil, err
		}
		if err := sess.AddWalkthrough(w); err != nil {
			return nil, err
		}
	}

	for _, x := range meta.XRefs {
		from, err := model.ParseObjectRef(x.From)
		if err != nil {
			return nil, &Parse{Path: metaPath, Err: err}
		}
		to, err := model.ParseObjectRef(x.To)
		if err != nil {
			return nil, &Parse{Path: metaPath, Err: err}
		}
		sess.AddXRef(&model.XRef{ID: x.ID, From: from, To: to, Kind: x.Kind, Label: x.Label})
	}
	sess.RecomputeXRefStatuses()

	return sess, nil
}

func checkSchemaCompat(found string) error {
	if found == "" {
		return nil
	}
	foundVer, err := semver.NewVersion(found)
	if err != nil {
		return &SchemaInvalid{Found: found, Want: model.CurrentSchemaVersion}
	}
	wantVer, err := semver.NewVersion(model.CurrentSchemaVersion)
	if err != nil {
		return &SchemaInvalid{Found: found, Want: model.CurrentSchemaVersion}
	}
	if foundVer.Major() != wantVer.Major() {
		return &SchemaInvalid{Found: found, Want: model.CurrentSchemaVersion}
	}
	return nil
}

func loadDiagram(root string, ref diagramMetaRef) (*model.Diagram, error) {
	mmdAbs, err := safeResolve(root, ref.MmdPath)
	if err != nil {
		return nil, err
	}
	mmdData, err := os.ReadFile(mmdAbs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFile{Path: mmdAbs}
		}
		return nil, err
	}

	metaAbs, err := safeResolve(root, ref.MetaPath)
	if err != nil {
		return nil, err
	}
	metaData, err := os.ReadFile(metaAbs)
	hasSidecar := err == nil
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var d *model.Diagram
	switch model.DiagramKind(ref.Kind) {
	case model.KindSequence:
		ast, err := mermaid.ParseSequence(string(mmdData))
		if err != nil {
			return nil, &Parse{Path: mmdAbs, Err: err}
		}
		if hasSidecar {
			var side sequenceSidecar
			if err := json.Unmarshal(metaData, &side); err != nil {
				return nil, &Parse{Path: metaAbs, Err: err}
			}
			reconcileSequence(ast, side)
		}
		d = model.NewSequenceDiagram(ref.DiagramID, ref.Name)
		if err := d.ReplaceSequence(ast); err != nil {
			return nil, err
		}
	case model.KindFlowchart:
		ast, err := mermaid.ParseFlowchart(string(mmdData))
		if err != nil {
			return nil, &Parse{Path: mmdAbs, Err: err}
		}
		if hasSidecar {
			var side flowSidecar
			if err := json.Unmarshal(metaData, &side); err != nil {
				return nil, &Parse{Path: metaAbs, Err: err}
			}
			reconcileFlow(ast, side)
		}
		d = model.NewFlowchartDiagram(ref.DiagramID, ref.Name)
		if err := d.ReplaceFlow(ast); err != nil {
			return nil, err
		}
	default:
		return nil, &Parse{Path: mmdAbs, Err: fmt.Errorf("unknown diagram kind: %s", ref.Kind)}
	}

	if err := d.SetRev(ref.Rev); err != nil {
		return nil, err
	}
	return d, nil
}

func loadWalkthrough(root, id string) (*model.Walkthrough, error) {
	rel := filepath.Join("walkthroughs", stemFor(id)+".wt.json")
	abs, err := safeResolve(root, rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFile{Path: abs}
		}
		return nil, err
	}
	var dto walkthroughFile
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, &Parse{Path: abs, Err: err}
	}

	w := model.NewWalkthrough(dto.ID, dto.Title)
	for _, n := range dto.Nodes {
		refs := make([]model.ObjectRef, 0, len(n.Refs))
		for _, rs := range n.Refs {
			ref, err := model.ParseObjectRef(rs)
			if err != nil {
				return nil, &Parse{Path: abs, Err: err}
			}
			refs = append(refs, ref)
		}
		w.Nodes[n.ID] = &model.WalkthroughNode{
			ID: n.ID, Title: n.Title, BodyMD: n.BodyMD, Refs: refs, Tags: n.Tags, Status: n.Status,
		}
	}
	for _, e := range dto.Edges {
		w.Edges = append(w.Edges, model.WalkthroughEdge{From: e.From, To: e.To, Kind: e.Kind, Label: e.Label})
	}
	if err := w.Validate(); err != nil {
		return nil, &Parse{Path: abs, Err: err}
	}
	return w, nil
}

// scanWalkthroughIDs is the legacy fallback when a session meta file
// predates walkthrough_ids: every *.wt.json file under walkthroughs/ is
// parsed just enough to recover its id.
func scanWalkthroughIDs(root string) ([]string, error) {
	dir := filepath.Join(root, "walkthroughs")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wt.json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var dto walkthroughFile
		if err := json.Unmarshal(data, &dto); err != nil {
			continue
		}
		if dto.ID != "" {
			ids = append(ids, dto.ID)
		}
	}
	return ids, nil
}
