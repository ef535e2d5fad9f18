package agenttools

import (
	"sort"
	"strings"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
)

// XRefListFilter narrows xref.list to XRefs matching every populated field.
type XRefListFilter struct {
	Status       model.XRefStatus
	Kind         string
	FromRef      *model.ObjectRef
	ToRef        *model.ObjectRef
	InvolvesRef  *model.ObjectRef
	LabelContains string
	Limit        int
}

// XRefList returns every XRef matching filter, in Session insertion order,
// truncated to filter.Limit when positive.
func XRefList(ws *Workspace, filter XRefListFilter) []*model.XRef {
	var out []*model.XRef
	for _, x := range ws.Session.XRefs() {
		if filter.Status != "" && x.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && x.Kind != filter.Kind {
			continue
		}
		if filter.FromRef != nil && x.From != *filter.FromRef {
			continue
		}
		if filter.ToRef != nil && x.To != *filter.ToRef {
			continue
		}
		if filter.InvolvesRef != nil && x.From != *filter.InvolvesRef && x.To != *filter.InvolvesRef {
			continue
		}
		if filter.LabelContains != "" && !strings.Contains(x.Label, filter.LabelContains) {
			continue
		}
		out = append(out, x)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out
}

// XRefDirection selects which endpoint xref.neighbors matches object against.
type XRefDirection string

const (
	XRefFrom XRefDirection = "from"
	XRefTo   XRefDirection = "to"
	XRefAny  XRefDirection = "any"
)

// XRefNeighbors returns every XRef touching ref per direction, sorted by id.
func XRefNeighbors(ws *Workspace, ref model.ObjectRef, direction XRefDirection) []*model.XRef {
	var out []*model.XRef
	for _, x := range ws.Session.XRefs() {
		switch direction {
		case XRefFrom:
			if x.From == ref {
				out = append(out, x)
			}
		case XRefTo:
			if x.To == ref {
				out = append(out, x)
			}
		default:
			if x.From == ref || x.To == ref {
				out = append(out, x)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// XRefAdd appends a new XRef, computing its initial resolution status.
func XRefAdd(ws *Workspace, x *model.XRef) error {
	for _, existing := range ws.Session.XRefs() {
		if existing.ID == x.ID {
			return &opsengine.DuplicateID{Kind: "xref", ID: x.ID}
		}
	}
	ws.Session.AddXRef(x)
	return ws.persistIfEnabled()
}

// XRefRemove deletes the XRef with the given id. No-op if absent.
func XRefRemove(ws *Workspace, id string) error {
	ws.Session.RemoveXRef(id)
	return ws.persistIfEnabled()
}
