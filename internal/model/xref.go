package model

// XRefStatus records whether an XRef's endpoints currently resolve.
type XRefStatus string

const (
	XRefOk           XRefStatus = "ok"
	XRefDanglingFrom XRefStatus = "dangling_from"
	XRefDanglingTo   XRefStatus = "dangling_to"
	XRefDanglingBoth XRefStatus = "dangling_both"
)

// XRef is a cross-reference between two addressable objects, anywhere in
// the Session, possibly in different diagrams or a walkthrough.
type XRef struct {
	ID     string
	From   ObjectRef
	To     ObjectRef
	Kind   string
	Label  string // optional
	Status XRefStatus
}

// ComputeXRefStatus derives Status from whether each endpoint currently
// resolves (true = resolvable).
func ComputeXRefStatus(fromResolves, toResolves bool) XRefStatus {
	switch {
	case fromResolves && toResolves:
		return XRefOk
	case !fromResolves && !toResolves:
		return XRefDanglingBoth
	case !fromResolves:
		return XRefDanglingFrom
	default:
		return XRefDanglingTo
	}
}
