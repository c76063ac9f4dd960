package interp

import "fmt"

// DuplicateModelError reports a second registration for a (package, node
// type) key. Registration order is a startup concern, so callers treat this
// as fatal.
type DuplicateModelError struct {
	Package  string
	NodeType string
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("model %q already registered for package %q", e.NodeType, e.Package)
}

// MalformedNodeletArgsError reports a nodelet argument string that matches
// none of the three recognized shapes (manager, standalone, load-into-host).
type MalformedNodeletArgsError struct {
	Node string
	Args string
}

func (e *MalformedNodeletArgsError) Error() string {
	return fmt.Sprintf("nodelet %q: malformed argument string %q", e.Node, e.Args)
}
