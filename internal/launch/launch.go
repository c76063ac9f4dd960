// Package launch defines the parsed form of a roslaunch configuration and a
// reader that produces it from launch XML.
package launch

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Node is one node descriptor from a launch configuration, in file order.
type Node struct {
	Name       string
	Package    string
	Type       string
	Namespace  string
	Args       string
	Remappings []Remapping
}

// Remapping is a raw (old, new) name substitution pair attached to a node.
type Remapping struct {
	From string
	To   string
}

// Config is the parsed content of one launch file: the declared parameters,
// keyed by fully qualified name, and the node descriptors in declaration
// order.
type Config struct {
	Params map[string]cty.Value
	Nodes  []Node
}

// Reader parses a launch file into a Config. The interpreter treats the
// reader as an external collaborator; any preprocessing of the raw file
// happens before this call.
type Reader interface {
	Read(ctx context.Context, path string) (*Config, error)
}
