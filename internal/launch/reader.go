package launch

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/rosrecover/internal/params"
	"github.com/vk/rosrecover/internal/sysio"
)

// XMLReader parses roslaunch XML through the injected file collaborator.
//
// The supported surface covers the elements this interpreter needs:
// <launch>, <group ns>, <node> (with nested <param>, <remap>, <rosparam>),
// and root-level <param>/<rosparam>. Anything else is ignored.
type XMLReader struct {
	Files sysio.Files
}

// NewXMLReader returns a reader backed by the given file collaborator.
func NewXMLReader(files sysio.Files) *XMLReader {
	return &XMLReader{Files: files}
}

// element is a generic XML element; decoding into it preserves the document
// order of children, which the interpreter relies on for node load order.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Read parses the launch file at path.
func (r *XMLReader) Read(ctx context.Context, path string) (*Config, error) {
	text, err := r.Files.ReadText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading launch file: %w", err)
	}

	var root element
	if err := xml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if root.XMLName.Local != "launch" {
		return nil, fmt.Errorf("%s: expected <launch> root, found <%s>", path, root.XMLName.Local)
	}

	cfg := &Config{Params: make(map[string]cty.Value)}
	if err := r.walk(&root, "", cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// walk processes the children of a <launch> or <group> element under the
// accumulated namespace path ns (empty or "/"-rooted without a trailing
// slash).
func (r *XMLReader) walk(parent *element, ns string, cfg *Config) error {
	for i := range parent.Children {
		child := &parent.Children[i]
		switch child.XMLName.Local {
		case "group":
			groupNS := ns
			if v, ok := child.attr("ns"); ok {
				groupNS = joinNamespace(ns, v)
			}
			if err := r.walk(child, groupNS, cfg); err != nil {
				return err
			}
		case "param":
			name, value, err := parseParam(child)
			if err != nil {
				return err
			}
			cfg.Params[qualify(ns, name)] = value
		case "rosparam":
			if err := parseRosParam(child, ns, cfg); err != nil {
				return err
			}
		case "node":
			node, err := r.parseNode(child, ns, cfg)
			if err != nil {
				return err
			}
			cfg.Nodes = append(cfg.Nodes, node)
		}
	}
	return nil
}

func (r *XMLReader) parseNode(el *element, ns string, cfg *Config) (Node, error) {
	name, ok := el.attr("name")
	if !ok {
		return Node{}, fmt.Errorf("<node> is missing the name attribute")
	}
	pkg, ok := el.attr("pkg")
	if !ok {
		return Node{}, fmt.Errorf("node %q is missing the pkg attribute", name)
	}
	typ, ok := el.attr("type")
	if !ok {
		return Node{}, fmt.Errorf("node %q is missing the type attribute", name)
	}

	nodeNS := ns
	if v, ok := el.attr("ns"); ok {
		nodeNS = joinNamespace(ns, v)
	}
	if nodeNS == "" {
		nodeNS = "/"
	}
	args, _ := el.attr("args")

	node := Node{
		Name:      name,
		Package:   pkg,
		Type:      typ,
		Namespace: nodeNS,
		Args:      args,
	}

	for i := range el.Children {
		child := &el.Children[i]
		switch child.XMLName.Local {
		case "remap":
			from, ok := child.attr("from")
			if !ok {
				return Node{}, fmt.Errorf("node %q: <remap> is missing the from attribute", name)
			}
			to, ok := child.attr("to")
			if !ok {
				return Node{}, fmt.Errorf("node %q: <remap> is missing the to attribute", name)
			}
			node.Remappings = append(node.Remappings, Remapping{From: from, To: to})
		case "param":
			pname, value, err := parseParam(child)
			if err != nil {
				return Node{}, fmt.Errorf("node %q: %w", name, err)
			}
			cfg.Params[qualifyPrivate(name, pname)] = value
		case "rosparam":
			pname, ok := child.attr("param")
			if !ok {
				return Node{}, fmt.Errorf("node %q: <rosparam> requires the param attribute", name)
			}
			value, err := yamlToCty(child.Text)
			if err != nil {
				return Node{}, fmt.Errorf("node %q: %w", name, err)
			}
			cfg.Params[qualifyPrivate(name, pname)] = value
		}
	}
	return node, nil
}

func parseParam(el *element) (string, cty.Value, error) {
	name, ok := el.attr("name")
	if !ok {
		return "", cty.NilVal, fmt.Errorf("<param> is missing the name attribute")
	}
	raw, ok := el.attr("value")
	if !ok {
		return "", cty.NilVal, fmt.Errorf("param %q is missing the value attribute", name)
	}

	typ, _ := el.attr("type")
	value, err := convertParam(typ, raw)
	if err != nil {
		return "", cty.NilVal, fmt.Errorf("param %q: %w", name, err)
	}
	return name, value, nil
}

// convertParam applies roslaunch's parameter typing: an explicit type
// attribute wins; otherwise the value is auto-detected as bool, int, or
// double, falling back to a string.
func convertParam(typ, raw string) (cty.Value, error) {
	switch typ {
	case "str", "string":
		return cty.StringVal(raw), nil
	case "int":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid int %q", raw)
		}
		return cty.NumberIntVal(n), nil
	case "double":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid double %q", raw)
		}
		return cty.NumberFloatVal(f), nil
	case "bool", "boolean":
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid bool %q", raw)
		}
		return cty.BoolVal(b), nil
	case "yaml":
		return yamlToCty(raw)
	case "":
		// Detection order is int, then double, then bool, and only the
		// words "true"/"false" count as booleans; "1" stays an int and
		// "t" stays a string, matching roslaunch's typing.
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return cty.NumberIntVal(n), nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return cty.NumberFloatVal(f), nil
		}
		switch strings.ToLower(raw) {
		case "true":
			return cty.True, nil
		case "false":
			return cty.False, nil
		}
		return cty.StringVal(raw), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported param type %q", typ)
	}
}

// parseRosParam handles a root- or group-level <rosparam> block. With a
// param attribute the whole YAML document is stored under that name;
// without one the document must be a mapping and every top-level key
// becomes its own parameter.
func parseRosParam(el *element, ns string, cfg *Config) error {
	if pname, ok := el.attr("param"); ok {
		value, err := yamlToCty(el.Text)
		if err != nil {
			return err
		}
		cfg.Params[qualify(ns, pname)] = value
		return nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(el.Text), &doc); err != nil {
		return fmt.Errorf("parsing rosparam block: %w", err)
	}
	for key, raw := range doc {
		value, err := params.FromGo(raw)
		if err != nil {
			return fmt.Errorf("rosparam %q: %w", key, err)
		}
		cfg.Params[qualify(ns, key)] = value
	}
	return nil
}

func yamlToCty(text string) (cty.Value, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return cty.NilVal, fmt.Errorf("parsing YAML value: %w", err)
	}
	return params.FromGo(raw)
}

// joinNamespace appends a group or node ns attribute to the accumulated
// namespace path. An absolute attribute replaces the path.
func joinNamespace(base, ns string) string {
	ns = strings.TrimSuffix(ns, "/")
	if strings.HasPrefix(ns, "/") {
		return ns
	}
	if ns == "" {
		return base
	}
	return base + "/" + ns
}

// qualify produces the fully qualified parameter name for a declaration in
// namespace path ns.
func qualify(ns, name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	name = strings.TrimPrefix(name, "~")
	if ns == "" || ns == "/" {
		return "/" + name
	}
	return ns + "/" + name
}

// qualifyPrivate places a node-level parameter under the node's own name,
// mirroring how the node context resolves private names.
func qualifyPrivate(node, name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	name = strings.TrimPrefix(name, "~")
	return "/" + node + "/" + name
}
