// Package interp is the core of the launch simulation: the model registry,
// the per-node effect-recording context, and the interpreter that drives one
// simulation session against a launch configuration.
package interp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/rosrecover/internal/ctxlog"
	"github.com/vk/rosrecover/internal/launch"
	"github.com/vk/rosrecover/internal/params"
	"github.com/vk/rosrecover/internal/sysio"
)

// nodeletType is the reserved node type marking a grouped sub-component
// ("nodelet"); its argument string selects one of three load shapes.
const nodeletType = "nodelet"

// xacroWorkaround rewrites a substitution-arg pattern that trips the
// roslaunch tool chain: $(find xacro)/xacro resolves to the wrong path when
// invoked without the .py suffix. The rewrite runs unconditionally before
// the file reaches the reader; it is part of the reader contract.
// See https://answers.ros.org/question/299232/
// Single quotes keep the shell from treating $(find xacro) as a command
// substitution; the pattern must reach sed verbatim.
const xacroWorkaround = `sed -i 's#$(find xacro)/xacro #$(find xacro)/xacro.py #g' %s`

// Interpreter simulates the architectural effects of launching a set of
// launch files, one session per instance. A session owns its parameter
// store and its summary set; the model registry is shared, read-only state.
type Interpreter struct {
	registry *Registry
	reader   launch.Reader
	files    sysio.Files
	shell    sysio.Shell
	params   *params.Store
	nodes    map[string]NodeSummary
}

// New constructs a fresh interpreter session.
func New(registry *Registry, reader launch.Reader, files sysio.Files, shell sysio.Shell) *Interpreter {
	return &Interpreter{
		registry: registry,
		reader:   reader,
		files:    files,
		shell:    shell,
		params:   params.New(),
		nodes:    make(map[string]NodeSummary),
	}
}

// Params exposes the session's simulated parameter server.
func (in *Interpreter) Params() *params.Store { return in.params }

// Nodes returns the accumulated node summaries. Identical summaries from
// repeated loads collapse to a single entry.
func (in *Interpreter) Nodes() []NodeSummary {
	out := make([]NodeSummary, 0, len(in.nodes))
	for _, s := range in.nodes {
		out = append(out, s)
	}
	sortSummaries(out)
	return out
}

// Launch simulates the effects of launching the given file. Parameters are
// seeded into the session store as declared; nodes are loaded in file
// order, and the first node failure aborts the remainder of the call.
func (in *Interpreter) Launch(ctx context.Context, filename string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("simulating launch", "file", filename)

	if _, err := in.shell.RunAndCapture(ctx, fmt.Sprintf(xacroWorkaround, filename)); err != nil {
		return fmt.Errorf("preprocessing %s: %w", filename, err)
	}

	config, err := in.reader.Read(ctx, filename)
	if err != nil {
		return err
	}

	for key, value := range config.Params {
		in.params.Set(key, value)
	}

	for _, node := range config.Nodes {
		logger.Debug("launching node", "node", node.Name)
		remappings := make([]Remapping, 0, len(node.Remappings))
		for _, rm := range node.Remappings {
			remappings = append(remappings, Remapping{From: rm.From, To: rm.To})
		}
		err := in.Load(ctx, LoadArgs{
			Package:    node.Package,
			NodeType:   node.Type,
			Name:       node.Name,
			Namespace:  node.Namespace,
			Remappings: remappings,
			Args:       node.Args,
			Filename:   filename,
		})
		if err != nil {
			logger.Error("failed to launch node", "node", node.Name, "error", err)
			return err
		}
	}
	return nil
}

// LoadArgs bundles the descriptor for one node load.
type LoadArgs struct {
	Package    string
	NodeType   string
	Name       string
	Namespace  string
	Remappings []Remapping
	Args       string
	Filename   string
	nodelet    bool
}

// Load simulates loading a single node. The reserved nodelet type branches
// on the argument string; ordinary nodes look up a behavior model, evaluate
// it against a fresh context, and record the finalized summary.
func (in *Interpreter) Load(ctx context.Context, args LoadArgs) error {
	logger := ctxlog.FromContext(ctx)
	trimmed := strings.TrimSpace(args.Args)

	if args.NodeType == nodeletType {
		switch {
		case trimmed == "manager":
			in.registerNodeletManager(ctx, args.Name)
			return nil
		case strings.HasPrefix(trimmed, "standalone "):
			pkgAndType := strings.TrimPrefix(trimmed, "standalone ")
			pkg, nodeType, ok := strings.Cut(pkgAndType, "/")
			if !ok {
				return &MalformedNodeletArgsError{Node: args.Name, Args: args.Args}
			}
			return in.loadNodelet(ctx, args, pkg, nodeType, "")
		default:
			fields := strings.Split(trimmed, " ")
			if len(fields) != 3 {
				return &MalformedNodeletArgsError{Node: args.Name, Args: args.Args}
			}
			pkg, nodeType, ok := strings.Cut(fields[1], "/")
			if !ok {
				return &MalformedNodeletArgsError{Node: args.Name, Args: args.Args}
			}
			return in.loadNodelet(ctx, args, pkg, nodeType, fields[2])
		}
	}

	if len(args.Remappings) > 0 {
		logger.Info("using remappings", "node", args.Name, "remappings", args.Remappings)
	}

	model := in.registry.Find(args.Package, args.NodeType)

	c := NewNodeContext(NodeContextArgs{
		Ctx:        ctx,
		Name:       args.Name,
		Namespace:  args.Namespace,
		Kind:       args.NodeType,
		Package:    args.Package,
		Args:       trimmed,
		Filename:   args.Filename,
		Remappings: args.Remappings,
		Params:     in.params,
		Files:      in.files,
		Logger:     logger,
	})
	if args.nodelet {
		c.MarkNodelet()
	}
	model.Eval(c)

	summary := c.Summarize()
	in.nodes[summary.Fingerprint()] = summary
	return nil
}

// registerNodeletManager records that a host process for grouped
// sub-components was declared. Purely observational: no model lookup runs
// and no summary is emitted, and later loads naming this host are not
// checked against it.
func (in *Interpreter) registerNodeletManager(ctx context.Context, name string) {
	ctxlog.FromContext(ctx).Info("launched nodelet manager", "name", name)
}

// loadNodelet loads a grouped sub-component. manager is empty for the
// standalone shape. Grouping never alters the recovered communication
// graph; it only sets the nodelet flag on the resulting summary.
func (in *Interpreter) loadNodelet(ctx context.Context, args LoadArgs, pkg, nodeType, manager string) error {
	logger := ctxlog.FromContext(ctx)
	if manager != "" {
		logger.Info("launching nodelet inside manager",
			"node", args.Name, "manager", manager)
	} else {
		logger.Info("launching standalone nodelet", "node", args.Name)
	}
	return in.Load(ctx, LoadArgs{
		Package:    pkg,
		NodeType:   nodeType,
		Name:       args.Name,
		Namespace:  args.Namespace,
		Remappings: args.Remappings,
		Args:       "",
		Filename:   args.Filename,
		nodelet:    true,
	})
}

func sortSummaries(nodes []NodeSummary) {
	sortFunc := func(i, j int) bool {
		if nodes[i].Fullname != nodes[j].Fullname {
			return nodes[i].Fullname < nodes[j].Fullname
		}
		return nodes[i].Fingerprint() < nodes[j].Fingerprint()
	}
	sort.Slice(nodes, sortFunc)
}
