package interp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rosrecover/internal/params"
	"github.com/vk/rosrecover/internal/sysio"
)

// Remapping is one raw (old, new) name substitution pair as it appears in a
// launch file, before qualification.
type Remapping struct {
	From string
	To   string
}

// NodeContext is the single-use effect surface handed to a behavior model.
// It resolves and remaps every name a model declares and accumulates the
// declared interactions until Summarize seals them.
//
// A context belongs to exactly one node load. Calling any effect method
// after Summarize is a programmer error and panics.
type NodeContext struct {
	ctx       context.Context
	name      string
	namespace string
	kind      string
	pkg       string
	args      string
	filename  string

	params *params.Store
	files  sysio.Files
	logger *slog.Logger

	remappings map[string]string

	nodelet     bool
	placeholder bool
	finalized   bool

	pubs       map[TopicFormat]struct{}
	subs       map[TopicFormat]struct{}
	provides   map[TopicFormat]struct{}
	uses       map[TopicFormat]struct{}
	actServers map[TopicFormat]struct{}
	actClients map[TopicFormat]struct{}
	reads      map[ParamRead]struct{}
	writes     map[string]struct{}
}

// NodeContextArgs bundles the construction inputs for a NodeContext.
type NodeContextArgs struct {
	Ctx        context.Context
	Name       string
	Namespace  string
	Kind       string
	Package    string
	Args       string
	Filename   string
	Remappings []Remapping
	Params     *params.Store
	Files      sysio.Files
	Logger     *slog.Logger
}

// NewNodeContext constructs a context for one node load. Every raw remapping
// pair is resolved to fully qualified form on both sides up front, so effect
// calls only ever consult a qualified-to-qualified table.
func NewNodeContext(a NodeContextArgs) *NodeContext {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := a.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	c := &NodeContext{
		ctx:        ctx,
		name:       a.Name,
		namespace:  a.Namespace,
		kind:       a.Kind,
		pkg:        a.Package,
		args:       a.Args,
		filename:   a.Filename,
		params:     a.Params,
		files:      a.Files,
		logger:     logger,
		remappings: make(map[string]string, len(a.Remappings)),
		pubs:       make(map[TopicFormat]struct{}),
		subs:       make(map[TopicFormat]struct{}),
		provides:   make(map[TopicFormat]struct{}),
		uses:       make(map[TopicFormat]struct{}),
		actServers: make(map[TopicFormat]struct{}),
		actClients: make(map[TopicFormat]struct{}),
		reads:      make(map[ParamRead]struct{}),
		writes:     make(map[string]struct{}),
	}
	for _, rm := range a.Remappings {
		c.remappings[c.Resolve(rm.From)] = c.Resolve(rm.To)
	}
	return c
}

// Name returns the node's unqualified name.
func (c *NodeContext) Name() string { return c.name }

// Args returns the raw argument string the node was launched with.
func (c *NodeContext) Args() string { return c.args }

// Fullname returns the node's namespace-qualified name.
func (c *NodeContext) Fullname() string {
	ns := c.namespace
	if !strings.HasSuffix(ns, "/") {
		ns += "/"
	}
	return ns + c.name
}

// Resolve returns the fully qualified form of a name within this node.
//
// A "/"-rooted name is already qualified. A "~"-prefixed private name is
// qualified under the node's own name. Anything else is qualified under the
// root; the node's namespace argument is intentionally not incorporated,
// matching the observed roslaunch handling this interpreter reproduces.
func (c *NodeContext) Resolve(name string) string {
	switch {
	case strings.HasPrefix(name, "/"):
		return name
	case strings.HasPrefix(name, "~"):
		return "/" + c.name + "/" + strings.TrimPrefix(name, "~")
	default:
		return "/" + name
	}
}

func (c *NodeContext) remap(name string) string {
	if to, ok := c.remappings[name]; ok {
		c.logger.Info("applying remapping", "from", name, "to", to)
		return to
	}
	return name
}

func (c *NodeContext) resolveAndRemap(name string) string {
	return c.remap(c.Resolve(name))
}

func (c *NodeContext) mustBeLive() {
	if c.finalized {
		panic("interp: effect declared on a finalized node context")
	}
}

// Pub declares that the node publishes to a topic.
func (c *NodeContext) Pub(topic, format string) {
	c.mustBeLive()
	full := c.resolveAndRemap(topic)
	c.logger.Debug("node publishes to topic",
		"node", c.name, "topic", full, "format", format)
	c.pubs[TopicFormat{Name: full, Format: format}] = struct{}{}
}

// Sub declares that the node subscribes to a topic.
func (c *NodeContext) Sub(topic, format string) {
	c.mustBeLive()
	full := c.resolveAndRemap(topic)
	c.logger.Debug("node subscribes to topic",
		"node", c.name, "topic", full, "format", format)
	c.subs[TopicFormat{Name: full, Format: format}] = struct{}{}
}

// ProvideService declares that the node provides a service.
func (c *NodeContext) ProvideService(service, format string) {
	c.mustBeLive()
	full := c.resolveAndRemap(service)
	c.logger.Debug("node provides service",
		"node", c.name, "service", full, "format", format)
	c.provides[TopicFormat{Name: full, Format: format}] = struct{}{}
}

// UseService declares that the node calls a service.
func (c *NodeContext) UseService(service, format string) {
	c.mustBeLive()
	full := c.resolveAndRemap(service)
	c.logger.Debug("node uses service",
		"node", c.name, "service", full, "format", format)
	c.uses[TopicFormat{Name: full, Format: format}] = struct{}{}
}

// ReadParam records a parameter read and returns the current stored value,
// or def when the parameter is absent. dynamic marks parameters the node
// re-reads at runtime rather than once during startup.
func (c *NodeContext) ReadParam(name string, def cty.Value, dynamic bool) cty.Value {
	c.mustBeLive()
	full := c.Resolve(name)
	c.logger.Debug("node reads parameter", "node", c.name, "param", full)
	c.reads[ParamRead{Name: full, Dynamic: dynamic}] = struct{}{}
	return c.params.Get(full, def)
}

// WriteParam records a parameter write and stores the value.
func (c *NodeContext) WriteParam(name string, val cty.Value) {
	c.mustBeLive()
	full := c.Resolve(name)
	c.logger.Debug("node writes parameter", "node", c.name, "param", full)
	c.writes[full] = struct{}{}
	c.params.Set(full, val)
}

// ReadFile reads a text file through the injected filesystem collaborator.
// It is a pass-through for models that inspect companion files (maps, URDF
// descriptions) and is not itself a recorded interaction.
func (c *NodeContext) ReadFile(path string) (string, error) {
	return c.files.ReadText(c.ctx, path)
}

// ProvideAction declares an action server under ns and expands it into the
// conventional five-topic protocol: the server subscribes to goal and cancel
// and publishes status, feedback, and result.
func (c *NodeContext) ProvideAction(ns, format string) {
	c.mustBeLive()
	full := c.Resolve(ns)
	c.logger.Debug("node provides action server",
		"node", c.name, "ns", full, "format", format)
	c.actServers[TopicFormat{Name: full, Format: format}] = struct{}{}

	c.Sub(full+"/goal", format+"Goal")
	c.Sub(full+"/cancel", "actionlib_msgs/GoalID")
	c.Pub(full+"/status", "actionlib_msgs/GoalStatusArray")
	c.Pub(full+"/feedback", format+"Feedback")
	c.Pub(full+"/result", format+"Result")
}

// UseAction declares an action client against the server at ns. The topic
// expansion mirrors ProvideAction with every direction inverted.
func (c *NodeContext) UseAction(ns, format string) {
	c.mustBeLive()
	full := c.Resolve(ns)
	c.logger.Debug("node uses action server",
		"node", c.name, "ns", full, "format", format)
	c.actClients[TopicFormat{Name: full, Format: format}] = struct{}{}

	c.Pub(full+"/goal", format+"Goal")
	c.Pub(full+"/cancel", "actionlib_msgs/GoalID")
	c.Sub(full+"/status", "actionlib_msgs/GoalStatusArray")
	c.Sub(full+"/feedback", format+"Feedback")
	c.Sub(full+"/result", format+"Result")
}

// MarkNodelet flags the node as a grouped sub-component.
func (c *NodeContext) MarkNodelet() { c.nodelet = true }

// MarkPlaceholder flags the summary as produced by a placeholder behavior.
func (c *NodeContext) MarkPlaceholder() { c.placeholder = true }

// Summarize seals the context and returns the immutable summary of every
// declared interaction. It must be called exactly once.
func (c *NodeContext) Summarize() NodeSummary {
	if c.finalized {
		panic("interp: node context summarized twice")
	}
	c.finalized = true
	return NodeSummary{
		Name:        c.name,
		Fullname:    c.Fullname(),
		Namespace:   c.namespace,
		Kind:        c.kind,
		Package:     c.pkg,
		Filename:    c.filename,
		Nodelet:     c.nodelet,
		Placeholder: c.placeholder,
		Reads:       sortedParamReads(c.reads),
		Writes:      sortedStrings(c.writes),
		Pubs:        sortedTopicFormats(c.pubs),
		Subs:        sortedTopicFormats(c.subs),
		Provides:    sortedTopicFormats(c.provides),
		Uses:        sortedTopicFormats(c.uses),
		ActServers:  sortedTopicFormats(c.actServers),
		ActClients:  sortedTopicFormats(c.actClients),
	}
}
