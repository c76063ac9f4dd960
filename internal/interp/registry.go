package interp

import (
	"log/slog"
)

// Behavior models the architectural effects of one node type. It interacts
// with the outside world solely through the NodeContext effect API.
type Behavior func(c *NodeContext)

// Model pairs a (package, node type) key with its behavior. Models are
// immutable after construction.
type Model struct {
	pkg         string
	nodeType    string
	placeholder bool
	behavior    Behavior
}

// NewModel builds a model value for the given key and behavior.
func NewModel(pkg, nodeType string, behavior Behavior) Model {
	return Model{pkg: pkg, nodeType: nodeType, behavior: behavior}
}

// Package returns the package half of the model's key.
func (m Model) Package() string { return m.pkg }

// NodeType returns the node-type half of the model's key.
func (m Model) NodeType() string { return m.nodeType }

// Placeholder reports whether this model was synthesized for an
// uninstrumented node type.
func (m Model) Placeholder() bool { return m.placeholder }

// Eval runs the model's behavior against a node context.
func (m Model) Eval(c *NodeContext) {
	if m.placeholder {
		c.MarkPlaceholder()
	}
	m.behavior(c)
}

type modelKey struct {
	pkg      string
	nodeType string
}

// Registry maps (package, node type) keys to behavior models.
//
// A registry is populated once during startup and is read-only for the rest
// of the process; under that discipline any number of interpreter sessions
// may share it concurrently without locking.
type Registry struct {
	models map[modelKey]Model
	logger *slog.Logger
}

// NewRegistry returns an empty model registry logging through logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{models: make(map[modelKey]Model), logger: logger}
}

// Register inserts a behavior under the (pkg, nodeType) key. Registering the
// same key twice fails with DuplicateModelError and leaves the original
// registration untouched.
func (r *Registry) Register(pkg, nodeType string, behavior Behavior) error {
	key := modelKey{pkg: pkg, nodeType: nodeType}
	if _, exists := r.models[key]; exists {
		return &DuplicateModelError{Package: pkg, NodeType: nodeType}
	}
	r.models[key] = NewModel(pkg, nodeType, behavior)
	r.logger.Debug("registered model", "package", pkg, "type", nodeType)
	return nil
}

// MustRegister is Register for startup wiring, where a duplicate key is a
// programmer error.
func (r *Registry) MustRegister(pkg, nodeType string, behavior Behavior) {
	if err := r.Register(pkg, nodeType, behavior); err != nil {
		panic(err)
	}
}

// Len returns the number of registered models.
func (r *Registry) Len() int { return len(r.models) }

// Find returns the model registered for (pkg, nodeType). When no model is
// registered it logs a warning and returns a fresh placeholder model
// carrying the queried key, so the interpreter can still emit a best-effort
// summary for uninstrumented node types. The placeholder is constructed per
// lookup; no shared instance is ever mutated.
func (r *Registry) Find(pkg, nodeType string) Model {
	if m, ok := r.models[modelKey{pkg: pkg, nodeType: nodeType}]; ok {
		return m
	}
	r.logger.Warn("no model registered for node type",
		"package", pkg, "type", nodeType)
	return newPlaceholder(pkg, nodeType)
}

// newPlaceholder synthesizes a stand-in model for an uninstrumented node
// type. Its behavior declares nothing; the summary carries the placeholder
// flag for downstream attribution.
func newPlaceholder(pkg, nodeType string) Model {
	return Model{
		pkg:         pkg,
		nodeType:    nodeType,
		placeholder: true,
		behavior:    func(*NodeContext) {},
	}
}
