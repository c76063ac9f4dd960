package manifest

import "github.com/zclconf/go-cty/cty"

// File represents the top-level structure of one model manifest: any number
// of model blocks, each keyed by package and node-type labels.
type File struct {
	Models []*ModelBlock `hcl:"model,block"`
}

// ModelBlock declares the interactions of one node type. Every block maps
// one-to-one onto a node context effect call.
type ModelBlock struct {
	Package     string `hcl:"package,label"`
	Type        string `hcl:"type,label"`
	Description string `hcl:"description,optional"`

	Pubs          []*TopicBlock   `hcl:"pub,block"`
	Subs          []*TopicBlock   `hcl:"sub,block"`
	Provides      []*ServiceBlock `hcl:"provide,block"`
	Uses          []*ServiceBlock `hcl:"use,block"`
	Reads         []*ReadBlock    `hcl:"read,block"`
	Writes        []*WriteBlock   `hcl:"write,block"`
	ActionServers []*ActionBlock  `hcl:"action_server,block"`
	ActionClients []*ActionBlock  `hcl:"action_client,block"`
}

// TopicBlock declares a publication or subscription.
type TopicBlock struct {
	Topic  string `hcl:"topic"`
	Format string `hcl:"format"`
}

// ServiceBlock declares a provided or used service.
type ServiceBlock struct {
	Service string `hcl:"service"`
	Format  string `hcl:"format"`
}

// ReadBlock declares a parameter read; dynamic marks parameters the node
// re-reads at runtime (e.g. via reconfigure).
type ReadBlock struct {
	Param   string     `hcl:"param"`
	Default *cty.Value `hcl:"default,optional"`
	Dynamic bool       `hcl:"dynamic,optional"`
}

// WriteBlock declares a parameter write.
type WriteBlock struct {
	Param string    `hcl:"param"`
	Value cty.Value `hcl:"value"`
}

// ActionBlock declares an action server or client rooted at a namespace.
type ActionBlock struct {
	Namespace string `hcl:"ns"`
	Format    string `hcl:"format"`
}
