// Package symbolic holds the program representation used by the exploratory
// static-recovery path: a symbolic view of a node's source code, produced by
// an out-of-tree extractor, from which the same kinds of interactions can be
// queried without launching anything.
//
// This path is separate from the launch interpreter and shares no state
// with it.
package symbolic

// String is a symbolic string value: either a known literal or an unknown
// produced by the extractor.
type String struct {
	Literal bool
	Value   string
}

// Unknown returns the marker for a value the extractor could not resolve.
func Unknown() String { return String{} }

// Lit returns a known literal string.
func Lit(v string) String { return String{Literal: true, Value: v} }

func (s String) String() string {
	if s.Literal {
		return s.Value
	}
	return "<unknown>"
}

// Statement is one symbolic statement in a function body. Implementations
// are the ROS API calls the extractor recognizes plus plain function calls,
// which carry the call graph.
type Statement interface {
	stmt()
}

// RosInit records the node's initialization call.
type RosInit struct {
	Name String
}

// Publish records a publish call on a topic.
type Publish struct {
	Topic  String
	Format string
}

// Subscribe records a subscription, including the callback the subscriber
// registered.
type Subscribe struct {
	Topic    String
	Format   string
	Callback string
}

// ServiceProvide records a service server registration.
type ServiceProvide struct {
	Service String
	Format  string
}

// ServiceCall records a service client call.
type ServiceCall struct {
	Service String
	Format  string
}

// ReadParam records a parameter read, with or without a default.
type ReadParam struct {
	Param      String
	HasDefault bool
}

// WriteParam records a parameter write.
type WriteParam struct {
	Param String
}

// RateSleep records a rate-limited sleep, in hertz.
type RateSleep struct {
	Rate float64
}

// Call records a plain call to another function in the program.
type Call struct {
	Callee string
}

func (RosInit) stmt()        {}
func (Publish) stmt()        {}
func (Subscribe) stmt()      {}
func (ServiceProvide) stmt() {}
func (ServiceCall) stmt()    {}
func (ReadParam) stmt()      {}
func (WriteParam) stmt()     {}
func (RateSleep) stmt()      {}
func (Call) stmt()           {}

// Function is one function of the symbolic program.
type Function struct {
	Name string
	Body []Statement
}

// Program is a whole extracted program, keyed by function name.
type Program struct {
	Entry     string
	Functions map[string]Function
}
