package symbolic

import "sort"

// Analyzer answers structural queries over a symbolic program.
type Analyzer struct {
	program *Program
}

// NewAnalyzer wraps a program for querying.
func NewAnalyzer(program *Program) *Analyzer {
	return &Analyzer{program: program}
}

// Subscribers returns every subscription statement in the program.
func (a *Analyzer) Subscribers() []Subscribe {
	var out []Subscribe
	for _, fn := range a.functionsInOrder() {
		for _, stmt := range fn.Body {
			if sub, ok := stmt.(Subscribe); ok {
				out = append(out, sub)
			}
		}
	}
	return out
}

// PublishCalls returns every publish statement in the program.
func (a *Analyzer) PublishCalls() []Publish {
	var out []Publish
	for _, fn := range a.functionsInOrder() {
		for _, stmt := range fn.Body {
			if pub, ok := stmt.(Publish); ok {
				out = append(out, pub)
			}
		}
	}
	return out
}

// RateSleeps returns every rate-limited sleep in the program.
func (a *Analyzer) RateSleeps() []RateSleep {
	var out []RateSleep
	for _, fn := range a.functionsInOrder() {
		for _, stmt := range fn.Body {
			if rs, ok := stmt.(RateSleep); ok {
				out = append(out, rs)
			}
		}
	}
	return out
}

// SubscriberCallbacks returns the functions registered as subscription
// callbacks. Callbacks naming functions absent from the program are
// skipped.
func (a *Analyzer) SubscriberCallbacks() []Function {
	seen := make(map[string]bool)
	var out []Function
	for _, sub := range a.Subscribers() {
		if seen[sub.Callback] {
			continue
		}
		seen[sub.Callback] = true
		if fn, ok := a.program.Functions[sub.Callback]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// PublishCallsInSubscriberCallback returns the publish statements reachable
// from a subscription callback, following plain calls transitively.
func (a *Analyzer) PublishCallsInSubscriberCallback() []Publish {
	reachable := make(map[string]bool)
	var frontier []string
	for _, fn := range a.SubscriberCallbacks() {
		if !reachable[fn.Name] {
			reachable[fn.Name] = true
			frontier = append(frontier, fn.Name)
		}
	}
	for len(frontier) > 0 {
		name := frontier[0]
		frontier = frontier[1:]
		fn, ok := a.program.Functions[name]
		if !ok {
			continue
		}
		for _, stmt := range fn.Body {
			if call, ok := stmt.(Call); ok && !reachable[call.Callee] {
				reachable[call.Callee] = true
				frontier = append(frontier, call.Callee)
			}
		}
	}

	var out []Publish
	for _, fn := range a.functionsInOrder() {
		if !reachable[fn.Name] {
			continue
		}
		for _, stmt := range fn.Body {
			if pub, ok := stmt.(Publish); ok {
				out = append(out, pub)
			}
		}
	}
	return out
}

// functionsInOrder iterates functions sorted by name so query results are
// deterministic.
func (a *Analyzer) functionsInOrder() []Function {
	names := make([]string, 0, len(a.program.Functions))
	for name := range a.program.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Function, 0, len(names))
	for _, name := range names {
		out = append(out, a.program.Functions[name])
	}
	return out
}
