package interp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// TopicFormat pairs a fully qualified name with its message or service
// format. It is comparable, so interaction sets carry value semantics.
type TopicFormat struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
}

// ParamRead records one parameter read and whether the node re-reads the
// parameter dynamically (e.g. via reconfigure) rather than once at startup.
type ParamRead struct {
	Name    string `yaml:"name"`
	Dynamic bool   `yaml:"dynamic"`
}

// NodeSummary is the finalized, read-only record of everything a node
// declared during its evaluation. Downstream consumers (the YAML artifact
// and the Acme generator) depend on this exact shape.
type NodeSummary struct {
	Name        string        `yaml:"name"`
	Fullname    string        `yaml:"fullname"`
	Namespace   string        `yaml:"namespace"`
	Kind        string        `yaml:"kind"`
	Package     string        `yaml:"package"`
	Filename    string        `yaml:"filename,omitempty"`
	Nodelet     bool          `yaml:"nodelet,omitempty"`
	Placeholder bool          `yaml:"placeholder,omitempty"`
	Reads       []ParamRead   `yaml:"reads,omitempty"`
	Writes      []string      `yaml:"writes,omitempty"`
	Pubs        []TopicFormat `yaml:"pubs,omitempty"`
	Subs        []TopicFormat `yaml:"subs,omitempty"`
	Provides    []TopicFormat `yaml:"provides,omitempty"`
	Uses        []TopicFormat `yaml:"uses,omitempty"`
	ActServers  []TopicFormat `yaml:"action_servers,omitempty"`
	ActClients  []TopicFormat `yaml:"action_clients,omitempty"`
}

// Fingerprint returns a stable content hash of the summary. Two summaries
// with the same identity and the same declared interactions hash equally, so
// the interpreter's result set collapses repeated identical loads.
func (s NodeSummary) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%s|%t|%t\n",
		s.Name, s.Fullname, s.Namespace, s.Kind, s.Package, s.Filename,
		s.Nodelet, s.Placeholder)
	for _, r := range s.Reads {
		fmt.Fprintf(&b, "read %s %t\n", r.Name, r.Dynamic)
	}
	for _, w := range s.Writes {
		fmt.Fprintf(&b, "write %s\n", w)
	}
	sections := []struct {
		label string
		set   []TopicFormat
	}{
		{"pub", s.Pubs}, {"sub", s.Subs},
		{"provide", s.Provides}, {"use", s.Uses},
		{"actsrv", s.ActServers}, {"actcli", s.ActClients},
	}
	for _, sec := range sections {
		for _, tf := range sec.set {
			fmt.Fprintf(&b, "%s %s %s\n", sec.label, tf.Name, tf.Format)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func sortedTopicFormats(set map[TopicFormat]struct{}) []TopicFormat {
	out := make([]TopicFormat, 0, len(set))
	for tf := range set {
		out = append(out, tf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Format < out[j].Format
	})
	return out
}

func sortedParamReads(set map[ParamRead]struct{}) []ParamRead {
	out := make([]ParamRead, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return !out[i].Dynamic && out[j].Dynamic
	})
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
