// Package scenario reads the YAML file describing which launch files to
// simulate and where the recovered architecture should be written.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Launch names one launch file and the roslaunch-style arguments passed to
// it.
type Launch struct {
	Filename  string            `yaml:"filename"`
	Arguments map[string]string `yaml:"arguments,omitempty"`
}

// Argv renders the arguments in roslaunch key:=value form, sorted by key.
func (l Launch) Argv() []string {
	keys := make([]string, 0, len(l.Arguments))
	for k := range l.Arguments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	argv := make([]string, 0, len(keys))
	for _, k := range keys {
		argv = append(argv, fmt.Sprintf("%s:=%s", k, l.Arguments[k]))
	}
	return argv
}

// Output names the artifacts one run produces. Empty fields disable the
// corresponding artifact.
type Output struct {
	Architecture string `yaml:"architecture,omitempty"`
	Acme         string `yaml:"acme,omitempty"`
}

// Scenario is the root of the scenario file.
type Scenario struct {
	Launches   []Launch `yaml:"launches"`
	ModelsPath string   `yaml:"models_path,omitempty"`
	Output     Output   `yaml:"output,omitempty"`
	AcmeJar    string   `yaml:"acme_jar,omitempty"`
	CheckAcme  bool     `yaml:"check_acme,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(s.Launches) == 0 {
		return nil, fmt.Errorf("scenario declares no launches")
	}
	for i, l := range s.Launches {
		if l.Filename == "" {
			return nil, fmt.Errorf("launch entry %d: filename is undefined", i)
		}
	}
	return &s, nil
}
