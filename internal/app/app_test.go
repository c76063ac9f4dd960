package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vk/rosrecover/internal/interp"
	"github.com/vk/rosrecover/internal/models"
)

const navLaunch = `
<launch>
  <param name="use_sim_time" value="true"/>
  <node name="state_publisher" pkg="robot_state_publisher" type="robot_state_publisher"/>
  <node name="unknown_driver" pkg="vendor_pkg" type="driver"/>
</launch>
`

const laserManifest = `
model "laser_filters" "scan_to_scan_filter_chain" {
  sub {
    topic  = "scan"
    format = "sensor_msgs/LaserScan"
  }
  pub {
    topic  = "scan_filtered"
    format = "sensor_msgs/LaserScan"
  }
}
`

// writeWorkspace lays out a scenario, its launch file, and a manifest
// directory under a temp dir, returning the scenario path and the dir.
func writeWorkspace(t *testing.T, scenarioYAML string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nav.launch"), []byte(navLaunch), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "laser_filters.hcl"), []byte(laserManifest), 0o644))

	path := filepath.Join(dir, "scenario.yml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))
	return path, dir
}

func TestNewRequiresScenarioPath(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
}

func TestNewPopulatesRegistryFromScenario(t *testing.T) {
	path, _ := writeWorkspace(t, `
launches:
  - filename: nav.launch
models_path: models
`)
	cfg, err := NewConfig(Config{ScenarioPath: path, LogLevel: "error"})
	require.NoError(t, err)

	a, err := New(&bytes.Buffer{}, cfg)
	require.NoError(t, err)

	// Compiled-in models plus the manifest model.
	assert.Equal(t, len(models.Core)+1, a.Registry().Len())
}

func TestNewFailsOnMissingScenario(t *testing.T) {
	cfg, err := NewConfig(Config{ScenarioPath: filepath.Join(t.TempDir(), "nope.yml")})
	require.NoError(t, err)

	_, err = New(&bytes.Buffer{}, cfg)
	require.Error(t, err)
}

func TestRunWritesArchitecture(t *testing.T) {
	dir := t.TempDir()
	archPath := filepath.Join(dir, "arch.yml")

	path, workDir := writeWorkspace(t, `
launches:
  - filename: LAUNCH
output:
  architecture: ARCH
`)
	rewriteScenario(t, path, map[string]string{
		"LAUNCH": filepath.Join(workDir, "nav.launch"),
		"ARCH":   archPath,
	})

	cfg, err := NewConfig(Config{ScenarioPath: path, LogLevel: "error"})
	require.NoError(t, err)
	a, err := New(&bytes.Buffer{}, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(archPath)
	require.NoError(t, err)

	var doc struct {
		Nodes []interp.NodeSummary `yaml:"nodes"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Nodes, 2)

	byName := make(map[string]interp.NodeSummary)
	for _, n := range doc.Nodes {
		byName[n.Name] = n
	}
	require.Contains(t, byName, "state_publisher")
	require.Contains(t, byName, "unknown_driver")

	assert.False(t, byName["state_publisher"].Placeholder)
	assert.Contains(t, byName["state_publisher"].Subs,
		interp.TopicFormat{Name: "/joint_states", Format: "sensor_msgs/JointState"})
	assert.True(t, byName["unknown_driver"].Placeholder)
	assert.Equal(t, "vendor_pkg", byName["unknown_driver"].Package)
}

func TestRunWritesAcmeDescription(t *testing.T) {
	dir := t.TempDir()
	acmePath := filepath.Join(dir, "nav_system.acme")

	path, workDir := writeWorkspace(t, `
launches:
  - filename: LAUNCH
output:
  acme: ACME
`)
	rewriteScenario(t, path, map[string]string{
		"LAUNCH": filepath.Join(workDir, "nav.launch"),
		"ACME":   acmePath,
	})

	cfg, err := NewConfig(Config{ScenarioPath: path, LogLevel: "error"})
	require.NoError(t, err)
	a, err := New(&bytes.Buffer{}, cfg)
	require.NoError(t, err)

	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(acmePath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "system nav_system : ROSFam")
	assert.Contains(t, text, "component state_publisher : ROSNodeCompT")
	assert.Contains(t, text, "component unknown_driver : ROSNodeCompT, PlaceholderT")
}

func TestRunFailsOnMissingLaunchFile(t *testing.T) {
	path, workDir := writeWorkspace(t, `
launches:
  - filename: LAUNCH
`)
	rewriteScenario(t, path, map[string]string{
		"LAUNCH": filepath.Join(workDir, "absent.launch"),
	})

	cfg, err := NewConfig(Config{ScenarioPath: path, LogLevel: "error"})
	require.NoError(t, err)
	a, err := New(&bytes.Buffer{}, cfg)
	require.NoError(t, err)

	require.Error(t, a.Run(context.Background()))
}

// rewriteScenario substitutes placeholder tokens with absolute paths; the
// scenario format itself has no templating.
func rewriteScenario(t *testing.T, path string, subs map[string]string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	for from, to := range subs {
		text = strings.ReplaceAll(text, from, to)
	}
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}
