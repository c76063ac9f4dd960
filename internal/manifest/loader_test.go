package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rosrecover/internal/interp"
	"github.com/vk/rosrecover/internal/params"
	"github.com/vk/rosrecover/internal/sysio"
)

const laserFilterManifest = `
model "laser_filters" "scan_to_scan_filter_chain" {
  description = "runs a filter chain over laser scans"

  sub {
    topic  = "scan"
    format = "sensor_msgs/LaserScan"
  }
  pub {
    topic  = "scan_filtered"
    format = "sensor_msgs/LaserScan"
  }
  read {
    param   = "~tf_message_filter_target_frame"
    default = ""
  }
}
`

func writeManifest(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
}

func evalModel(t *testing.T, reg *interp.Registry, pkg, nodeType string) interp.NodeSummary {
	t.Helper()
	c := interp.NewNodeContext(interp.NodeContextArgs{
		Ctx:       context.Background(),
		Name:      "n",
		Namespace: "/",
		Kind:      nodeType,
		Package:   pkg,
		Params:    params.New(),
		Files:     sysio.Local{},
	})
	reg.Find(pkg, nodeType).Eval(c)
	return c.Summarize()
}

func TestLoadDirRegistersModels(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "laser_filters.hcl", laserFilterManifest)

	reg := interp.NewRegistry(nil)
	require.NoError(t, LoadDir(context.Background(), dir, reg))
	require.Equal(t, 1, reg.Len())

	summary := evalModel(t, reg, "laser_filters", "scan_to_scan_filter_chain")
	assert.False(t, summary.Placeholder)
	assert.Equal(t, []interp.TopicFormat{{Name: "/scan_filtered", Format: "sensor_msgs/LaserScan"}}, summary.Pubs)
	assert.Equal(t, []interp.TopicFormat{{Name: "/scan", Format: "sensor_msgs/LaserScan"}}, summary.Subs)
	require.Len(t, summary.Reads, 1)
	assert.Equal(t, "/n/tf_message_filter_target_frame", summary.Reads[0].Name)
}

func TestLoadDirWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "laser_filters"), 0o755))
	writeManifest(t, dir, filepath.Join("laser_filters", "manifest.hcl"), laserFilterManifest)

	reg := interp.NewRegistry(nil)
	require.NoError(t, LoadDir(context.Background(), dir, reg))
	assert.Equal(t, 1, reg.Len())
}

func TestLoadDirRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a.hcl", laserFilterManifest)
	writeManifest(t, dir, "b.hcl", laserFilterManifest)

	reg := interp.NewRegistry(nil)
	err := LoadDir(context.Background(), dir, reg)
	var dup *interp.DuplicateModelError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "laser_filters", dup.Package)
}

func TestLoadDirRejectsMalformedHCL(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "bad.hcl", `model "p" {`)

	err := LoadDir(context.Background(), dir, interp.NewRegistry(nil))
	require.Error(t, err)
}

func TestLoadDirEmptyIsNotAnError(t *testing.T) {
	reg := interp.NewRegistry(nil)
	require.NoError(t, LoadDir(context.Background(), t.TempDir(), reg))
	assert.Equal(t, 0, reg.Len())
}

func TestCompileActions(t *testing.T) {
	block := &ModelBlock{
		Package: "move_base",
		Type:    "move_base",
		ActionServers: []*ActionBlock{
			{Namespace: "move_base", Format: "move_base_msgs/MoveBase"},
		},
		Writes: []*WriteBlock{
			{Param: "~initialized", Value: cty.True},
		},
	}
	reg := interp.NewRegistry(nil)
	reg.MustRegister(block.Package, block.Type, Compile(block))

	summary := evalModel(t, reg, "move_base", "move_base")
	assert.Contains(t, summary.Subs, interp.TopicFormat{Name: "/move_base/goal", Format: "move_base_msgs/MoveBaseGoal"})
	assert.Contains(t, summary.Pubs, interp.TopicFormat{Name: "/move_base/result", Format: "move_base_msgs/MoveBaseResult"})
	assert.Contains(t, summary.Writes, "/n/initialized")
}
