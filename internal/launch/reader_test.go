package launch

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// mapFiles serves file contents from an in-memory map.
type mapFiles map[string]string

func (m mapFiles) ReadText(_ context.Context, path string) (string, error) {
	text, ok := m[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return text, nil
}

func read(t *testing.T, text string) *Config {
	t.Helper()
	r := NewXMLReader(mapFiles{"f.launch": text})
	cfg, err := r.Read(context.Background(), "f.launch")
	require.NoError(t, err)
	return cfg
}

func TestReadNodes(t *testing.T) {
	cfg := read(t, `
<launch>
  <node name="amcl" pkg="amcl" type="amcl" args="--verbose">
    <remap from="scan" to="base_scan"/>
  </node>
  <node name="map_server" pkg="map_server" type="map_server"/>
</launch>`)

	require.Len(t, cfg.Nodes, 2)
	assert.Equal(t, Node{
		Name:       "amcl",
		Package:    "amcl",
		Type:       "amcl",
		Namespace:  "/",
		Args:       "--verbose",
		Remappings: []Remapping{{From: "scan", To: "base_scan"}},
	}, cfg.Nodes[0])
	assert.Equal(t, "map_server", cfg.Nodes[1].Name)
}

func TestReadPreservesDocumentOrder(t *testing.T) {
	cfg := read(t, `
<launch>
  <node name="c" pkg="p" type="t"/>
  <group>
    <node name="a" pkg="p" type="t"/>
  </group>
  <node name="b" pkg="p" type="t"/>
</launch>`)

	var names []string
	for _, n := range cfg.Nodes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestReadGroupNamespaces(t *testing.T) {
	cfg := read(t, `
<launch>
  <group ns="robot1">
    <param name="rate" value="10"/>
    <group ns="sensors">
      <node name="lidar" pkg="p" type="t"/>
    </group>
  </group>
  <group ns="/absolute">
    <node name="n" pkg="p" type="t"/>
  </group>
</launch>`)

	require.Len(t, cfg.Nodes, 2)
	assert.Equal(t, "/robot1/sensors", cfg.Nodes[0].Namespace)
	assert.Equal(t, "/absolute", cfg.Nodes[1].Namespace)
	assert.True(t, cfg.Params["/robot1/rate"].RawEquals(cty.NumberIntVal(10)))
}

func TestReadParamTyping(t *testing.T) {
	cfg := read(t, `
<launch>
  <param name="explicit_str" type="str" value="42"/>
  <param name="explicit_bool" type="bool" value="True"/>
  <param name="auto_int" value="7"/>
  <param name="auto_one" value="1"/>
  <param name="auto_zero" value="0"/>
  <param name="auto_double" value="0.5"/>
  <param name="auto_bool" value="false"/>
  <param name="auto_bool_upper" value="True"/>
  <param name="auto_t" value="t"/>
  <param name="auto_str" value="hello world"/>
</launch>`)

	assert.True(t, cfg.Params["/explicit_str"].RawEquals(cty.StringVal("42")))
	assert.True(t, cfg.Params["/explicit_bool"].RawEquals(cty.True))
	assert.True(t, cfg.Params["/auto_int"].RawEquals(cty.NumberIntVal(7)))
	// Numeric detection runs before booleans: "1" and "0" are ints.
	assert.True(t, cfg.Params["/auto_one"].RawEquals(cty.NumberIntVal(1)))
	assert.True(t, cfg.Params["/auto_zero"].RawEquals(cty.NumberIntVal(0)))
	assert.True(t, cfg.Params["/auto_double"].RawEquals(cty.NumberFloatVal(0.5)))
	assert.True(t, cfg.Params["/auto_bool"].RawEquals(cty.False))
	assert.True(t, cfg.Params["/auto_bool_upper"].RawEquals(cty.True))
	// Single-letter abbreviations are not booleans.
	assert.True(t, cfg.Params["/auto_t"].RawEquals(cty.StringVal("t")))
	assert.True(t, cfg.Params["/auto_str"].RawEquals(cty.StringVal("hello world")))
}

func TestReadNodeParamsArePrivate(t *testing.T) {
	cfg := read(t, `
<launch>
  <node name="amcl" pkg="amcl" type="amcl">
    <param name="min_particles" value="100"/>
  </node>
</launch>`)

	assert.True(t, cfg.Params["/amcl/min_particles"].RawEquals(cty.NumberIntVal(100)))
}

func TestReadRosParamBlock(t *testing.T) {
	cfg := read(t, `
<launch>
  <rosparam>
topics: [scan, odom]
update_rate: 20
  </rosparam>
  <rosparam param="whole">
frame: map
  </rosparam>
</launch>`)

	assert.True(t, cfg.Params["/topics"].RawEquals(cty.TupleVal([]cty.Value{
		cty.StringVal("scan"), cty.StringVal("odom"),
	})))
	assert.True(t, cfg.Params["/update_rate"].RawEquals(cty.NumberIntVal(20)))
	assert.True(t, cfg.Params["/whole"].RawEquals(cty.ObjectVal(map[string]cty.Value{
		"frame": cty.StringVal("map"),
	})))
}

func TestReadRejectsIncompleteNode(t *testing.T) {
	r := NewXMLReader(mapFiles{"f.launch": `<launch><node name="x" type="t"/></launch>`})
	_, err := r.Read(context.Background(), "f.launch")
	require.ErrorContains(t, err, "pkg")
}

func TestReadRejectsNonLaunchRoot(t *testing.T) {
	r := NewXMLReader(mapFiles{"f.launch": `<robot/>`})
	_, err := r.Read(context.Background(), "f.launch")
	require.ErrorContains(t, err, "<launch>")
}

func TestReadPropagatesFileError(t *testing.T) {
	r := NewXMLReader(mapFiles{})
	_, err := r.Read(context.Background(), "nope.launch")
	require.Error(t, err)
}
