// Package manifest loads declarative behavior models from HCL files.
//
// Manifests let simple node types be modeled without writing Go: a model
// block lists the topics, services, parameters, and actions the node type
// declares, and the loader compiles it into a behavior and registers it.
// Node types whose interactions depend on arguments or parameter values
// still need a compiled-in Go model.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rosrecover/internal/ctxlog"
	"github.com/vk/rosrecover/internal/fsutil"
	"github.com/vk/rosrecover/internal/interp"
)

// LoadDir parses every .hcl file under path and registers the declared
// models into reg. A duplicate key, in a manifest or against a compiled-in
// model, fails the load.
func LoadDir(ctx context.Context, path string, reg *interp.Registry) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return fmt.Errorf("scanning model manifests: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("no model manifests found", "path", path)
		return nil
	}

	parser := hclparse.NewParser()
	for _, filePath := range files {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("parsing manifest %s: %w", filePath, diags)
		}

		var file File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
			return fmt.Errorf("decoding manifest %s: %w", filePath, diags)
		}

		for _, block := range file.Models {
			if err := reg.Register(block.Package, block.Type, Compile(block)); err != nil {
				return fmt.Errorf("manifest %s: %w", filePath, err)
			}
			logger.Debug("registered manifest model",
				"package", block.Package, "type", block.Type, "file", filePath)
		}
	}

	logger.Info("model manifests loaded", "files", len(files))
	return nil
}

// Compile turns a declarative model block into a behavior that replays the
// declared interactions through the node context.
func Compile(block *ModelBlock) interp.Behavior {
	return func(c *interp.NodeContext) {
		for _, p := range block.Pubs {
			c.Pub(p.Topic, p.Format)
		}
		for _, s := range block.Subs {
			c.Sub(s.Topic, s.Format)
		}
		for _, s := range block.Provides {
			c.ProvideService(s.Service, s.Format)
		}
		for _, s := range block.Uses {
			c.UseService(s.Service, s.Format)
		}
		for _, r := range block.Reads {
			def := cty.NullVal(cty.DynamicPseudoType)
			if r.Default != nil {
				def = *r.Default
			}
			c.ReadParam(r.Param, def, r.Dynamic)
		}
		for _, w := range block.Writes {
			c.WriteParam(w.Param, w.Value)
		}
		for _, a := range block.ActionServers {
			c.ProvideAction(a.Namespace, a.Format)
		}
		for _, a := range block.ActionClients {
			c.UseAction(a.Namespace, a.Format)
		}
	}
}
