package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/rosrecover/internal/acme"
	"github.com/vk/rosrecover/internal/ctxlog"
	"github.com/vk/rosrecover/internal/interp"
	"github.com/vk/rosrecover/internal/launch"
	"github.com/vk/rosrecover/internal/scenario"
)

// Run loads the scenario, simulates every launch it names in one
// interpreter session, and writes the requested artifacts.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	scn := a.scenario
	session := interp.New(a.registry, launch.NewXMLReader(a.files), a.files, a.shell)
	for _, l := range scn.Launches {
		a.logger.Info("simulating launch", "file", l.Filename, "argv", l.Argv())
		if err := session.Launch(ctx, l.Filename); err != nil {
			return fmt.Errorf("launch %s: %w", l.Filename, err)
		}
	}

	nodes := session.Nodes()
	a.logger.Info("interpretation finished", "nodes", len(nodes))

	if err := a.writeArchitecture(scn.Output.Architecture, nodes); err != nil {
		return err
	}
	if scn.Output.Acme != "" || scn.CheckAcme {
		if err := a.writeAcme(ctx, scn, nodes); err != nil {
			return err
		}
	}
	return nil
}

// writeArchitecture renders the recovered node summaries as YAML, either to
// the named file or to the application's output writer.
func (a *App) writeArchitecture(path string, nodes []interp.NodeSummary) error {
	doc := struct {
		Nodes []interp.NodeSummary `yaml:"nodes"`
	}{Nodes: nodes}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("rendering architecture: %w", err)
	}
	if path == "" {
		_, err = a.outW.Write(data)
		return err
	}
	a.logger.Info("writing architecture", "file", path)
	return os.WriteFile(path, data, 0o644)
}

// writeAcme renders the Acme description and, when requested, runs the
// external checker over it.
func (a *App) writeAcme(ctx context.Context, scn *scenario.Scenario, nodes []interp.NodeSummary) error {
	path := scn.Output.Acme
	systemName := "RobotSystem"
	if path != "" {
		base := filepath.Base(path)
		systemName = acme.Name(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	gen := &acme.Generator{SystemName: systemName, Nodes: nodes}
	text := gen.Generate()

	if path == "" {
		tmp, err := os.CreateTemp("", "rosrecover-*.acme")
		if err != nil {
			return fmt.Errorf("creating acme file: %w", err)
		}
		path = tmp.Name()
		tmp.Close()
		defer os.Remove(path)
	} else {
		a.logger.Info("writing acme description", "file", path)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing acme description: %w", err)
	}

	if !scn.CheckAcme {
		return nil
	}
	problems, err := acme.Check(ctx, a.shell, scn.AcmeJar, path)
	if err != nil {
		return fmt.Errorf("running acme checker: %w", err)
	}
	if len(problems) == 0 {
		fmt.Fprintln(a.outW, "architecture has no errors")
		return nil
	}
	fmt.Fprintln(a.outW, "the following problems were found with the architecture:")
	for _, p := range problems {
		fmt.Fprintf(a.outW, "    %s\n", p)
	}
	return nil
}
