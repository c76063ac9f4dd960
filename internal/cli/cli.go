// Package cli turns command-line arguments into an application config.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vk/rosrecover/internal/app"
)

// ExitError carries a specific process exit code alongside the message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated config, a
// boolean indicating a clean early exit (help, no scenario), or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flags := pflag.NewFlagSet("rosrecover", pflag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprint(output, `
rosrecover - recover the communication architecture of a ROS deployment by
simulating its launch files.

Usage:
  rosrecover [options] SCENARIO

Arguments:
  SCENARIO
    Path to a YAML scenario file naming the launch files to simulate.

Options:
`)
		flags.PrintDefaults()
	}

	modelsPath := flags.String("models-path", "", "Directory of HCL model manifests. Overrides the scenario's models_path.")
	logFormat := flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flags.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flags.NArg() == 0 {
		flags.Usage()
		return nil, true, nil
	}
	if flags.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected exactly one scenario file"}
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		ScenarioPath: flags.Arg(0),
		ModelsPath:   *modelsPath,
		LogFormat:    format,
		LogLevel:     level,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}
