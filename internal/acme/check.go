package acme

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/rosrecover/internal/ctxlog"
	"github.com/vk/rosrecover/internal/sysio"
)

// DefaultJar is the conventional location of the standalone checker.
const DefaultJar = "lib/acme.standalone-ros.jar"

// report mirrors the JSON document the checker writes with -j.
type report struct {
	Errors []struct {
		Error  string   `json:"error"`
		Causes []string `json:"causes"`
	} `json:"errors"`
}

// Check runs the external Acme checker over the description at acmeFile and
// returns the structural problems it found, one message per problem. An
// empty slice means the architecture checked clean. jar may be empty to use
// DefaultJar.
func Check(ctx context.Context, shell sysio.Shell, jar, acmeFile string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	if jar == "" {
		jar = DefaultJar
	}

	reportFile, err := os.CreateTemp("", "acme-report-*.json")
	if err != nil {
		return nil, fmt.Errorf("creating checker report file: %w", err)
	}
	reportPath := reportFile.Name()
	reportFile.Close()
	defer os.Remove(reportPath)

	command := fmt.Sprintf("java -jar %s -j %s %s", jar, reportPath, acmeFile)
	logger.Debug("running acme checker", "command", command)
	if out, err := shell.RunAndCapture(ctx, command); err != nil {
		logger.Error("acme checker did not run", "output", out, "error", err)
		return nil, err
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, fmt.Errorf("reading checker report: %w", err)
	}
	var rep report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing checker report: %w", err)
	}

	var problems []string
	for _, e := range rep.Errors {
		if len(e.Causes) == 0 {
			problems = append(problems, e.Error)
			continue
		}
		problems = append(problems, e.Causes...)
	}
	return problems, nil
}
