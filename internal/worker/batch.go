package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/osintlab/tgscout/internal/model"
)

// Hunter runs one aggregation for one identifier.
type Hunter interface {
	Hunt(ctx context.Context, identifier string, opts model.Options) (*model.HuntResult, error)
}

// HuntJob is one identifier hunt queued on the pool.
type HuntJob struct {
	Identifier string
	Options    model.Options
	Hunter     Hunter
}

// Execute implements Job.
func (j *HuntJob) Execute(ctx context.Context) Result {
	result, err := j.Hunter.Hunt(ctx, j.Identifier, j.Options)
	return &HuntOutcome{Identifier: j.Identifier, Result: result, Error: err}
}

// HuntOutcome is the result of one batch hunt.
type HuntOutcome struct {
	Identifier string
	Result     *model.HuntResult
	Error      error
}

// Err implements Result.
func (o *HuntOutcome) Err() error { return o.Error }

// ReadIdentifiers loads a batch input file: one identifier per line,
// blank lines and #-comments skipped.
func ReadIdentifiers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var identifiers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		identifiers = append(identifiers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return identifiers, nil
}
