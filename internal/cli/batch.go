package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Hunt multiple usernames from a file in parallel",
	Long: `Batch runs the full pipeline for every username in the input file
(one per line, # comments allowed), with a bounded number of hunts in
flight. Each hunt's result is written to its own file in the output
directory.

Example:
  tgscout batch targets.txt
  tgscout batch targets.txt --concurrency 3 --output-dir ./hunts`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 2, "number of hunts in flight")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./tgscout-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, text)")
	batchCmd.Flags().DurationVar(&requestDelay, "delay", 1500*time.Millisecond, "pause after each provider request")
	batchCmd.Flags().StringVar(&userAgent, "ua", "tgscout/0.3 (+https://github.com/osintlab/tgscout)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")
	batchCmd.Flags().IntVar(&minConfidence, "min-confidence", 0, "drop results under this confidence (0-100)")
	batchCmd.Flags().IntVar(&maxResults, "max-results", 1000, "result cap per hunt (1-10000)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	identifiers, err := worker.ReadIdentifiers(args[0])
	if err != nil {
		return err
	}
	if len(identifiers) == 0 {
		return fmt.Errorf("no identifiers in %s", args[0])
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	format = outputFormat(cmd.Flags().Changed("format"), format, cfg.Output.Format)
	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	opts := model.DefaultOptions()
	opts.UseCache = !noCache
	opts.MinConfidence = minConfidence
	opts.MaxResults = maxResults

	if verbose {
		fmt.Fprintf(os.Stderr, "Batch: %d identifiers, %d in flight\n\n", len(identifiers), concurrency)
	}

	pool := worker.NewPool(concurrency)
	pool.Start()
	for _, id := range identifiers {
		pool.Submit(&worker.HuntJob{Identifier: id, Options: opts, Hunter: p})
	}

	// Individual hunts respect batchTimeout through the pool context
	time.AfterFunc(batchTimeout, pool.Shutdown)

	failed := 0
	for _, res := range pool.Wait() {
		outcome := res.(*worker.HuntOutcome)
		if outcome.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Identifier, outcome.Error)
			continue
		}

		path := filepath.Join(outputDir, outcome.Identifier+"."+extensionFor(format))
		if err := renderResult(outcome.Result, format, path); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Identifier, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %d results -> %s\n", outcome.Identifier, len(outcome.Result.Results), path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d hunts failed", failed, len(identifiers))
	}
	return nil
}

func extensionFor(format string) string {
	switch format {
	case "csv":
		return "csv"
	case "text":
		return "txt"
	default:
		return "json"
	}
}
