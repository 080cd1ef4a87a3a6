package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/osintlab/tgscout/internal/analyze"
	"github.com/osintlab/tgscout/internal/cache"
	"github.com/osintlab/tgscout/internal/model"
	"github.com/osintlab/tgscout/internal/pipeline"
	"github.com/osintlab/tgscout/internal/provider"
)

var (
	outPath       string
	format        string
	timeout       time.Duration
	requestDelay  time.Duration
	userAgent     string
	noCache       bool
	noStats       bool
	minConfidence int
	maxResults    int
	subCollection string
	httpProxy     string
	httpsProxy    string
	analysisOn    bool
	analysisModel string
)

// huntCmd represents the hunt command
var huntCmd = &cobra.Command{
	Use:   "hunt <username>",
	Short: "Hunt Telegram links for one username across all sources",
	Long: `Hunt runs the full aggregation pipeline for a single username:
- Generate query batches (patterns, username variations, contextual)
- Fan out to every configured provider with rate limiting
- Extract, deduplicate, score, filter, and rank Telegram links

Example:
  tgscout hunt cryptoNewsHub
  tgscout hunt cryptoNewsHub --format text --min-confidence 50
  tgscout hunt cryptoNewsHub --subreddit TelegramChannels --out result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runHunt,
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntCmd.Flags().StringVar(&outPath, "out", "", "output path (default: stdout)")
	huntCmd.Flags().StringVar(&format, "format", "json", "output format (json, csv, text)")
	huntCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall hunt timeout")
	huntCmd.Flags().DurationVar(&requestDelay, "delay", 1500*time.Millisecond, "pause after each provider request")
	huntCmd.Flags().StringVar(&userAgent, "ua", "tgscout/0.3 (+https://github.com/osintlab/tgscout)", "HTTP User-Agent")
	huntCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force fresh hunt)")
	huntCmd.Flags().BoolVar(&noStats, "no-stats", false, "omit run statistics from the result")
	huntCmd.Flags().IntVar(&minConfidence, "min-confidence", 0, "drop results under this confidence (0-100)")
	huntCmd.Flags().IntVar(&maxResults, "max-results", 1000, "result cap (1-10000)")
	huntCmd.Flags().StringVar(&subCollection, "subreddit", "", "restrict scoped providers to one sub-collection")
	huntCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	huntCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	huntCmd.Flags().BoolVar(&analysisOn, "analyze", false, "annotate top results with an AI assessment")
	huntCmd.Flags().StringVar(&analysisModel, "analyze-model", "gpt-4o-mini", "model for AI annotations")
}

func runHunt(cmd *cobra.Command, args []string) error {
	identifier := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	format = outputFormat(cmd.Flags().Changed("format"), format, cfg.Output.Format)

	opts := model.DefaultOptions()
	opts.UseCache = !noCache
	opts.IncludeStats = !noStats
	opts.MinConfidence = minConfidence
	opts.MaxResults = maxResults
	opts.SubCollection = subCollection

	if verbose {
		fmt.Fprintf(os.Stderr, "Hunting: %s\n", identifier)
		fmt.Fprintf(os.Stderr, "Timeout: %v, delay: %v\n", timeout, cfg.Hunt.RequestDelay)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", opts.UseCache)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.Hunt(ctx, identifier, opts)
	if err != nil {
		return fmt.Errorf("hunt failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d candidates found, %d survived filtering\n", result.Metadata.TotalFound, len(result.Results))
		if len(result.Errors) > 0 {
			fmt.Fprintf(os.Stderr, "! %d recoverable errors (degraded coverage)\n", len(result.Errors))
		}
		fmt.Fprintln(os.Stderr)
	}

	return renderResult(result, format, outPath)
}

// buildConfig merges defaults, the config file/env (via viper), and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Hunt.RequestDelay = requestDelay
	cfg.Output.Verbose = verbose

	// Credentials come from the config file or environment, never flags
	if v := viper.GetString("providers.google.api_key"); v != "" {
		cfg.Providers.Google.APIKey = v
	} else {
		cfg.Providers.Google.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if v := viper.GetString("providers.google.engine_id"); v != "" {
		cfg.Providers.Google.EngineID = v
	} else {
		cfg.Providers.Google.EngineID = os.Getenv("GOOGLE_CSE_ID")
	}
	if v := viper.GetString("providers.telegram.bot_token"); v != "" {
		cfg.Providers.Telegram.BotToken = v
	} else {
		cfg.Providers.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if urls := viper.GetStringSlice("providers.feeds.urls"); len(urls) > 0 {
		cfg.Providers.Feeds.URLs = urls
	}
	if viper.IsSet("providers.bing.enabled") {
		cfg.Providers.Bing.Enabled = viper.GetBool("providers.bing.enabled")
	}
	if viper.IsSet("providers.reddit.enabled") {
		cfg.Providers.Reddit.Enabled = viper.GetBool("providers.reddit.enabled")
	}
	if dir := viper.GetString("cache.dir"); dir != "" {
		cfg.Cache.Dir = dir
	}
	if f := viper.GetString("output.format"); f != "" {
		cfg.Output.Format = f
	}

	if analysisOn {
		cfg.Analysis.Provider = "openai"
		cfg.Analysis.Model = analysisModel
		cfg.Analysis.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Analysis.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	return cfg, nil
}

// outputFormat picks the render format: an explicit --format flag wins,
// then the config file's output.format, then the flag default.
func outputFormat(flagSet bool, flagValue, configValue string) string {
	if !flagSet && configValue != "" {
		return configValue
	}
	return flagValue
}

// buildPipeline wires providers, cache, and the optional analyzer.
func buildPipeline(cfg *model.Config) (*pipeline.Pipeline, error) {
	log := newLogger()

	providers := provider.NewProviders(cfg, log)
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers configured; enable at least one in the config")
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Capacity, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	analyzer, err := analyze.NewAnalyzer(cfg.Analysis)
	if err != nil {
		return nil, err
	}

	return pipeline.New(cfg, providers, resultCache, analyzer, log), nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func renderResult(result *model.HuntResult, format, outPath string) error {
	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	renderer := pipeline.NewRenderer()
	switch format {
	case "json":
		return renderer.WriteJSON(w, result)
	case "csv":
		return renderer.WriteCSV(w, result)
	case "text":
		return renderer.WriteText(w, result)
	default:
		return fmt.Errorf("unknown format: %q (expected json, csv, or text)", format)
	}
}
