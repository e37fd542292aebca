package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/pipeline"
	"github.com/ppiankov/commitmood/internal/render"
	"github.com/ppiankov/commitmood/internal/score"
	"github.com/ppiankov/commitmood/internal/source"
	"github.com/ppiankov/commitmood/internal/worker"
	"github.com/spf13/cobra"
)

var (
	anAuthor          string
	anFormat          string
	anOut             string
	anConcurrency     int
	anAttributionKind string
	anNoCache         bool
	anSummary         bool
	anAllowEmpty      bool
	anNoColor         bool
	anTimeout         time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <commits.json|->",
	Short: "Score and highlight a list of commits",
	Long: `Analyze reads commits, scores every message, highlights the words behind
each score and prints the result with an optional batch summary.

Input is a GitHub list-commits JSON array, for example:
  gh api repos/OWNER/REPO/commits > commits.json
or commitmood's own JSON output. Use - to read standard input.

Example:
  commitmood analyze commits.json
  commitmood analyze commits.json --author octocat --format markdown --out mood.md
  gh api repos/cli/cli/commits | commitmood analyze - --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&anAuthor, "author", "", "only commits by this login or author name")
	analyzeCmd.Flags().StringVar(&anFormat, "format", "", "output format: text, markdown, html, json (default from config)")
	analyzeCmd.Flags().StringVarP(&anOut, "out", "o", "", "write output to a file instead of stdout")
	analyzeCmd.Flags().IntVar(&anConcurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	analyzeCmd.Flags().StringVar(&anAttributionKind, "attribution-kind", "", "attribution shape: map or list (default from config)")
	analyzeCmd.Flags().BoolVar(&anNoCache, "no-cache", false, "disable the analysis cache")
	analyzeCmd.Flags().BoolVar(&anSummary, "summary", true, "append a batch summary")
	analyzeCmd.Flags().BoolVar(&anAllowEmpty, "allow-empty", false, "succeed when the input has no commits")
	analyzeCmd.Flags().BoolVar(&anNoColor, "no-color", false, "disable ANSI colors in text output")
	analyzeCmd.Flags().DurationVar(&anTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	flags := cmd.Flags()
	if anFormat != "" {
		cfg.Output.Format = anFormat
	}
	if anConcurrency > 0 {
		cfg.Concurrency.Workers = anConcurrency
	}
	if anAttributionKind != "" {
		cfg.Analyzer.AttributionKind = anAttributionKind
	}
	if anNoCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = anSummary
	}
	log := logger.Named("analyze")
	stderr := cmd.ErrOrStderr()

	var err error

	var commits []model.Commit
	if args[0] == "-" {
		commits, err = source.Decode(cmd.InOrStdin())
	} else {
		commits, err = source.ReadFile(args[0])
	}
	if errors.Is(err, source.ErrNoCommits) && anAllowEmpty {
		err = nil
	}
	if err != nil {
		return err
	}

	if anAuthor != "" {
		total := len(commits)
		commits = source.FilterByAuthor(commits, anAuthor)
		log.Info("filtered by author",
			logging.String("author", anAuthor),
			logging.Int("kept", len(commits)),
			logging.Int("total", total))
		if len(commits) == 0 && !anAllowEmpty {
			return fmt.Errorf("%w by author %q", source.ErrNoCommits, anAuthor)
		}
	}

	// Open the destination before any analyzer work so a bad path fails fast.
	var out io.Writer = cmd.OutOrStdout()
	if anOut != "" {
		f, err := os.Create(anOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	renderer, err := render.New(cfg.Output.Format, anOut == "" && useColor(&cfg, anNoColor, out))
	if err != nil {
		return err
	}

	p, err := pipeline.New(&cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), anTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(stderr, "⚙️  Analyzing %d commits with %s (%d workers)...\n", len(commits), p.Analyzer().Name(), cfg.Concurrency.Workers)
	}

	start := time.Now()
	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).ProcessCommits(ctx, commits)

	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			fmt.Fprintf(stderr, "✗ %s: %v\n", res.Commit.ShortSHA(), res.Error)
		}
	}
	highlighted := worker.Successful(results)

	log.Info("batch complete",
		logging.Int("commits", len(results)),
		logging.Int("failures", failures),
		logging.Duration("elapsed", time.Since(start)))

	var summary *model.Summary
	if cfg.Output.Summary {
		s := score.Summarize(highlighted)
		summary = &s
	}

	if err := renderer.Render(out, highlighted, summary); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if anOut != "" {
		fmt.Fprintf(stderr, "✓ Wrote %s: %s\n", cfg.Output.Format, anOut)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d commits failed", failures, len(results))
	}
	return nil
}
