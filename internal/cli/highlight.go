package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/commitmood/internal/highlight"
	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/ppiankov/commitmood/internal/pipeline"
	"github.com/ppiankov/commitmood/internal/render"
	"github.com/spf13/cobra"
)

var (
	hlPositive    string
	hlNegative    string
	hlScores      string
	hlAttribution string
	hlAnalyze     bool
	hlFormat      string
	hlNoColor     bool
	hlTimeout     time.Duration
)

// highlightCmd represents the highlight command
var highlightCmd = &cobra.Command{
	Use:   "highlight <text|->",
	Short: "Highlight sentiment words in a single text",
	Long: `Highlight splits a text at the attributed words and marks each standalone
occurrence as positive or negative.

Attribution comes from exactly one source:
  --positive/--negative   word lists (a word in both lists is positive)
  --scores                word=score pairs (a later pair for the same word wins)
  --attribution           a JSON file ({"kind":"list",...}, {"kind":"map",...},
                          a bare {"word": score} object or a sentiment calculation array)
  --analyze               the configured analyzer (default when nothing else is given)

Example:
  commitmood highlight "Fix the broken build" --positive fix --negative broken
  commitmood highlight "great fix, no more crashes" --scores great=3,crashes=-2
  git log -1 --format=%B | commitmood highlight - --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)

	highlightCmd.Flags().StringVar(&hlPositive, "positive", "", "comma-separated positive words")
	highlightCmd.Flags().StringVar(&hlNegative, "negative", "", "comma-separated negative words")
	highlightCmd.Flags().StringVar(&hlScores, "scores", "", "comma-separated word=score pairs")
	highlightCmd.Flags().StringVar(&hlAttribution, "attribution", "", "attribution JSON file")
	highlightCmd.Flags().BoolVar(&hlAnalyze, "analyze", false, "score the text with the configured analyzer")
	highlightCmd.Flags().StringVar(&hlFormat, "format", "", "output format: text, markdown, html, json (default from config)")
	highlightCmd.Flags().BoolVar(&hlNoColor, "no-color", false, "disable ANSI colors in text output")
	highlightCmd.Flags().DurationVar(&hlTimeout, "timeout", time.Minute, "analyzer timeout")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	text, err := readText(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := appConfig
	format := cfg.Output.Format
	if hlFormat != "" {
		format = hlFormat
	}
	out := cmd.OutOrStdout()
	renderer, err := render.New(format, useColor(cfg, hlNoColor, out))
	if err != nil {
		return err
	}

	attribution, err := explicitAttribution()
	if err != nil {
		return err
	}

	if attribution != nil {
		if hlAnalyze {
			return errors.New("--analyze cannot be combined with an explicit attribution")
		}
		logger.Debug("highlighting with explicit attribution",
			logging.String("kind", string(attribution.Kind())),
			logging.Int("words", len(attribution.Words())))
		return renderer.RenderText(out, highlight.Highlight(text, attribution), nil)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), hlTimeout)
	defer cancel()

	sentiment, segments, err := p.HighlightText(ctx, text)
	if err != nil {
		return err
	}
	return renderer.RenderText(out, segments, sentiment)
}

// explicitAttribution builds the attribution from flags; nil means none was given
func explicitAttribution() (model.Attribution, error) {
	lists := hlPositive != "" || hlNegative != ""
	sources := 0
	for _, given := range []bool{lists, hlScores != "", hlAttribution != ""} {
		if given {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("use only one of --positive/--negative, --scores, --attribution")
	}

	switch {
	case lists:
		return model.NewListAttribution(splitWords(hlPositive), splitWords(hlNegative)), nil
	case hlScores != "":
		entries, err := parseScores(hlScores)
		if err != nil {
			return nil, err
		}
		return model.NewMapAttribution(entries), nil
	case hlAttribution != "":
		data, err := os.ReadFile(hlAttribution)
		if err != nil {
			return nil, fmt.Errorf("read attribution: %w", err)
		}
		a, err := model.DecodeAttribution(data)
		if err != nil {
			return nil, fmt.Errorf("decode attribution %s: %w", hlAttribution, err)
		}
		return a, nil
	}
	return nil, nil
}

// splitWords splits a comma-separated list, dropping blanks
func splitWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// parseScores parses "word=score,word=score" in order
func parseScores(s string) ([]model.WordScore, error) {
	var out []model.WordScore
	for _, pair := range splitWords(s) {
		word, value, ok := strings.Cut(pair, "=")
		word = strings.TrimSpace(word)
		if !ok || word == "" {
			return nil, fmt.Errorf("invalid score %q: expected word=score", pair)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score for %q: %w", word, err)
		}
		out = append(out, model.WordScore{Word: word, Score: score})
	}
	return out, nil
}

// readText returns arg, or all of stdin when arg is "-"
func readText(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// useColor enables ANSI output only for terminals, honouring NO_COLOR
func useColor(cfg *model.Config, noColor bool, out io.Writer) bool {
	if !cfg.Output.Color || noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
