package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veil-io/veil/internal/anonymizer"
	"github.com/veil-io/veil/internal/audit"
	"github.com/veil-io/veil/internal/config"
)

var (
	anonymizeFile      string
	anonymizeSpans     string
	anonymizeOperators string
	anonymizeNoAudit   bool
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize [text]",
	Short: "Anonymize detected entity spans in text",
	Long: `Anonymize applies configured operators to detector output.

Text comes from the positional argument, --file, or stdin. Spans come
from a JSON file (the detector's output): an array of objects with
start, end, entity_type and score. Operators come from a YAML file; spans
without configuration are replaced with "<ENTITY_TYPE>".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnonymize,
}

func init() {
	anonymizeCmd.Flags().StringVarP(&anonymizeFile, "file", "f", "", "read text from file instead of argument/stdin")
	anonymizeCmd.Flags().StringVar(&anonymizeSpans, "spans", "", "JSON file with detected spans (required)")
	anonymizeCmd.Flags().StringVar(&anonymizeOperators, "operators", "", "operator config YAML (default: operators_file from config)")
	anonymizeCmd.Flags().BoolVar(&anonymizeNoAudit, "no-audit", false, "skip recording this run in the audit store")
	_ = anonymizeCmd.MarkFlagRequired("spans")
	rootCmd.AddCommand(anonymizeCmd)
}

func runAnonymize(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "anonymize")
	defer span.End()

	text, err := readInputText(args, anonymizeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	spans, err := readSpansFile(anonymizeSpans)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	operators, err := resolveOperators(anonymizeOperators, cfg, func(of *anonymizer.OperatorsFile) map[string]anonymizer.OperatorConfig {
		return of.Anonymizers
	})
	if err != nil {
		return err
	}

	engine := anonymizer.NewEngine()
	result, err := engine.Anonymize(ctx, text, spans, operators)
	if err != nil {
		return err
	}

	if cfg.AuditEnabled && !anonymizeNoAudit {
		recordCLIRun(ctx, cfg, audit.DirectionAnonymize, text, result)
	}

	return printJSON(cmd.OutOrStdout(), result)
}

// readInputText resolves the input text: positional argument, file, or stdin.
func readInputText(args []string, filePath string, stdin io.Reader) (string, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("reading text file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// readSpansFile parses detector output: a JSON array of spans.
func readSpansFile(path string) ([]anonymizer.Span, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spans file: %w", err)
	}
	var spans []anonymizer.Span
	if err := json.Unmarshal(data, &spans); err != nil {
		return nil, fmt.Errorf("parsing spans file %s: %w", path, err)
	}
	return spans, nil
}

// resolveOperators loads the operator config from the --operators flag,
// falling back to the config file path. A missing default file means no
// configuration (built-in fallback behavior); a missing explicit flag
// path is an error.
func resolveOperators(flagPath string, cfg *config.Config, pick func(*anonymizer.OperatorsFile) map[string]anonymizer.OperatorConfig) (map[string]anonymizer.OperatorConfig, error) {
	path := flagPath
	if path == "" {
		path = cfg.OperatorsFile
	}

	of, err := anonymizer.LoadOperatorsFile(path)
	if err != nil {
		return nil, err
	}
	if of == nil {
		if flagPath != "" {
			return nil, fmt.Errorf("operators file %s does not exist", flagPath)
		}
		return nil, nil
	}
	return pick(of), nil
}

// recordCLIRun persists the run when auditing is enabled. Failure to
// record is logged, not fatal; the result is already computed.
func recordCLIRun(ctx context.Context, cfg *config.Config, direction, text string, result *anonymizer.Result) {
	if err := cfg.EnsureDataDir(); err != nil {
		log.Warn().Err(err).Msg("creating data directory, skipping audit record")
		return
	}
	store, err := audit.NewStore(cfg.AuditDBPath())
	if err != nil {
		log.Warn().Err(err).Msg("opening audit store, skipping audit record")
		return
	}
	defer store.Close()

	run, err := store.Record(ctx, direction, text, result.Items)
	if err != nil {
		log.Warn().Err(err).Msg("recording audit run")
		return
	}
	log.Info().Str("run_id", run.ID).Int("items", run.ItemCount).Msg("recorded audit run")
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
