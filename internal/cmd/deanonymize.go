package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veil-io/veil/internal/anonymizer"
	"github.com/veil-io/veil/internal/audit"
	"github.com/veil-io/veil/internal/config"
)

var (
	deanonymizeFile      string
	deanonymizeSpans     string
	deanonymizeOperators string
	deanonymizeNoAudit   bool
)

var deanonymizeCmd = &cobra.Command{
	Use:   "deanonymize [text]",
	Short: "Restore reversibly anonymized text",
	Long: `Deanonymize reverses encrypt output. Spans must cover the tokens in the
anonymized text (each anonymize item reports its token's position), and
every span's entity type needs a decrypt entry, with the original key,
in the deanonymizers section of the operator config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeanonymize,
}

func init() {
	deanonymizeCmd.Flags().StringVarP(&deanonymizeFile, "file", "f", "", "read text from file instead of argument/stdin")
	deanonymizeCmd.Flags().StringVar(&deanonymizeSpans, "spans", "", "JSON file with token spans (required)")
	deanonymizeCmd.Flags().StringVar(&deanonymizeOperators, "operators", "", "operator config YAML (default: operators_file from config)")
	deanonymizeCmd.Flags().BoolVar(&deanonymizeNoAudit, "no-audit", false, "skip recording this run in the audit store")
	_ = deanonymizeCmd.MarkFlagRequired("spans")
	rootCmd.AddCommand(deanonymizeCmd)
}

func runDeanonymize(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "deanonymize")
	defer span.End()

	text, err := readInputText(args, deanonymizeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	spans, err := readSpansFile(deanonymizeSpans)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	operators, err := resolveOperators(deanonymizeOperators, cfg, func(of *anonymizer.OperatorsFile) map[string]anonymizer.OperatorConfig {
		return of.Deanonymizers
	})
	if err != nil {
		return err
	}

	engine := anonymizer.NewEngine()
	result, err := engine.Deanonymize(ctx, text, spans, operators)
	if err != nil {
		return err
	}

	if cfg.AuditEnabled && !deanonymizeNoAudit {
		recordCLIRun(ctx, cfg, audit.DirectionDeanonymize, text, result)
	}

	return printJSON(cmd.OutOrStdout(), result)
}
