package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veil-io/veil/internal/audit"
	"github.com/veil-io/veil/internal/config"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the anonymization audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs (newest first)",
	RunE:  auditList,
}

var auditShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run with its applied changes",
	Args:  cobra.ExactArgs(1),
	RunE:  auditShow,
}

func init() {
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 20, "Maximum runs to show")

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditShowCmd)
	rootCmd.AddCommand(auditCmd)
}

func openAuditStore() (*audit.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return audit.NewStore(cfg.AuditDBPath())
}

func auditList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	ctx, span := tracer.Start(ctx, "audit.list")
	defer span.End()

	store, err := openAuditStore()
	if err != nil {
		return fmt.Errorf("initializing audit store: %w", err)
	}
	defer store.Close()

	runs, err := store.List(ctx, auditLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-12s  %-20s  %-12s  %s\n", "RUN", "TIMESTAMP", "DIRECTION", "ITEMS")
	for _, run := range runs {
		fmt.Fprintf(out, "%-12s  %-20s  %-12s  %d\n",
			run.ID, run.Timestamp.Format(time.RFC3339), run.Direction, run.ItemCount)
	}
	return nil
}

func auditShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	ctx, span := tracer.Start(ctx, "audit.show")
	defer span.End()

	store, err := openAuditStore()
	if err != nil {
		return fmt.Errorf("initializing audit store: %w", err)
	}
	defer store.Close()

	run, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}
