package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JeanZorzetti/orion-analytics/internal/common"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile <record-id>",
		Short: "Mark a ledger record as settled",
		Long: `Mark a record as reconciled on a given date and move it to settled.

Settled records leave the aging report and feed settlement lag and
payment history figures instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runReconcile,
	}

	cmd.Flags().String("on", "", "Reconciliation date (format: 2006-01-02, default: today)")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	on, _ := cmd.Flags().GetString("on")
	reconciledAt := time.Now()
	if on != "" {
		var err error
		reconciledAt, err = time.Parse(dateFormat, on)
		if err != nil {
			return fmt.Errorf("invalid --on date %q (expected %s)", on, dateFormat)
		}
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	if err := store.MarkReconciled(ctx, id, reconciledAt); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("record %s not found", id)
		}
		return fmt.Errorf("failed to reconcile %s: %w", id, err)
	}

	slog.Info("Record reconciled", "id", id, "on", reconciledAt.Format(dateFormat))
	return nil
}
