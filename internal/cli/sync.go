package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/modelsync/internal/loader"
	"github.com/leapstack-labs/modelsync/pkg/adapter"
	"github.com/leapstack-labs/modelsync/pkg/sync"
	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	var (
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the database with the model schema",
		Long: `Reconcile the database with the model schema.

Without --force, only missing tables are created; existing tables are left
untouched. With --force, every known table is dropped and recreated, which
discards all rows.`,
		Example: `  # Create missing tables in the default environment
  modelsync sync

  # Show what would happen without executing it
  modelsync sync --dry-run

  # Drop and recreate everything in the staging environment
  modelsync sync --env staging --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode := sync.ModeReconcile
			if force {
				mode = sync.ModeForce
			}

			registry, err := loader.LoadFile(cfg.Schema)
			if err != nil {
				return err
			}

			target, err := cfg.ResolveTarget()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conn, err := adapter.Open(ctx, target, logger)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			s := sync.New(conn, registry, logger)

			if dryRun {
				plan, err := s.Plan(ctx, mode)
				if err != nil {
					return err
				}
				renderPlan(cmd, plan)
				return nil
			}

			result, err := s.Sync(ctx, mode)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Sync %s complete: %d created, %d dropped, %d skipped\n",
				result.ID, len(result.Created), len(result.Dropped), len(result.Skipped))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "drop and recreate all known tables (discards rows)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the planned operations without executing them")

	return cmd
}

func renderPlan(cmd *cobra.Command, plan *sync.Plan) {
	out := cmd.OutOrStdout()

	if len(plan.Ops) == 0 {
		fmt.Fprintln(out, "Nothing to do; database matches the schema.")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Operation", "Table"})
		for i, op := range plan.Ops {
			t.AppendRow(table.Row{i + 1, string(op.Type), op.Table})
		}
		t.Render()
	}

	for _, skipped := range plan.Skipped {
		fmt.Fprintf(out, "Table %q exists; left untouched.\n", skipped)
	}
}
