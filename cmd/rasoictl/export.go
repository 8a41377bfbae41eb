package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/internal/reports"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

func newExportOrdersCmd() *cobra.Command {
	var (
		req    reports.ExportRequest
		output string
	)

	cmd := &cobra.Command{
		Use:   "export-orders",
		Short: "Write the orders report as CSV",
		Example: `  # every completed order of November
  rasoictl export-orders --status completed --from 2026-11-01 --to 2026-11-30 -o november.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			exporter, err := reports.NewExporter(orders.NewRepository(e.db.DB()), timeutil.Location(e.cfg.App.Timezone))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			n, err := exporter.WriteOrdersCSV(cmd.Context(), w, req)
			if err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d orders to %s\n", n, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Status, "status", "", "upcoming, pending or completed")
	cmd.Flags().StringVar(&req.FromDate, "from", "", "earliest event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.ToDate, "to", "", "latest event date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "destination file, - for stdout")
	return cmd
}
