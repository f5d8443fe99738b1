package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/export"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/store"
)

var (
	exportOut   string
	exportFit   string
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored leads to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}
		filter, err := exportFilter(exportFit, exportLimit)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := exportLeads(ctx, st, filter, exportOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d leads to %s\n", n, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "leads.xlsx", "output xlsx path")
	exportCmd.Flags().StringVar(&exportFit, "fit", "", "only export leads with this ICP fit (High, Medium, Low, Unsure)")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum number of leads (0 = all)")
	rootCmd.AddCommand(exportCmd)
}

func exportFilter(fit string, limit int) (store.LeadFilter, error) {
	f := store.LeadFilter{Limit: limit}
	if fit != "" {
		s := model.ParseFitStrength(fit)
		if s == model.FitUnsure && !strings.EqualFold(strings.TrimSpace(fit), string(model.FitUnsure)) {
			return f, eris.Errorf("export: unknown fit %q", fit)
		}
		f.FitStrength = s
	}
	return f, nil
}

// exportLeads lists leads from st and writes them to path.
func exportLeads(ctx context.Context, st store.LeadStore, filter store.LeadFilter, path string) (int, error) {
	leads, err := st.List(ctx, filter)
	if err != nil {
		return 0, eris.Wrap(err, "export: list leads")
	}
	if err := export.WriteFile(path, leads); err != nil {
		return 0, err
	}
	zap.L().Info("export: workbook written", zap.String("path", path), zap.Int("leads", len(leads)))
	return len(leads), nil
}
