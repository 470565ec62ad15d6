package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/creatorstack/dealflow-cli/internal/store"
	"github.com/creatorstack/dealflow-cli/pkg/notion"
)

var exportLimit int

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored deals to the Notion tracker database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		deals, err := st.ListDeals(ctx, store.DealFilter{Limit: exportLimit})
		if err != nil {
			return eris.Wrap(err, "list deals")
		}

		client := notion.NewClient(cfg.Notion.Token)

		exported := 0
		for _, rec := range deals {
			if _, err := notion.UpsertDeal(ctx, client, cfg.Notion.DealDB, rec); err != nil {
				zap.L().Error("export deal failed",
					zap.String("deal_id", rec.ID),
					zap.Error(err),
				)
				continue
			}
			exported++
		}

		zap.L().Info("export complete",
			zap.Int("total", len(deals)),
			zap.Int("exported", exported),
		)
		if exported < len(deals) {
			return eris.Errorf("exported %d of %d deals", exported, len(deals))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max deals to export (default 100)")
	rootCmd.AddCommand(exportCmd)
}
