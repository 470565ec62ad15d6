package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/store"
)

var (
	dealsStage   string
	dealsUrgency string
	dealsSender  string
	dealsLimit   int
)

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List extracted deals from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("migrate"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		deals, err := st.ListDeals(ctx, store.DealFilter{
			Stage:   model.DealStage(dealsStage),
			Urgency: model.UrgencyLevel(dealsUrgency),
			Sender:  dealsSender,
			Limit:   dealsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list deals")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(deals)
	},
}

func init() {
	dealsCmd.Flags().StringVar(&dealsStage, "stage", "", "filter by deal stage")
	dealsCmd.Flags().StringVar(&dealsUrgency, "urgency", "", "filter by urgency level")
	dealsCmd.Flags().StringVar(&dealsSender, "sender", "", "filter by sender address")
	dealsCmd.Flags().IntVar(&dealsLimit, "limit", 0, "max rows (default 100)")
	rootCmd.AddCommand(dealsCmd)
}
