package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/creatorstack/dealflow-cli/internal/dealsync"
	"github.com/creatorstack/dealflow-cli/internal/model"
	"github.com/creatorstack/dealflow-cli/internal/pipeline"
)

var (
	runFile string
	runSave bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the extraction pipeline for a single email message",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		msg, err := loadMessage(runFile)
		if err != nil {
			return err
		}

		if pre := pipeline.Prescreen(*msg); !pre.IsCampaign {
			zap.L().Info("prescreen miss, routing anyway",
				zap.String("reason", pre.Reason),
			)
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Process(ctx, *msg)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("extraction complete",
			zap.Bool("is_deal", result.Routing.IsDeal),
			zap.String("deal_stage", string(result.Routing.DealStage)),
			zap.Bool("deep_ran", result.Deep != nil),
		)

		if runSave && result.Routing.IsDeal {
			rec := dealsync.BuildRecord(*msg, *result, time.Now().UTC())
			if err := env.Store.SaveDeal(ctx, rec); err != nil {
				return eris.Wrap(err, "save deal")
			}
			zap.L().Info("deal saved", zap.String("deal_id", rec.ID))
		}

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// loadMessage reads a message from a JSON or YAML file, or stdin when
// path is "-".
func loadMessage(path string) (*model.Message, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read message file %s", path)
	}

	var msg model.Message
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &msg); err != nil {
			return nil, eris.Wrapf(err, "parse yaml message %s", path)
		}
	default:
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, eris.Wrapf(err, "parse json message %s", path)
		}
	}

	if msg.From == "" && msg.Subject == "" && msg.Body == "" {
		return nil, eris.Errorf("message file %s is empty", path)
	}
	return &msg, nil
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to a message file, .json or .yaml, or - for stdin (required)")
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist the extracted deal to the store")
	_ = runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}
