package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/sentinel-predict-service/internal/validation"
)

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "predict <hospital_id>",
		Short: "Print one prediction as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			id, err := validation.ValidateHospitalID(args[0], cfg.HospitalIDMaxLength)
			if err != nil {
				return fmt.Errorf("hospital id %q: %w", args[0], err)
			}
			stack, err := buildStack(cfg)
			if err != nil {
				return err
			}
			p, err := stack.service.Predict(cmd.Context(), id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(p)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "single-line JSON")
	return cmd
}
