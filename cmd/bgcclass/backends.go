package main

import (
	"github.com/spf13/cobra"

	"github.com/yumyai/bgcclass/pkg/handler/types"
	"github.com/yumyai/bgcclass/pkg/render"
)

// backendsCmd lists the loaded classifiers.
var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List the classifier backends found in the model directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		artifacts, err := openArtifacts(cfg)
		if err != nil {
			return err
		}

		analysis := artifacts.Analysis
		var backends []types.BackendInfo
		for _, b := range analysis.Backends() {
			backends = append(backends, types.BackendInfo{
				Name:     b.String(),
				Route:    "/" + b.String(),
				Features: analysis.NumFeatures(),
				Classes:  analysis.NumClasses(),
			})
		}
		return render.WriteBackendTable(cmd.OutOrStdout(), backends, cfg.Classes)
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
