package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/classifier"
	"github.com/yumyai/bgcclass/pkg/errs"
	"github.com/yumyai/bgcclass/pkg/genbank"
	"github.com/yumyai/bgcclass/pkg/model"
	"github.com/yumyai/bgcclass/pkg/render"
)

var (
	backendName string
	jsonOutput  bool
)

// classifyCmd runs each file through one or all backends.
var classifyCmd = &cobra.Command{
	Use:     "classify FILE...",
	Short:   "Classify one or more GenBank records (.gb, .gbk)",
	Args:    cobra.MinimumNArgs(1),
	Example: "  bgcclass classify --backend knn cluster1.gbk cluster2.gb",
	RunE:    runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&backendName, "backend", "b", "all", "classifier backend, or \"all\"")
	classifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(classifyCmd)
}

// fileResult is the JSON form of one classified file.
type fileResult struct {
	File        string                  `json:"file"`
	Cluster     model.Cluster           `json:"bio_cluster,omitempty"`
	Predictions []classifier.Prediction `json:"predictions,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Kind        string                  `json:"kind,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var backends []classifier.Backend
	if backendName != "all" {
		b, ok := classifier.ParseBackend(backendName)
		if !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnknownBackend, backendName)
		}
		backends = append(backends, b)
	}

	artifacts, err := openArtifacts(cfg)
	if err != nil {
		return err
	}

	results := make([]fileResult, 0, len(args))
	failed := 0
	for _, path := range args {
		res := classifyFile(cmd, artifacts.Analysis, path, backends)
		if res.Error != "" {
			failed++
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else if err := render.WriteResultTable(out, tableRows(results), cfg.Classes); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func classifyFile(cmd *cobra.Command, analysis *model.Analysis, path string, backends []classifier.Backend) fileResult {
	res := fileResult{File: filepath.Base(path)}
	fail := func(err error) fileResult {
		logger.Debug("Classification failed", zap.String("file", path), zap.Error(err))
		res.Error = err.Error()
		res.Kind = errs.Kind(err)
		return res
	}

	if err := genbank.CheckExtension(path); err != nil {
		return fail(err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	report, err := analysis.Analyze(cmd.Context(), f, backends...)
	if err != nil {
		return fail(err)
	}
	res.Cluster = report.Cluster
	res.Predictions = report.Predictions
	return res
}

func tableRows(results []fileResult) []render.ClassificationRow {
	var rows []render.ClassificationRow
	for _, r := range results {
		if r.Error != "" {
			rows = append(rows, render.ClassificationRow{File: r.File, Backend: backendName, Err: fmt.Errorf("%s", r.Error)})
			continue
		}
		for _, p := range r.Predictions {
			rows = append(rows, render.ClassificationRow{
				File:          r.File,
				Backend:       p.Backend.String(),
				Proteins:      len(r.Cluster),
				Class:         p.Class,
				Probabilities: p.Probabilities,
			})
		}
	}
	return rows
}
