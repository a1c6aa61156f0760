package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/bgcclass/logger"
	"github.com/yumyai/bgcclass/pkg/config"
	"github.com/yumyai/bgcclass/pkg/db"
)

var (
	envFile    string
	configPath string
	modelsDir  string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "bgcclass",
	Short:   "Classify biosynthetic gene clusters from GenBank records",
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.WarnLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		if err := logger.InitLogger(level); err != nil {
			return err
		}
		// BGC_* values from the env file apply unless already set in the environment.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", envFile, err)
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with BGC_* variables, skipped when missing")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $BGC_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&modelsDir, "models", "m", "", "model directory, overrides models.dir")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

func loadConfig() (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if modelsDir != "" {
		cfg.Models.Dir = modelsDir
	}
	return cfg, nil
}

// openArtifacts loads every artifact and checks the class names against the classifiers.
func openArtifacts(cfg *config.AppConfig) (*db.Artifacts, error) {
	store, err := db.NewModelStore(cfg.Models.Dir, cfg.Models.ArtifactFiles)
	if err != nil {
		return nil, err
	}
	artifacts, err := db.Open(store, db.EmbeddingOptions{
		K:            cfg.Embedding.K,
		AllowUnknown: cfg.Embedding.AllowUnknown,
		CacheSize:    cfg.Embedding.CacheSize,
	})
	if err != nil {
		return nil, err
	}
	if n := artifacts.Analysis.NumClasses(); n != len(cfg.Classes) {
		return nil, fmt.Errorf("classifiers have %d classes but %d class names are configured", n, len(cfg.Classes))
	}
	return artifacts, nil
}
