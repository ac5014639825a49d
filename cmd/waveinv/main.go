// SPDX-License-Identifier: MIT

// Command waveinv runs one linear waveform inversion described by a YAML
// run file.
//
//	waveinv --config run.yaml [--method svd --method cg] [--output-dir out]
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/waveinv/inversion"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// flags holds the command-line overrides of the run file.
type flags struct {
	config    string
	outputDir string
	methods   []string
	weighting string
	workers   int
	bornRank  int
	logLevel  string
	dev       bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "waveinv",
		Short:         "Linear waveform inversion for Earth structure",
		Long:          "waveinv assembles the linearised observation equation from observed, synthetic and partial-derivative waveforms, solves it by truncated SVD and/or conjugate gradients, and writes the model family with its variance and AIC.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(f.logLevel, f.dev)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := inversion.LoadConfig(f.config)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			run, err := inversion.New(cfg, logger)
			if err != nil {
				return err
			}
			if err := run.Execute(); err != nil {
				return err
			}
			logger.Info("inversion finished", zap.String("output_dir", cfg.OutputDir))

			return nil
		},
	}

	f.bind(cmd)
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (f *flags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "YAML run file")
	fl.StringVarP(&f.outputDir, "output-dir", "o", "", "output directory (overrides config)")
	fl.StringSliceVarP(&f.methods, "method", "m", nil, "solver methods: svd, cg (overrides config)")
	fl.StringVar(&f.weighting, "weighting", "", "window weighting: identity, amplitude, table (overrides config)")
	fl.IntVarP(&f.workers, "workers", "j", 0, "worker goroutines, 0 for GOMAXPROCS (overrides config)")
	fl.IntVar(&f.bornRank, "born-rank", 0, "rank whose Born waveforms are written (overrides config)")
	fl.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fl.BoolVar(&f.dev, "dev", false, "human-readable development logging")
}

// apply copies every flag the user set onto cfg and revalidates it.
func (f *flags) apply(cmd *cobra.Command, cfg *inversion.Config) error {
	fl := cmd.Flags()
	if fl.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if fl.Changed("method") {
		cfg.Methods = f.methods
	}
	if fl.Changed("weighting") {
		cfg.Weighting = f.weighting
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("born-rank") {
		cfg.BornRank = f.bornRank
	}

	return cfg.Validate()
}

// newLogger builds a production JSON logger, or a console logger when dev
// is set, at the given level.
func newLogger(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("waveinv: %w", err)
	}
	zc := zap.NewProductionConfig()
	if dev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)

	return zc.Build()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "waveinv:", err)
		os.Exit(1)
	}
}
