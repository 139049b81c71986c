package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/sentinel-predict-service/internal/config"
	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
	"github.com/kjstillabower/sentinel-predict-service/internal/forecast"
	"github.com/kjstillabower/sentinel-predict-service/internal/locale"
	"github.com/kjstillabower/sentinel-predict-service/internal/random"
	"github.com/kjstillabower/sentinel-predict-service/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	seed       uint64
	seedSet    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	serve := newServeCmd(opts)

	root := &cobra.Command{
		Use:           "sentinel",
		Short:         "Sentinel hospital load prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (default config/{ENV_NAME}.yaml)")
	root.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "random seed; overrides RANDOM_SEED and random.seed")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		opts.seedSet = cmd.Flags().Changed("seed")
	}

	root.AddCommand(serve, newPredictCmd(opts))
	return root
}

// loadConfig reads the configured file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.seedSet {
		cfg.RandomSeed = o.seed
	}
	return cfg, nil
}

// predictionStack is everything a prediction needs, built once per process.
type predictionStack struct {
	table   *facility.Table
	service *service.PredictionService
}

func buildStack(cfg *config.Config) (*predictionStack, error) {
	table, err := cfg.FacilityTable()
	if err != nil {
		return nil, fmt.Errorf("facility table: %w", err)
	}
	catalog, err := locale.New()
	if err != nil {
		return nil, fmt.Errorf("message catalog: %w", err)
	}
	gen := forecast.NewGenerator(table, random.NewDistribution(cfg.RandomSeed), catalog, forecast.Options{
		Location:  cfg.AlertLocation,
		Heartbeat: cfg.AlertHeartbeat,
	})
	return &predictionStack{table: table, service: service.NewPredictionService(gen)}, nil
}
