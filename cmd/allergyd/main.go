package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leengari/allergy-lookup/internal/config"
	"github.com/leengari/allergy-lookup/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	v          *viper.Viper
	configFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "allergyd",
		Short:         "Free-text lookup over an allergy dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./allergy.yaml if present)")
	flags.String("dataset", "", "dataset path (.xlsx, .csv, .tsv, .parquet or table directory)")
	flags.String("log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	flags.String("log-format", "", "log format: text or json")
	flags.String("seq-url", "", "Seq ingestion URL (optional)")

	_ = a.v.BindPFlag("dataset.path", flags.Lookup("dataset"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("log.seq_url", flags.Lookup("seq-url"))

	root.AddCommand(newServeCmd(a), newSearchCmd(a), newReplCmd(a))
	return root
}

// setup loads configuration and builds the logger
func (a *app) setup() (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closeFn := logging.SetupLogger(logging.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		SeqURL:    cfg.Log.SeqURL,
		AddSource: cfg.Log.AddSource,
		Output:    os.Stderr,
	})
	slog.SetDefault(logger)
	return cfg, logger, closeFn, nil
}
