package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cube2222/octosubstrait/config"
	"github.com/cube2222/octosubstrait/extensions"
	"github.com/cube2222/octosubstrait/functions"
	"github.com/cube2222/octosubstrait/logs"
	"github.com/cube2222/octosubstrait/lookup"
	"github.com/cube2222/octosubstrait/outputs/formats"
)

var configPath string
var extensionPaths []string
var verbose bool
var outputFormat string

var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "octosubstrait",
	Short: "Inspect Substrait type signatures and function variant resolution.",
	Long: `octosubstrait decodes Substrait type signatures, resolves function calls
against Substrait extension declarations, and shows the extension section
a plan using those functions would carry.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.ReadConfig(configPath)
		} else {
			cfg, err = config.Read()
		}
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		if cfg.Logging.File {
			logs.InitializeFileLogger(level)
		} else if verbose {
			logs.InitializeStderrLogger(level)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logs.CloseLogger()
	},
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file. Defaults to ~/.octosubstrait/config.yaml.")
	rootCmd.PersistentFlags().StringArrayVar(&extensionPaths, "extension", nil, "Additional extension declaration file. Can be repeated.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information to stderr.")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table, csv or json.")
}

type environment struct {
	catalog   *functions.Catalog
	scalar    *lookup.FunctionLookup
	aggregate *lookup.FunctionLookup
	types     *lookup.TypeLookup
}

func loadEnvironment() (*environment, error) {
	catalog := functions.NewCatalog(nil, nil)
	if !cfg.NoDefaultExtensions {
		defaults, err := extensions.LoadDefault()
		if err != nil {
			return nil, errors.Wrap(err, "couldn't load default extensions")
		}
		catalog = catalog.Merge(defaults)
	}

	paths := append(append([]string(nil), cfg.Extensions...), extensionPaths...)
	additional, err := extensions.Load(paths...)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't load extensions")
	}
	catalog = catalog.Merge(additional)

	mappings := lookup.DefaultMappings().With(lookup.MapMappings{
		Scalar:    cfg.FunctionMappings.Scalar,
		Aggregate: cfg.FunctionMappings.Aggregate,
		Window:    cfg.FunctionMappings.Window,
	})

	logs.Logger().Debug("loaded function catalog",
		zap.Int("scalar", len(catalog.ScalarVariants())),
		zap.Int("aggregate", len(catalog.AggregateVariants())),
		zap.Int("types", len(catalog.Types())),
	)

	return &environment{
		catalog:   catalog,
		scalar:    lookup.NewScalarFunctionLookup(catalog, mappings),
		aggregate: lookup.NewAggregateFunctionLookup(catalog, mappings),
		types:     lookup.NewTypeLookup(catalog.Types()),
	}, nil
}

func newFormatter(columns ...string) (formats.Formatter, error) {
	formatter, err := formats.New(outputFormat, os.Stdout)
	if err != nil {
		return nil, err
	}
	formatter.SetHeader(columns)
	return formatter, nil
}
