package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dto-generator/internal/config"
)

type cliOptions struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	defaults := config.Default()
	opts := cliOptions{
		cfg:    defaults,
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "dto-generator",
		Short:         "Generate DTO structs and mappers from annotated Go types",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadOptions(cmd, &opts)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./dto-generator.yaml when present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print info diagnostics")

	flags.String("dir", defaults.Dir, "working directory for package patterns")
	flags.StringSliceP("packages", "p", defaults.Packages, "Go package patterns to scan")
	flags.StringP("mapping", "m", defaults.MappingFile, "YAML or TOML mapping file")
	flags.String("output-pkg", defaults.Output.Package, "import path of a separate DTO package")
	flags.String("output-name", defaults.Output.PackageName, "package name of the DTO package")
	flags.String("output-dir", defaults.Output.Dir, "directory of the DTO package")
	flags.String("suffix", defaults.Output.Suffix, "generated file name suffix")
	flags.Bool("comments", defaults.Output.Comments, "emit doc comments on generated code")
	flags.Int("concurrency", defaults.Concurrency, "parallel resolutions (0 = GOMAXPROCS)")
	flags.Bool("strict", defaults.Strict, "fail without writing when any spec fails to resolve")
	flags.Int("suggestions", defaults.MaxSuggestions, "max \"did you mean\" suggestions per diagnostic")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.Bool("dev-log", defaults.Log.Development, "human readable development logs")

	root.AddCommand(
		newGenerateCmd(&opts),
		newCheckCmd(&opts),
		newWatchCmd(&opts),
		newExportCmd(&opts),
		newExplainCmd(&opts),
	)

	return root
}

func loadOptions(cmd *cobra.Command, opts *cliOptions) error {
	flags := cmd.Flags()

	searchDir := "."
	if flags.Changed("dir") {
		searchDir, _ = flags.GetString("dir")
	}

	cfg, err := config.Load(opts.configPath, searchDir, flags)
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	opts.cfg = cfg
	opts.logger = logger.Named("dto-generator")

	if cfg.File != "" {
		opts.logger.Debug("config loaded", zap.String("path", cfg.File))
	}

	return nil
}
