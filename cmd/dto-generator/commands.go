package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dto-generator/internal/app"
	"dto-generator/internal/mapping"
)

func newGenerateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Resolve DTO specs and write generated files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.New(opts.cfg, opts.logger).Generate(cmd.Context())
			if rerr := printResult(cmd, opts, res); rerr != nil {
				return rerr
			}

			if err != nil {
				return err
			}

			if err := res.Err(); err != nil {
				return exitWith(1, err)
			}

			return nil
		},
	}
}

func newCheckCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail when generated files are missing, stale or specs do not resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := app.New(opts.cfg, opts.logger).Check(cmd.Context())
			if rerr := printResult(cmd, opts, res); rerr != nil {
				return rerr
			}

			if err != nil {
				return err
			}

			for _, path := range res.Stale {
				fmt.Fprintf(cmd.OutOrStdout(), "stale %s\n", path)
			}

			if err := res.Err(); err != nil {
				return exitWith(1, err)
			}

			return nil
		},
	}
}

func newWatchCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever sources or the mapping file change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts.logger.Info("watching", zap.Strings("packages", opts.cfg.Packages))

			return app.New(opts.cfg, opts.logger).Watch(ctx, func(res *app.Result, err error) {
				if perr := printResult(cmd, opts, res); perr != nil {
					opts.logger.Warn("print failed", zap.Error(perr))
				}

				if err == nil && res != nil {
					err = res.Err()
				}

				if err != nil && !errors.Is(err, context.Canceled) {
					opts.logger.Error("generation failed", zap.Error(err))
				}
			})
		},
	}

	cmd.Flags().Int("debounce-ms", opts.cfg.Watch.DebounceMillis, "quiet period before regenerating")

	return cmd
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print discovered DTO specs as a mapping file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := exportFormat(format, out)
			if err != nil {
				return err
			}

			data, err := app.New(opts.cfg, opts.logger).Export(f)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)

				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			opts.logger.Info("exported", zap.String("path", out))

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "yaml or toml (default: from --out extension, else yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")

	return cmd
}

func exportFormat(format, out string) (mapping.Format, error) {
	switch strings.ToLower(format) {
	case "":
		return mapping.FormatOf(out), nil
	case string(mapping.FormatYAML), "yml":
		return mapping.FormatYAML, nil
	case string(mapping.FormatTOML):
		return mapping.FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func newExplainCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [dto-name or subject]",
		Short: "Dump resolved blueprints and their diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}

			n, err := app.New(opts.cfg, opts.logger).Explain(cmd.Context(), cmd.OutOrStdout(), filter)
			if err != nil {
				return err
			}

			if n == 0 && filter != "" {
				return exitWith(1, fmt.Errorf("no DTO matches %q", filter))
			}

			return nil
		},
	}
}

// printResult reports diagnostics to stderr and written files to stdout.
func printResult(cmd *cobra.Command, opts *cliOptions, res *app.Result) error {
	if res == nil {
		return nil
	}

	if res.Plan != nil {
		if err := app.Report(cmd.ErrOrStderr(), res.Plan.Diagnostics, opts.verbose); err != nil {
			return err
		}
	}

	return printWritten(cmd.OutOrStdout(), res.Written)
}

func printWritten(w io.Writer, paths []string) error {
	for _, path := range paths {
		if _, err := fmt.Fprintf(w, "wrote %s\n", path); err != nil {
			return err
		}
	}

	return nil
}
