package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formfield/pkg/renderers/tui"
)

type app struct {
	verbose bool
	logger  *zap.Logger
	out     io.Writer
	driver  tui.PromptDriver
}

func newApp() *app {
	return &app{logger: zap.NewNop(), out: os.Stdout}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formfield",
		Short:         "Fill in and validate forms described by definitions or OpenAPI operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := buildLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			cmd.SetOut(a.out)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newPromptCmd(a), newValidateCmd(a), newOperationsCmd(a))
	return root
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return config.Build()
}
