package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfield"
	"github.com/goliatone/go-formfield/pkg/form"
	"github.com/goliatone/go-formfield/pkg/renderers/tui"
)

var errInvalidData = errors.New("data is invalid")

type sourceFlags struct {
	definition string
	openapi    string
	operation  string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.definition, "definition", "", "form definition file (YAML or JSON)")
	cmd.Flags().StringVar(&s.openapi, "openapi", "", "OpenAPI document to derive the form from")
	cmd.Flags().StringVar(&s.operation, "operation", "", "operation id inside the OpenAPI document")
}

func (s *sourceFlags) source() formfield.Source {
	return formfield.Source{DefinitionPath: s.definition, OpenAPIPath: s.openapi, OperationID: s.operation}
}

func newPromptCmd(a *app) *cobra.Command {
	var (
		src    sourceFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Interactively fill in a form and print the submitted data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			def, f, err := formfield.New(ctx, src.source(), form.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer unmountAll(f)

			opts := []tui.Option{
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(a.logger),
				tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
			}
			if a.driver != nil {
				opts = append(opts, tui.WithPromptDriver(a.driver))
			}
			payload, err := tui.New(opts...).Run(ctx, def, f)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, payload, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				a.logger.Info("form written", zap.String("path", output), zap.Int("bytes", len(payload)))
				fmt.Fprintf(cmd.OutOrStdout(), "Form written to %s\n", output)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		src      sourceFlags
		dataPath string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON payload against a form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var data map[string]any
			if dataPath != "" {
				raw, err := os.ReadFile(dataPath)
				if err != nil {
					return fmt.Errorf("read data: %w", err)
				}
				if err := json.Unmarshal(raw, &data); err != nil {
					return fmt.Errorf("parse data %s: %w", dataPath, err)
				}
			}

			_, f, err := formfield.New(ctx, src.source(), form.WithLogger(a.logger), form.WithDefaults(data))
			if err != nil {
				return err
			}
			defer unmountAll(f)

			if f.Validate(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}

			errs := f.Errors()
			paths := make([]string, 0, len(errs))
			for path := range errs {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, strings.Join(errs[path], ", "))
			}
			return fmt.Errorf("%w: %d field(s) failed", errInvalidData, len(paths))
		},
	}
	src.register(cmd)
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON payload to validate")
	return cmd
}

func newOperationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "operations <openapi-file>",
		Short: "List the operations of an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := formfield.Operations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("operations listed", zap.Int("count", len(ops)))
			for _, op := range ops {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
			}
			return nil
		},
	}
}

func unmountAll(f *form.Form) {
	for _, fd := range f.Fields() {
		fd.Unmount()
	}
}
