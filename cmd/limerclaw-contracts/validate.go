package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/limerclaw/shared-types/internal/service/validate"
)

type validateReport struct {
	Shape     string            `json:"shape"`
	Documents int               `json:"documents"`
	Invalid   int               `json:"invalid"`
	Results   []validate.Result `json:"results"`
}

func newValidateCmd(a *app) *cobra.Command {
	var shape string
	cmd := &cobra.Command{
		Use:   "validate --shape NAME FILE...",
		Short: "Check JSON or YAML documents against a contract shape",
		Long: `Check each FILE against the named shape and print a JSON report.
Use - to read one document from stdin. Exits non-zero if any document fails.`,
		Example: `  limerclaw-contracts validate --shape run_result result.json
  cat envelope.json | limerclaw-contracts validate -s envelope -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.readInputs(args)
			if err != nil {
				return err
			}

			svc := validate.New(a.logger, validate.Options{
				MaxPayloadBytes: a.cfg.MaxPayloadBytes,
				Concurrency:     a.cfg.ValidateConcurrency,
			})
			results, err := svc.ValidateAll(cmd.Context(), shape, inputs)
			if err != nil {
				return err
			}

			report := validateReport{Shape: shape, Documents: len(results), Results: results}
			for _, r := range results {
				if !r.Valid {
					report.Invalid++
				}
			}
			if err := a.printJSON(report); err != nil {
				return err
			}
			if report.Invalid > 0 {
				return fmt.Errorf("%d of %d documents failed validation", report.Invalid, report.Documents)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&shape, "shape", "s", "", "contract shape to check against (see the shapes command)")
	_ = cmd.MarkFlagRequired("shape")
	return cmd
}

func (a *app) readInputs(args []string) ([]validate.Input, error) {
	inputs := make([]validate.Input, 0, len(args))
	stdinUsed := false
	for _, arg := range args {
		var (
			data []byte
			err  error
		)
		if arg == "-" {
			if stdinUsed {
				return nil, fmt.Errorf("stdin (-) may be given only once")
			}
			stdinUsed = true
			data, err = io.ReadAll(io.LimitReader(a.stdin, a.cfg.MaxPayloadBytes+1))
		} else {
			data, err = os.ReadFile(arg)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		inputs = append(inputs, validate.Input{Source: arg, Data: data})
	}
	return inputs, nil
}

func newShapesCmd(_ *app) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the contract shapes validate accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, g := range validate.Groups() {
				if group != "" && g != group {
					continue
				}
				for _, s := range validate.InGroup(g) {
					fmt.Fprintf(out, "%-14s %s\n", g, s.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "only list shapes in this group")
	return cmd
}
