package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iwvelando/flip-calculator/internal/form"
	"github.com/iwvelando/flip-calculator/pkg/output"
	"github.com/iwvelando/flip-calculator/pkg/validation"
)

func flagName(f form.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func newCalcCmd(a *app) *cobra.Command {
	values := make(map[form.Field]*string, len(form.Fields))
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Validate the figures given as flags and print the calculation summary",
		Example: "  flip-calculator calc --purchase-price 100000 --stamp-duty 3000 --legal-fees 1000 \\\n" +
			"    --agent-fees-buy 1500 --renovation-costs 5000 --resale-price 150000 --selling-costs 4000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat == "" {
				outputFormat = a.conf.Output.Format
			}
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}

			ctrl := form.NewController(a.calc, a.logger)
			for _, f := range form.Fields {
				if _, err := ctrl.Edit(f, *values[f]); err != nil {
					return err
				}
			}

			errOut := cmd.ErrOrStderr()
			if err := ctrl.Submit(cmd.Context()); err != nil {
				state := ctrl.State()
				for _, f := range form.Fields {
					if msg := state.Errors[f]; msg != "" {
						fmt.Fprintf(errOut, "--%s: %s\n", flagName(f), msg)
					}
				}
				fmt.Fprintf(errOut, "Error: %s\n", state.SubmissionError)
				return errReported
			}

			state := ctrl.State()
			return output.Write(cmd.OutOrStdout(), outputFormat, output.Report{
				Inputs: ctrl.Payload(),
				Result: *state.Result,
			})
		},
	}

	for _, f := range form.Fields {
		values[f] = cmd.Flags().String(flagName(f), "", f.Label()+" (£)")
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json, yaml")
	return cmd
}
