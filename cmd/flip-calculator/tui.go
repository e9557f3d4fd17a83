package main

import (
	"github.com/spf13/cobra"

	"github.com/iwvelando/flip-calculator/internal/form"
	"github.com/iwvelando/flip-calculator/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Fill in the calculator form in the terminal",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationFileLogsOnly: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := form.NewController(a.calc, a.logger)
			return tui.Run(cmd.Context(), ctrl)
		},
	}
}
