package main

import (
	"errors"
	"fmt"

	"github.com/Muhammadkaif97/cpn-calculator/internal/scoring"
	"github.com/spf13/cobra"
)

func newCalculateCmd() *cobra.Command {
	var (
		in     scoring.Input
		output string
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute the CPN aggregate",
		Long: `Compute CPN = 0.6 x test + 0.3 x intermediate + 0.1 x matric.

Matric and intermediate can be given as percentages or as obtained/total marks:

  cpn calculate --matric 85 --inter 78 --test 64
  cpn calculate --matric-obtained 935 --matric-total 1100 --inter 78 --test 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := in.Evaluate()
			if err != nil {
				return errors.New(userMessage(err))
			}

			switch output {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), result)
			case formatText:
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "CPN: %s\n", result.Display)
				return err
			default:
				return fmt.Errorf("unknown output format %q (use text or json)", output)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.Matric.Percentage, "matric", "", "Matric percentage")
	flags.StringVar(&in.Matric.Obtained, "matric-obtained", "", "Matric obtained marks")
	flags.StringVar(&in.Matric.Total, "matric-total", "", "Matric total marks")
	flags.StringVar(&in.Inter.Percentage, "inter", "", "Intermediate percentage")
	flags.StringVar(&in.Inter.Obtained, "inter-obtained", "", "Intermediate obtained marks")
	flags.StringVar(&in.Inter.Total, "inter-total", "", "Intermediate total marks")
	flags.StringVar(&in.TestScore, "test", "", "Entry test score (0-100)")
	flags.StringVarP(&output, "output", "o", formatText, "Output format: text or json")

	return cmd
}
