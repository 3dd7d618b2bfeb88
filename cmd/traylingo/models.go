package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/traylingo/traylingo/pkg/pricing"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models and their pricing",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tINPUT $/M\tOUTPUT $/M")
			for _, m := range pricing.AvailableModels {
				p := pricing.For(m.ID)
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\n", m.ID, m.Name, p.InputPerMillion, p.OutputPerMillion)
			}
			return w.Flush()
		},
	}
}
