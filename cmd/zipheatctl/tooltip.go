package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTooltipCmd(configFile *string) *cobra.Command {
	var (
		html       bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "tooltip <id>",
		Short: "Format the hover tooltip for a feature of the dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}
			defer svc.Stop()

			spec, err := svc.Tooltip(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				return printJSON(out, spec)
			case html:
				_, err := fmt.Fprintln(out, spec.HTML())
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			for _, r := range spec.Rows {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", r.Label, r.Value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Print the tooltip markup")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
