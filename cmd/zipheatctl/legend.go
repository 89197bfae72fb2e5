package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLegendCmd(configFile *string) *cobra.Command {
	var (
		ticks      int
		reversed   bool
		svg        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the legend entries or the legend SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ticks") {
				cfg.Legend.Ticks = ticks
			}
			if cmd.Flags().Changed("reversed") {
				cfg.Legend.Reversed = reversed
			}
			if cfg.Legend.Ticks < 0 {
				return fmt.Errorf("invalid tick count %d", cfg.Legend.Ticks)
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}
			n, rev := svc.LegendDefaults()

			if svg {
				doc, err := svc.LegendSVG(n, rev)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}

			entries := svc.Legend(n, rev)
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"title":   svc.LegendTitle(),
					"entries": entries,
				})
			}

			out := cmd.OutOrStdout()
			if title := svc.LegendTitle(); len(title) > 0 {
				_, _ = fmt.Fprintln(out, strings.Join(title, " "))
			}
			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, "Label\tValue\tColor")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%g\t%s\n", e.Label, e.Value, e.Color.Hex())
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "Number of legend entries (default from config)")
	cmd.Flags().BoolVar(&reversed, "reversed", false, "List entries from high to low (default from config)")
	cmd.Flags().BoolVar(&svg, "svg", false, "Write the legend as SVG")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
