package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/zipheat/internal/domain/colorscale"
)

type colorRow struct {
	Input  string           `json:"input"`
	Bucket int              `json:"bucket"`
	Color  colorscale.Color `json:"color"`
	Hex    string           `json:"hex"`
}

func newColorCmd(configFile *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "color <value>...",
		Short: "Show the bucket and color for metric values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			rows := make([]colorRow, 0, len(args))
			for _, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", arg, err)
				}
				bucket, c := svc.ColorForValue(v)
				rows = append(rows, colorRow{Input: arg, Bucket: bucket, Color: c, Hex: c.Hex()})
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, "Value\tBucket\tColor")
			for _, r := range rows {
				bucket := strconv.Itoa(r.Bucket)
				if r.Bucket == colorscale.NoDataBucket {
					bucket = "no data"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Input, bucket, r.Hex)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
