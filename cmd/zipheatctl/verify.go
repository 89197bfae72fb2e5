package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/zipheat/internal/adapters/geojson"
	"github.com/okian/zipheat/internal/verify"
)

var errVerifyFailed = errors.New("server disagrees with local computation")

func newVerifyCmd(configFile *string) *cobra.Command {
	var (
		url     string
		workers int
		timeout time.Duration
		rps     float64
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare a running server's colors and tooltips with local ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}
			vc := verify.Config{
				BaseURL:     cfg.Verify.URL,
				Workers:     cfg.Verify.Workers,
				Timeout:     time.Duration(cfg.Verify.TimeoutMS) * time.Millisecond,
				MetricField: cfg.MetricField,
				Rate:        cfg.Verify.Rate,
			}
			if cmd.Flags().Changed("url") {
				vc.BaseURL = url
			}
			if cmd.Flags().Changed("workers") {
				vc.Workers = workers
			}
			if cmd.Flags().Changed("timeout") {
				vc.Timeout = timeout
			}
			if cmd.Flags().Changed("rate") {
				vc.Rate = rps
			}

			scale, err := cfg.BuildScale()
			if err != nil {
				return err
			}
			if vc.Tooltips, err = cfg.BuildTooltip(); err != nil {
				return err
			}
			ds, err := geojson.LoadFile(cmd.Context(), cfg.DataPath(), cfg.IDField)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}

			report, err := verify.Run(cmd.Context(), vc, ds, scale)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, report.String())
			if len(report.Mismatches) > 0 {
				w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
				_, _ = fmt.Fprintln(w, "Check\tID\tWant\tGot")
				for _, m := range report.Mismatches {
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Check, m.ID, m.Want, m.Got)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			if !report.OK() {
				return errVerifyFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Base URL of the running server (default from config)")
	cmd.Flags().IntVar(&workers, "workers", verify.DefaultWorkers, "Concurrent tooltip fetchers")
	cmd.Flags().DurationVar(&timeout, "timeout", verify.DefaultTimeout, "Per-request timeout")
	cmd.Flags().Float64Var(&rps, "rate", 0, "Tooltip requests per second, 0 for unlimited")
	return cmd
}
