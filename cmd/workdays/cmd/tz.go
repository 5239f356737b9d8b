package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/working-days-api/internal/timezone"
)

type tzReport struct {
	timezone.DebugInfo
	Position   string `json:"position"`
	Normalized string `json:"normalized"`
}

func newTZCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tz [instant]",
		Short: "Show an instant in UTC and regional time",
		Long: `Shows a UTC instant (default: now) in both UTC and the regional zone,
where it falls in the business day, and where normalization moves it.
Holidays are not consulted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := opts.runtime(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			instant := rt.Converter.Now()
			if len(args) == 1 {
				if instant, _, err = timezone.ParseUTCISO(args[0]); err != nil {
					return err
				}
			}

			report := tzReport{
				DebugInfo:  rt.Converter.Describe(instant),
				Position:   rt.Engine.Classify(rt.Converter.ToLocal(instant)).String(),
				Normalized: timezone.FormatUTCISO(rt.Engine.Normalize(instant), timezone.PrecisionMillisecond),
			}

			var b strings.Builder
			fmt.Fprintf(&b, "zone:       %s\n", report.Zone)
			fmt.Fprintf(&b, "utc:        %s\n", report.UTCFormatted)
			fmt.Fprintf(&b, "local:      %s\n", report.LocalFormatted)
			fmt.Fprintf(&b, "position:   %s\n", report.Position)
			fmt.Fprintf(&b, "normalized: %s", report.Normalized)
			return opts.print(cmd.OutOrStdout(), b.String(), report)
		},
	}
}
