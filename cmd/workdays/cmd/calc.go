package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/internal/workdays"
)

func newCalcCmd(opts *rootOptions) *cobra.Command {
	var days, hours, date string

	calcCmd := &cobra.Command{
		Use:   "calc",
		Short: "Add business days and/or hours to an instant",
		Long: `Adds business days, then business hours, to a UTC instant and prints
the result in UTC. Without --date the current time is used.`,
		Example: `  workdays calc --days 1 --date 2025-04-10T15:00:00.000Z
  workdays calc --hours 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if cmd.Flags().Changed("days") {
				q.Set("days", days)
			}
			if cmd.Flags().Changed("hours") {
				q.Set("hours", hours)
			}
			if cmd.Flags().Changed("date") {
				q.Set("date", date)
			}

			ctx := cmd.Context()
			rt, err := opts.runtime(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			req, err := workdays.ParseRequest(q, rt.Limits)
			if err != nil {
				return err
			}
			result, err := rt.Engine.Calculate(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", workdays.ErrorCode(err), err)
			}

			formatted := timezone.FormatUTCISO(result, req.Precision)
			return opts.print(cmd.OutOrStdout(), formatted, map[string]string{"date": formatted})
		},
	}

	calcCmd.Flags().StringVar(&days, "days", "", "business days to add")
	calcCmd.Flags().StringVar(&hours, "hours", "", "business hours to add")
	calcCmd.Flags().StringVar(&date, "date", "", "start instant, UTC ISO 8601 ending in Z")
	return calcCmd
}
