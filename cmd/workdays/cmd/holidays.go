package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/working-days-api/internal/timezone"
)

func newHolidaysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays",
		Short: "List the national holidays currently in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := opts.runtime(ctx, cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			dates, err := rt.Holidays.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("fetch holidays: %w", err)
			}
			if dates == nil {
				dates = []timezone.Date{}
			}

			lines := make([]string, len(dates))
			for i, d := range dates {
				lines[i] = d.String()
			}
			return opts.print(cmd.OutOrStdout(), strings.Join(lines, "\n"), map[string]any{
				"holidays": dates,
				"count":    len(dates),
			})
		},
	}
}
