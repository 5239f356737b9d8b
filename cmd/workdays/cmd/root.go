package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wolfman30/working-days-api/internal/app/bootstrap"
	appconfig "github.com/wolfman30/working-days-api/internal/config"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

type rootOptions struct {
	holidaysURL string
	timezone    string
	logLevel    string
	jsonOutput  bool
}

// NewRootCmd builds the workdays command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "workdays",
		Short: "Colombian business days and hours calculator",
		Long: `workdays adds business days and hours to an instant using the
Colombian business calendar (Monday to Friday, 08:00-12:00 and 13:00-17:00
America/Bogota, minus national holidays).

Configuration is read from the same environment variables as the API
server; flags override them.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.holidaysURL, "holidays-url", "", "holiday list URL (default: HOLIDAYS_API_URL)")
	flags.StringVar(&opts.timezone, "timezone", "", "IANA zone of the calendar (default: TIMEZONE)")
	flags.StringVar(&opts.logLevel, "log-level", "error", "log level written to stderr")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of plain text")

	rootCmd.AddCommand(
		newCalcCmd(opts),
		newHolidaysCmd(opts),
		newTZCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI with process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) config() *appconfig.Config {
	cfg := appconfig.Load()
	if o.holidaysURL != "" {
		cfg.HolidaysURL = o.holidaysURL
	}
	if o.timezone != "" {
		cfg.Timezone = o.timezone
	}
	return cfg
}

func (o *rootOptions) logger(cmd *cobra.Command) *logging.Logger {
	return logging.NewWithWriter(cmd.ErrOrStderr(), o.logLevel)
}

func (o *rootOptions) runtime(ctx context.Context, cmd *cobra.Command) (*bootstrap.Runtime, error) {
	rt, err := bootstrap.BuildRuntime(ctx, o.config(), o.logger(cmd), nil)
	if err != nil {
		return nil, fmt.Errorf("workdays: %w", err)
	}
	return rt, nil
}

func (o *rootOptions) print(w io.Writer, plain string, payload any) error {
	if !o.jsonOutput {
		_, err := fmt.Fprintln(w, plain)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
