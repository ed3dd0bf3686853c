package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"activityapi/internal/client"
	"activityapi/internal/shared"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	BaseURL string
	Token   string
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// Client builds an API client from the resolved flags.
func (o *RootOptions) Client() *client.Client {
	return client.New(&shared.ClientConfig{BaseURL: o.BaseURL, AdminToken: o.Token, Timeout: o.Timeout})
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// NewRootCommand creates the root command for activity-admin. Connection
// flags default to ACTIVITY_BASE_URL, ADMIN_TOKEN and ACTIVITY_CLIENT_TIMEOUT.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cfg, cfgErr := shared.LoadClientConfig()
	if cfgErr != nil {
		cfg = &shared.ClientConfig{BaseURL: "http://localhost:8085", Timeout: 20 * time.Second}
	}

	cmd := &cobra.Command{
		Use:   "activity-admin",
		Short: "Manage a running activity API",
		Long:  "Read and edit status items and log entries on an activity API server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "load client config", cfgErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", cfg.BaseURL, "server base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", cfg.AdminToken, "admin token for mutating commands")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", cfg.Timeout, "HTTP timeout")

	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewSmokeCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are rendered to stderr, or to stdout as an envelope in json or yaml format.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	f := &OutputFormatter{Format: "text", Writer: stderr}
	if flag := cmd.PersistentFlags().Lookup("format"); flag != nil {
		if format := flag.Value.String(); format == "json" || format == "yaml" {
			f = &OutputFormatter{Format: format, Writer: stdout}
		}
	}
	_ = f.Error(err)
	return GetExitCode(err)
}
