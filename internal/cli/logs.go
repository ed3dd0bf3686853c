package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"activityapi/internal/shared"
)

func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Read and append log entries",
	}
	cmd.AddCommand(newLogsListCommand(rootOpts))
	cmd.AddCommand(newLogsAddCommand(rootOpts))
	return cmd
}

func newLogsListCommand(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the newest log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := opts.Client().ListLogs(cmd.Context(), limit)
			if err != nil {
				return requestError("list logs", err)
			}
			return opts.formatter(cmd).Success(entries, func(w io.Writer) {
				if len(entries) == 0 {
					fmt.Fprintln(w, "(no entries)")
				}
				for _, e := range entries {
					fmt.Fprintf(w, "%-16s %-8s %s\n", when(e.CreatedAt), e.Type, e.Message)
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of entries (server caps at 10)")
	return cmd
}

func newLogsAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <type> <message>...",
		Short: "Append a log entry",
		Long: `Append a log entry. Remaining arguments are joined into the message.

Example:
  activity-admin logs add tech shipped the reorder endpoint`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, msg := args[0], strings.Join(args[1:], " ")
			if err := opts.Client().CreateLog(cmd.Context(), typ, msg); err != nil {
				return requestError("add log", err)
			}
			return opts.formatter(cmd).Success(shared.SuccessResponse{Success: true}, func(w io.Writer) {
				fmt.Fprintf(w, "logged %s: %s\n", typ, msg)
			})
		},
	}
}

// when renders an RFC3339 timestamp relative to now, or returns it unchanged
// if it does not parse.
func when(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return humanize.Time(t)
}
