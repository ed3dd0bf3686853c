package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"activityapi/internal/shared"
)

// StatusOptions holds flags shared by status add and status update.
type StatusOptions struct {
	*RootOptions
	Section     string
	Title       string
	Description string
	Position    int64
	Active      bool
}

func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List and edit status items",
	}
	cmd.AddCommand(newStatusListCommand(rootOpts))
	cmd.AddCommand(newStatusAddCommand(rootOpts))
	cmd.AddCommand(newStatusUpdateCommand(rootOpts))
	cmd.AddCommand(newStatusRemoveCommand(rootOpts))
	cmd.AddCommand(newStatusReorderCommand(rootOpts))
	return cmd
}

func newStatusListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active status items by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.Client().ListStatus(cmd.Context())
			if err != nil {
				return requestError("list status", err)
			}
			return opts.formatter(cmd).Success(list, func(w io.Writer) {
				printStatusList(w, list)
			})
		},
	}
}

func printStatusList(w io.Writer, list shared.StatusList) {
	title := cases.Title(language.English)
	for _, sec := range shared.Sections {
		fmt.Fprintf(w, "%s:\n", title.String(string(sec)))
		items := list[sec]
		if len(items) == 0 {
			fmt.Fprintln(w, "  (none)")
			continue
		}
		for _, it := range items {
			fmt.Fprintf(w, "  #%d [%d] %s", it.ID, it.Position, it.Title)
			if it.Description != "" {
				fmt.Fprintf(w, " - %s", it.Description)
			}
			fmt.Fprintln(w)
		}
	}
}

func (o *StatusOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Section, "section", "", "section (building|learning)")
	cmd.Flags().StringVar(&o.Title, "title", "", "item title")
	cmd.Flags().StringVar(&o.Description, "description", "", "item description")
	cmd.Flags().Int64Var(&o.Position, "position", 0, "sort position within the section")
	cmd.Flags().BoolVar(&o.Active, "active", true, "whether the item is listed")
}

// request includes only the flags the user actually passed.
func (o *StatusOptions) request(cmd *cobra.Command) shared.StatusUpsertRequest {
	var req shared.StatusUpsertRequest
	flags := cmd.Flags()
	if flags.Changed("section") {
		req.Section = shared.Some(shared.Section(o.Section))
	}
	if flags.Changed("title") {
		req.Title = shared.Some(o.Title)
	}
	if flags.Changed("description") {
		req.Description = shared.Some(o.Description)
	}
	if flags.Changed("position") {
		req.Position = shared.Some(o.Position)
	}
	if flags.Changed("active") {
		req.IsActive = shared.Some(shared.Bool(o.Active))
	}
	return req
}

func newStatusAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a status item",
		Long: `Create a status item.

Example:
  activity-admin status add --section building --title "Activity Feed API" --position 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.request(cmd)
			if err := opts.Client().UpsertStatus(cmd.Context(), req); err != nil {
				return requestError("add status", err)
			}
			return opts.formatter(cmd).Success(shared.SuccessResponse{Success: true}, func(w io.Writer) {
				fmt.Fprintf(w, "created %q in %s\n", opts.Title, opts.Section)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newStatusUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a status item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req := opts.request(cmd)
			req.ID = shared.Some(id)
			if err := opts.Client().UpsertStatus(cmd.Context(), req); err != nil {
				return requestError("update status", err)
			}
			return opts.formatter(cmd).Success(shared.SuccessResponse{Success: true}, func(w io.Writer) {
				fmt.Fprintf(w, "updated #%d\n", id)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

func newStatusRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Hide a status item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.Client().DeleteStatus(cmd.Context(), id); err != nil {
				return requestError("remove status", err)
			}
			return opts.formatter(cmd).Success(shared.SuccessResponse{Success: true}, func(w io.Writer) {
				fmt.Fprintf(w, "removed #%d\n", id)
			})
		},
	}
}

func newStatusReorderCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <section> <id>...",
		Short: "Set positions in a section to the order given",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args)-1)
			for _, a := range args[1:] {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			section := shared.Section(args[0])
			if err := opts.Client().ReorderStatus(cmd.Context(), section, ids); err != nil {
				return requestError("reorder status", err)
			}
			return opts.formatter(cmd).Success(shared.SuccessResponse{Success: true}, func(w io.Writer) {
				fmt.Fprintf(w, "reordered %d items in %s\n", len(ids), section)
			})
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}
