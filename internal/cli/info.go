package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func NewInfoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show service info and the endpoint list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			out.VerboseLog("GET %s/", opts.BaseURL)

			info, err := opts.Client().Info(cmd.Context())
			if err != nil {
				return requestError("info", err)
			}
			return out.Success(info, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %s\n", info.Service, info.Status)
				for _, e := range info.Endpoints {
					fmt.Fprintf(w, "  %s\n", e)
				}
			})
		},
	}
}
