package commands

import (
	"github.com/spf13/cobra"

	"github.com/auctionet/auctionet/service"
)

// close <auction-id>: settle an auction this client opened.
func closeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <auction-id>",
		Short: "Close an auction and announce the winner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &service.CloseRequest{
				ID:    args[0],
				Owner: selfPub.String(),
			}
			return invoke(cmd.Context(), service.OpCloseAuction, req)
		},
	}
}
