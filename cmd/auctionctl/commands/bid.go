package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/auctionet/auctionet/service"
)

// bid <auction-id> <amount>: bid on a live auction as this client.
func bidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bid <auction-id> <amount>",
		Short: "Place a bid on an auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			req := &service.BidRequest{
				ID:           args[0],
				Bid:          amount,
				BidderPubKey: selfPub.String(),
			}
			return invoke(cmd.Context(), service.OpPlaceBid, req)
		},
	}
}
