package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoami: print this client's public key, the identity auctions are
// owned and bids are placed under.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print this client's public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(selfPub.String())
			return nil
		},
	}
}
