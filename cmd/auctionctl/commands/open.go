package commands

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/auctionet/auctionet/service"
)

// open <item> <price>: list a new auction owned by this client.
func openCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "open <item> <price>",
		Short: "Open a new auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price %q: %w", args[1], err)
			}
			if id == "" {
				id = uuid.NewString()
			}

			req := &service.OpenRequest{
				ID:    id,
				Item:  args[0],
				Price: price,
				Owner: selfPub.String(),
			}
			if err := invoke(cmd.Context(), service.OpOpenAuction, req); err != nil {
				return err
			}
			fmt.Printf("auction id: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "auction id (random if empty)")
	return cmd
}
