// Command auctionctl is the command-line auction client.
//
// It keeps a seed-derived identity under --home and talks to an auction
// server addressed by its public key, resolved through the directory:
//
//	auctionctl --directory=http://localhost:8090 --server=<hex key> open "Pablo Picasso" 75
//	auctionctl --directory=http://localhost:8090 --server=<hex key> bid <auction-id> 80
//	auctionctl --directory=http://localhost:8090 --server=<hex key> close <auction-id>
package main

import (
	"fmt"
	"os"

	"github.com/auctionet/auctionet/cmd/auctionctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
