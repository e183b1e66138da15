// The cmd directory contains the auctionet binaries:
//
//   - auctiond: the auction coordination server
//   - directory: the peer discovery and announce service
//   - auctionctl: command-line client for opening, bidding on and
//     closing auctions
package cmd
