package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/auctionet/auctionet/crypto"
	"github.com/auctionet/auctionet/directory"
	"github.com/auctionet/auctionet/identity"
	"github.com/auctionet/auctionet/service"
	"github.com/auctionet/auctionet/transport"
)

var (
	home         string
	directoryURL string
	serverKey    string

	selfPub   crypto.PublicKey
	requester *transport.HTTPRequester
)

func Execute() error {
	root := &cobra.Command{
		Use:   "auctionctl",
		Short: "Auction coordination client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".auctionet")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			seedLog, err := identity.NewFileSeedLog(filepath.Join(home, "seeds.jsonl"))
			if err != nil {
				return err
			}
			store, err := identity.NewStore(seedLog)
			if err != nil {
				return err
			}
			selfPub, _, err = store.ServiceKeyPair(cmd.Context())
			if err != nil {
				return err
			}

			if directoryURL == "" {
				return fmt.Errorf("--directory is required")
			}
			client, err := directory.NewClient(directoryURL, nil)
			if err != nil {
				return err
			}
			requester, err = transport.NewHTTPRequester(client, selfPub, nil)
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "identity dir (default ~/.auctionet)")
	root.PersistentFlags().StringVar(&directoryURL, "directory", "", "directory base URL (e.g. http://127.0.0.1:8090)")
	root.PersistentFlags().StringVar(&serverKey, "server", "", "auction server public key (hex)")

	root.AddCommand(openCmd(), bidCmd(), closeCmd(), whoamiCmd())
	return root.Execute()
}

// invoke sends one operation to the configured server and prints the
// response. Domain rejections come back as errors with their code.
func invoke[T any](ctx context.Context, op service.Operation, req *T) error {
	if serverKey == "" {
		return fmt.Errorf("--server is required")
	}
	key, err := crypto.NewPublicKeyFromString(serverKey)
	if err != nil {
		return fmt.Errorf("invalid server key: %w", err)
	}

	payload, err := service.EncodeMessage(req)
	if err != nil {
		return err
	}

	respBytes, err := requester.Request(ctx, key, string(op), payload)
	if err != nil {
		return err
	}

	resp, err := service.DecodeMessage[service.Response](respBytes)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if !resp.OK {
		if resp.Error != nil {
			return fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
		}
		return fmt.Errorf("request rejected")
	}

	if resp.Message != "" {
		fmt.Println(resp.Message)
	}
	if len(resp.Result) > 0 {
		fmt.Println(string(resp.Result))
	}
	return nil
}
