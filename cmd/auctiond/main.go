// Command auctiond runs the auction coordination server.
//
// On startup the server derives its long-term identities from seeds in
// the durable seed log, announces its service public key and endpoint
// to the directory, and then serves the RPC routes. Startup is
// all-or-nothing: any infrastructure failure aborts the process rather
// than leaving it up with a fresh, unannounced identity.
//
// Auction state itself is held in memory only; auctions do not survive
// a restart.
//
// # Usage
//
//	go run ./cmd/auctiond --directory=http://localhost:8090 --endpoint=http://localhost:8080
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auctionet/auctionet/api/httpserver"
	"github.com/auctionet/auctionet/auction"
	"github.com/auctionet/auctionet/cmd/common"
	"github.com/auctionet/auctionet/crypto"
	"github.com/auctionet/auctionet/directory"
	"github.com/auctionet/auctionet/identity"
	"github.com/auctionet/auctionet/service"
	"github.com/auctionet/auctionet/transport"
)

const peerRefreshInterval = 30 * time.Second

func main() {
	var (
		configFile     = flag.String("config", "", "Optional YAML config file")
		listenAddr     = flag.String("listen", "", "HTTP listen address (overrides config)")
		directoryURL   = flag.String("directory", "", "Directory URL to announce to (overrides config)")
		publicEndpoint = flag.String("endpoint", "", "Public endpoint announced to the directory (overrides config)")
	)
	flag.Parse()

	cfg, err := common.Load(*configFile)
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *directoryURL != "" {
		cfg.DirectoryURL = *directoryURL
	}
	if *publicEndpoint != "" {
		cfg.PublicEndpoint = *publicEndpoint
	}

	log := common.NewLogger(cfg.LogJSON, cfg.LogDebug).With("service", "auctiond")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedLog, err := openSeedLog(cfg)
	if err != nil {
		log.Error("Failed to open seed log", "err", err)
		os.Exit(1)
	}

	store, err := identity.NewStore(seedLog)
	if err != nil {
		log.Error("Failed to create identity store", "err", err)
		os.Exit(1)
	}

	networkPub, _, err := store.NetworkKeyPair(ctx)
	if err != nil {
		log.Error("Failed to load network identity", "err", err)
		os.Exit(1)
	}
	servicePub, servicePriv, err := store.ServiceKeyPair(ctx)
	if err != nil {
		log.Error("Failed to load service identity", "err", err)
		os.Exit(1)
	}
	log.Info("Identities loaded",
		"servicePublicKey", servicePub.String(),
		"networkPublicKey", hex.EncodeToString(networkPub[:]))

	registry := auction.NewRegistry()
	svc, err := service.New(registry, log)
	if err != nil {
		log.Error("Failed to create coordination service", "err", err)
		os.Exit(1)
	}

	handler := func(ctx context.Context, operation string, payload []byte, caller crypto.PublicKey) ([]byte, error) {
		return svc.Handle(ctx, service.Operation(operation), payload, caller)
	}
	responder, err := transport.NewHTTPResponder(handler, log)
	if err != nil {
		log.Error("Failed to create transport responder", "err", err)
		os.Exit(1)
	}

	if cfg.DirectoryURL != "" {
		if err := announce(ctx, cfg, servicePub, servicePriv, log); err != nil {
			log.Error("Failed to announce to directory", "err", err)
			os.Exit(1)
		}
	}

	srv, err := httpserver.New(common.ServerConfig(cfg, log), responder)
	if err != nil {
		log.Error("Failed to create HTTP server", "err", err)
		os.Exit(1)
	}
	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")
	cancel()
	srv.Shutdown()
}

func openSeedLog(cfg *common.Config) (identity.SeedLog, error) {
	switch cfg.SeedLogBackend {
	case "file":
		return identity.NewFileSeedLog(cfg.SeedLogPath)
	case "postgres":
		return identity.NewPostgresSeedLog(cfg.Postgres.Identity())
	default:
		return nil, fmt.Errorf("unknown seed log backend %q", cfg.SeedLogBackend)
	}
}

// announce publishes this server's endpoint under its service key and
// keeps the local peer cache refreshed in the background.
func announce(ctx context.Context, cfg *common.Config, pub crypto.PublicKey, priv crypto.PrivateKey, log *slog.Logger) error {
	if cfg.PublicEndpoint == "" {
		return fmt.Errorf("public endpoint is required when announcing to a directory")
	}

	client, err := directory.NewClient(cfg.DirectoryURL, log)
	if err != nil {
		return err
	}

	signed, err := transport.NewSigned(priv, &directory.Announcement{
		PublicKey: pub.String(),
		Endpoint:  cfg.PublicEndpoint,
	})
	if err != nil {
		return fmt.Errorf("signing announcement: %w", err)
	}

	if err := client.Announce(ctx, signed); err != nil {
		return err
	}
	log.Info("Announced to directory", "directory", cfg.DirectoryURL, "endpoint", cfg.PublicEndpoint)

	go client.RunRefreshLoop(ctx, peerRefreshInterval)
	return nil
}
