// Command directory runs the peer discovery service.
//
// Services announce their public key and endpoint with a signed POST to
// /announce; clients resolve a key to an endpoint via GET
// /resolve/{public_key} or fetch the full table via GET /peers. With
// the postgres peer store the table survives restarts.
//
// # Usage
//
//	go run ./cmd/directory --listen=:8090
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/auctionet/auctionet/api/httpserver"
	"github.com/auctionet/auctionet/cmd/common"
	"github.com/auctionet/auctionet/directory"
)

func main() {
	var (
		configFile = flag.String("config", "", "Optional YAML config file")
		listenAddr = flag.String("listen", "", "HTTP listen address (overrides config)")
		peerStore  = flag.String("store", "", "Peer store backend, memory or postgres (overrides config)")
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
	if *peerStore != "" {
		cfg.PeerStoreBackend = *peerStore
	}

	log := common.NewLogger(cfg.LogJSON, cfg.LogDebug).With("service", "directory")

	store, err := openPeerStore(cfg)
	if err != nil {
		log.Error("Failed to open peer store", "err", err)
		os.Exit(1)
	}

	dir, err := directory.New(store, log)
	if err != nil {
		log.Error("Failed to create directory", "err", err)
		os.Exit(1)
	}

	srv, err := httpserver.New(common.ServerConfig(cfg, log), dir)
	if err != nil {
		log.Error("Failed to create HTTP server", "err", err)
		os.Exit(1)
	}
	srv.RunInBackground()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down")
	srv.Shutdown()

	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Failed to close peer store", "err", err)
		}
	}
}

func openPeerStore(cfg *common.Config) (directory.Store, error) {
	switch cfg.PeerStoreBackend {
	case "memory":
		return directory.NewMemoryStore(), nil
	case "postgres":
		return directory.NewPostgresStore(cfg.Postgres.ConnectionString())
	default:
		return nil, fmt.Errorf("unknown peer store backend %q", cfg.PeerStoreBackend)
	}
}
