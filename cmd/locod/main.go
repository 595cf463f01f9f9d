// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command locod runs a standalone locomotion worker process: it builds a
// loco.Engine from an optional YAML config file and drives its tick loop
// until interrupted. Passing -bridge exposes the worker's message
// boundary over a local WebSocket for out-of-process hosts; without it
// the process is only useful embedded by another Go program that talks
// to the Engine's Worker directly.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/galvanized/loco"
	"github.com/galvanized/loco/transport/bridge"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	bridgeAddr := flag.String("bridge", "", "address to serve the WebSocket bridge on, e.g. :8088 (optional)")
	flag.Parse()

	logger := slog.Default()

	var opts []loco.Option
	if *configPath != "" {
		fileOpts, err := loco.LoadConfig(*configPath)
		if err != nil {
			logger.Error("locod: failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		opts = fileOpts
	}

	eng := loco.New(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, shutdownSignals()...)
	go func() {
		sig := <-sigc
		logger.Info("locod: received shutdown signal", "signal", sig)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	if *bridgeAddr != "" {
		srv := bridge.NewServer(*bridgeAddr, eng.Worker())
		logger.Info("locod: serving bridge", "addr", *bridgeAddr)
		if err := srv.Serve(ctx); err != nil {
			logger.Error("locod: bridge server failed", "err", err)
		}
	}

	<-done
	logger.Info("locod: worker stopped")
}
