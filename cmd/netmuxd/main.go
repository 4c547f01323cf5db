// File: cmd/netmuxd/main.go
// Package main
// Minimal driver process wiring a TickerSource heartbeat into the
// multiplexer and running until an OS signal or Ctrl-C arrives.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momentics/netmux/api"
	"github.com/momentics/netmux/facade"
	"github.com/momentics/netmux/iosource"
)

func main() {
	heartbeat := flag.Duration("heartbeat", time.Second, "heartbeat tick interval")
	exitOnlyAfterTerminate := flag.Bool("exit-only-after-terminate", true, "keep running with only dont-count sources present until terminated")
	flag.Parse()

	cfg := facade.DefaultConfig()
	cfg.ExitOnlyAfterTerminate = *exitOnlyAfterTerminate

	loop, err := facade.New(cfg)
	if err != nil {
		// Backend init failure is fatal per the error-handling design;
		// this is the process boundary that decides so.
		log.Fatalf("netmuxd: failed to construct loop: %v", err)
	}
	defer loop.Shutdown()

	ticks := 0
	hb := iosource.NewTickerSource("heartbeat", *heartbeat, func() { ticks++ })
	if err := loop.Register(hb, true); err != nil {
		log.Fatalf("netmuxd: failed to register heartbeat: %v", err)
	}

	log.Printf("netmuxd: running with heartbeat every %s", *heartbeat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("netmuxd: shutdown signal received")
		loop.Terminate()
		loop.Wakeup("signal")
		cancel()
	}()

	err = loop.Run(ctx, func(ready []api.Source) {
		for _, src := range ready {
			log.Printf("netmuxd: processed source %q", src.Tag())
		}
	})
	if err != nil && err != context.Canceled {
		log.Fatalf("netmuxd: run failed: %v", err)
	}

	log.Printf("netmuxd: exiting after %d heartbeat ticks", ticks)
}
