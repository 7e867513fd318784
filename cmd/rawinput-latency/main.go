// Command rawinput-latency registers a raw-event callback and reports
// running acquisition-to-dispatch latency percentiles, for eyeballing
// the engine's steady-state dispatch cost against real hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	rawinput "github.com/ehrlich-b/go-rawinput"
	"github.com/ehrlich-b/go-rawinput/internal/logging"
)

func main() {
	var (
		verbose  = flag.Bool("v", false, "Verbose output")
		interval = flag.Duration("interval", 2*time.Second, "Reporting interval")
	)
	flag.Parse()

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rawinput.Init(rawinput.Options{Context: ctx, Logger: logger}); err != nil {
		logger.Error("failed to init engine", "error", err)
		os.Exit(1)
	}
	defer rawinput.Shutdown()

	if err := rawinput.RegisterCallback(func(rawinput.Event, any) {}, nil); err != nil {
		logger.Error("failed to register callback", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Println("Move a mouse or press a key on any discovered device. Press Ctrl+C to stop.")

	for {
		select {
		case <-sigCh:
			return
		case <-ticker.C:
			m := rawinput.EngineMetrics()
			if m == nil {
				continue
			}
			snap := m.Snapshot()
			fmt.Printf("events=%d p50=%dus p99=%dus devices=%d\n",
				snap.EventsDispatched,
				snap.LatencyP50Ns/1000,
				snap.LatencyP99Ns/1000,
				snap.DeviceCount,
			)
		}
	}
}
