// Command rawinput-devices reports how many input devices are registered
// and watches for hotplug changes, printing device_count transitions until
// interrupted.
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
	var verbose = flag.Bool("v", false, "Verbose output")
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
	defer func() {
		logger.Info("shutting down")
		if err := rawinput.Shutdown(); err != nil {
			logger.Error("error during shutdown", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("Watching for input devices. Press Ctrl+C to stop.\n\n")

	last := -1
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			return
		case <-ticker.C:
			n := rawinput.DeviceCount()
			if n != last {
				fmt.Printf("device_count = %d\n", n)
				last = n
			}
		}
	}
}
