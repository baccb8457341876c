package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/OldStager01/traffic-extrema/internal/logger"
	"github.com/OldStager01/traffic-extrema/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	port := flag.Int("port", 9000, "simulator server port")
	username := flag.String("username", "", "required username (empty disables auth)")
	passhash := flag.String("passhash", "", "required passhash")
	objects := flag.Int("objects", 3, "number of simulated objects, ids starting at 1001")
	pattern := flag.String("pattern", "daily", "traffic pattern: steady, daily, weekly, sine_wave")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")
	logger.Info("Starting monitoring server simulator")

	sim := simulator.New(simulator.Config{
		Port:     *port,
		Username: *username,
		Passhash: *passhash,
	})

	// 40 Mbit/s base with warning at 50 and error at 55
	warning, errLimit := int64(6_250_000), int64(6_875_000)
	for i := 0; i < *objects; i++ {
		sim.AddObject(strconv.Itoa(1001+i), simulator.ObjectSimConfig{
			BaseBytesPerSec: 5_000_000,
			Variance:        1_500_000,
			GapRatio:        0.05,
			WarningLimit:    &warning,
			ErrorLimit:      &errLimit,
			Pattern:         simulator.ParsePattern(*pattern),
		})
	}

	if err := sim.Start(); err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down simulator")
	return sim.Stop()
}
