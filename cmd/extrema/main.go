package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/OldStager01/traffic-extrema/api"
	"github.com/OldStager01/traffic-extrema/internal/collector"
	"github.com/OldStager01/traffic-extrema/internal/logger"
	"github.com/OldStager01/traffic-extrema/internal/metrics"
	"github.com/OldStager01/traffic-extrema/internal/orchestrator"
	"github.com/OldStager01/traffic-extrema/internal/output"
	"github.com/OldStager01/traffic-extrema/pkg/config"
	"github.com/OldStager01/traffic-extrema/pkg/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	serverFile := flag.String("server-file", "server_address.txt", "key=value file with server, username and passhash")
	flagsFile := flag.String("flags-file", "min_max_flags.txt", "key=value file with avg, sdate, edate, max, thr and id* entries")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the config")
	serve := flag.Bool("serve", false, "serve reports over HTTP instead of running once")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.LoadInputs(cfg, *serverFile, *flagsFile); err != nil {
		return fmt.Errorf("failed to load inputs: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s against %s", cfg.App.Name, cfg.Monitor.Server)

	coll := collector.NewHTTPCollector(collector.HTTPCollectorConfig{
		BaseURL:            cfg.Monitor.BaseURL(),
		Username:           cfg.Monitor.Username,
		Passhash:           cfg.Monitor.Passhash,
		Timeout:            cfg.Monitor.Timeout,
		InsecureSkipVerify: cfg.Monitor.InsecureSkipVerify,
	})
	defer coll.Close()

	objects := make([]models.ObjectID, len(cfg.Objects))
	for i, id := range cfg.Objects {
		objects[i] = models.ObjectID(id)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		runner := orchestrator.New(runnerConfig(cfg), coll, orchestrator.NopProgress{}, metrics.Get())
		return serveAPI(ctx, cfg, runner, coll, objects)
	}

	runner := orchestrator.New(runnerConfig(cfg), coll, orchestrator.NewLogProgress(), metrics.Get())
	rep := runner.Run(ctx, objects)

	path, err := output.NewWriter(cfg.Output.Dir).Write(rep.Body)
	if err != nil {
		return err
	}

	if cfg.Output.Echo {
		fmt.Println(rep.Body)
	}
	fmt.Printf("Output has been saved to %s\n", path)

	return nil
}

func runnerConfig(cfg *config.Config) orchestrator.Config {
	return orchestrator.Config{
		Query: collector.SeriesQuery{
			Average:   cfg.Query.Avg,
			StartDate: cfg.Query.StartDate,
			EndDate:   cfg.Query.EndDate,
		},
		ComputeMax:      cfg.Query.ComputeMax(),
		CheckThresholds: cfg.Query.CheckThresholds(),
		Concurrency:     cfg.Runner.Concurrency,
	}
}

func serveAPI(ctx context.Context, cfg *config.Config, runner *orchestrator.Orchestrator, coll collector.Collector, objects []models.ObjectID) error {
	server := api.NewServer(cfg.API, cfg.App.Mode, runner, coll, metrics.Get(), objects)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
