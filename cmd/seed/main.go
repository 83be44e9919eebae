// Command seed wipes the graph store and loads a campus dataset: location
// nodes, bidirectional CONNECTED_TO relationships, and teacher directory
// entries linked to their cabins. It is destructive and meant for initial
// setup and demos, not for the serving path.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aayushs/campusguide/internal/config"
	"github.com/aayushs/campusguide/internal/graph"
	"github.com/aayushs/campusguide/internal/logging"
	"github.com/aayushs/campusguide/internal/repository"
	"github.com/aayushs/campusguide/internal/seed"
)

func main() {
	var (
		datasetPath = flag.String("dataset", "", "Path to a campus dataset YAML; omit to use the built-in sample campus")
		workers     = flag.Int("workers", 4, "Number of concurrent workers per seeding phase")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	ds := seed.Default()
	if *datasetPath != "" {
		ds, err = seed.Load(*datasetPath)
		if err != nil {
			logger.Error("failed to load dataset", "error", err, "path", *datasetPath)
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Graph.URI == "" {
		logger.Error("GRAPH_URI is required for seeding")
		os.Exit(1)
	}
	graphClient, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	seeder := seed.NewSeeder(repo, *workers)

	start := time.Now()
	logger.Info("seeding campus data",
		"locations", len(ds.Locations),
		"connections", len(ds.Connections),
		"teachers", len(ds.Teachers),
		"workers", *workers,
	)
	if err := seeder.Seed(ctx, ds); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seeding complete", "duration", time.Since(start).String())
}
