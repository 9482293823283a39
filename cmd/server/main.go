package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/printfarm/octaflake/api"
	"github.com/printfarm/octaflake/api/models"
	"github.com/printfarm/octaflake/config"
	"github.com/printfarm/octaflake/raft"
)

func main() {
	// Parse command line flags
	cfg := config.ParseFlags()

	// Create Raft data directory if it doesn't exist
	if err := os.MkdirAll(cfg.RaftDir, 0755); err != nil {
		log.Fatalf("Failed to create Raft directory: %v", err)
	}

	// Create a unique node ID if not provided
	if cfg.NodeID == "" {
		cfg.NodeID = filepath.Base(cfg.RaftDir)
	}

	// Load presets before anything else so a malformed file aborts early
	var presets *config.PresetsFile
	if cfg.PresetsPath != "" {
		var err error
		presets, err = config.LoadPresets(cfg.PresetsPath)
		if err != nil {
			log.Fatalf("Failed to load presets: %v", err)
		}
	}

	// Create the artifact index
	index, err := raft.NewArtifactIndex(filepath.Join(cfg.RaftDir, "artifacts"))
	if err != nil {
		log.Fatalf("Failed to create artifact index: %v", err)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "octaflake",
		Level: hclog.Info,
	})

	// Create Raft node
	raftConfig := &raft.Config{
		NodeID:    cfg.NodeID,
		RaftAddr:  cfg.RaftAddr,
		RaftDir:   cfg.RaftDir,
		Bootstrap: cfg.Bootstrap,
		Peers:     cfg.Peers,
		Logger:    logger,
	}

	node, err := raft.NewNode(raftConfig)
	if err != nil {
		log.Fatalf("Failed to create Raft node: %v", err)
	}

	// Create transport
	transport := raft.NewTransport(node)

	// Setup HTTP router with the raft membership handler mounted under /raft
	router := api.SetupRouter(node, index, transport.RaftHandler())

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Join the cluster if needed
	if cfg.JoinAddr != "" && !cfg.Bootstrap {
		log.Printf("Joining cluster at %s", cfg.JoinAddr)
		if err := transport.JoinCluster(cfg.NodeID, cfg.RaftAddr); err != nil {
			log.Printf("Failed to join cluster: %v", err)
			// Continue anyway, as this is not critical
		}
	}

	// Seed printer profiles once this node takes leadership
	if presets != nil && cfg.Bootstrap {
		go seedProfiles(node, presets)
	}

	// Handle shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Close the artifact index
	if err := index.Close(); err != nil {
		log.Printf("Error closing artifact index: %v", err)
	}

	// Shutdown Raft node
	if err := node.Shutdown(); err != nil {
		log.Printf("Error shutting down Raft node: %v", err)
	}

	log.Println("Shutdown complete")
}

// seedProfiles waits for leadership and replicates the preset profiles.
// Profiles already in the FSM (matched by name) are not duplicated, so a
// restart with the same presets file is a no-op.
func seedProfiles(node *raft.Node, presets *config.PresetsFile) {
	deadline := time.Now().Add(30 * time.Second)
	for !node.Leader() {
		if time.Now().After(deadline) {
			log.Printf("Not leader after 30s, skipping preset seeding")
			return
		}
		time.Sleep(500 * time.Millisecond)
	}

	existing := make(map[string]bool)
	for _, p := range node.GetFSM().GetProfiles() {
		existing[p.Name] = true
	}

	for _, preset := range presets.Profiles {
		if existing[preset.Name] {
			continue
		}

		cmd := &models.Command{
			Type: models.AddProfile,
			Profile: &models.PrinterProfile{
				ID:             uuid.New().String(),
				Name:           preset.Name,
				NozzleDiameter: preset.NozzleDiameter,
				LayerHeight:    preset.LayerHeight,
				Material:       preset.Material,
			},
		}

		if err := node.Apply(cmd); err != nil {
			log.Printf("Failed to seed profile %q: %v", preset.Name, err)
			continue
		}
		log.Printf("Seeded printer profile %q", preset.Name)
	}
}
