package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Node configuration
	NodeID    string
	RaftAddr  string
	RaftDir   string
	HTTPAddr  string
	Bootstrap bool
	JoinAddr  string
	Peers     []string

	// Path to an optional YAML file of printer profiles seeded into the
	// cluster when this node bootstraps
	PresetsPath string
}

// ProfilePreset is one printer profile entry in a presets file
type ProfilePreset struct {
	Name           string  `yaml:"name"`
	NozzleDiameter float64 `yaml:"nozzle_diameter"`
	LayerHeight    float64 `yaml:"layer_height"`
	Material       string  `yaml:"material"`
}

// PresetsFile is the on-disk shape of a presets file
type PresetsFile struct {
	Profiles []ProfilePreset `yaml:"profiles"`
}

// ParseFlags parses command line flags and returns a Config
func ParseFlags() *Config {
	config := &Config{}

	// Define flags
	flag.StringVar(&config.NodeID, "id", "", "Node ID (required)")
	flag.StringVar(&config.RaftAddr, "raft-addr", "", "Raft transport address (required)")
	flag.StringVar(&config.RaftDir, "raft-dir", "", "Raft storage directory (required)")
	flag.StringVar(&config.HTTPAddr, "http-addr", "", "HTTP API address (required)")
	flag.BoolVar(&config.Bootstrap, "bootstrap", false, "Bootstrap the cluster")
	flag.StringVar(&config.JoinAddr, "join", "", "Join address of an existing node")
	flag.StringVar(&config.PresetsPath, "presets", "", "YAML file of printer profiles to seed on bootstrap")
	peersStr := flag.String("peers", "", "Comma-separated list of peer addresses")

	// Parse flags
	flag.Parse()

	// Validate required flags
	if config.NodeID == "" {
		fmt.Fprintf(os.Stderr, "Node ID is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if config.RaftAddr == "" {
		fmt.Fprintf(os.Stderr, "Raft address is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if config.RaftDir == "" {
		fmt.Fprintf(os.Stderr, "Raft directory is required\n")
		flag.Usage()
		os.Exit(1)
	}

	if config.HTTPAddr == "" {
		fmt.Fprintf(os.Stderr, "HTTP address is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Parse peers
	if *peersStr != "" {
		config.Peers = strings.Split(*peersStr, ",")
	}

	return config
}

// LoadPresets reads and validates a presets file
func LoadPresets(path string) (*PresetsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %v", err)
	}

	var presets PresetsFile
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets file: %v", err)
	}

	for i, p := range presets.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("presets file: profile %d has no name", i)
		}
		if p.NozzleDiameter <= 0 {
			return nil, fmt.Errorf("presets file: profile %q has a non-positive nozzle diameter", p.Name)
		}
		if p.LayerHeight <= 0 {
			return nil, fmt.Errorf("presets file: profile %q has a non-positive layer height", p.Name)
		}
	}

	return &presets, nil
}
