package raft

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Artifact describes one mesh file the external generator produced on this
// node. Artifacts are node-local: the replicated job record carries only
// the output path, while the index on the node that ran the generator
// keeps the checksum and size for later verification.
type Artifact struct {
	JobID     string    `json:"job_id"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"created_at"`
}

// ArtifactIndex stores artifact records, file-backed under the raft
// directory or purely in memory when no path is given.
type ArtifactIndex struct {
	mu sync.RWMutex
	// Path to the storage directory
	path string
	// Map to store records when not using persistence
	inMemory map[string][]byte
}

// NewArtifactIndex creates a new artifact index
func NewArtifactIndex(path string) (*ArtifactIndex, error) {
	// Create the directory if it doesn't exist
	if path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact index directory: %v", err)
		}
	}

	return &ArtifactIndex{
		path:     path,
		inMemory: make(map[string][]byte),
	}, nil
}

// Put stores an artifact record keyed by its job ID
func (s *ArtifactIndex) Put(a Artifact) error {
	if a.JobID == "" {
		return fmt.Errorf("artifact has no job ID")
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// In-memory storage
	if s.path == "" {
		s.inMemory[a.JobID] = data
		return nil
	}

	// File-based storage
	return os.WriteFile(s.recordPath(a.JobID), data, 0644)
}

// Get retrieves an artifact record by job ID
func (s *ArtifactIndex) Get(jobID string) (Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte

	// In-memory storage
	if s.path == "" {
		val, ok := s.inMemory[jobID]
		if !ok {
			return Artifact{}, os.ErrNotExist
		}
		data = val
	} else {
		// File-based storage
		val, err := os.ReadFile(s.recordPath(jobID))
		if err != nil {
			return Artifact{}, err
		}
		data = val
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

// Delete removes an artifact record
func (s *ArtifactIndex) Delete(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// In-memory storage
	if s.path == "" {
		delete(s.inMemory, jobID)
		return nil
	}

	// File-based storage
	return os.Remove(s.recordPath(jobID))
}

// JobIDs returns the job IDs of all recorded artifacts
func (s *ArtifactIndex) JobIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string

	// In-memory storage
	if s.path == "" {
		for k := range s.inMemory {
			ids = append(ids, k)
		}
		return ids
	}

	// File-based storage
	files, err := os.ReadDir(s.path)
	if err != nil {
		return ids
	}

	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".json") {
			ids = append(ids, strings.TrimSuffix(file.Name(), ".json"))
		}
	}

	return ids
}

// Record stats and hashes a generator output file and stores its artifact
// record for the given job.
func (s *ArtifactIndex) Record(jobID, filePath string) (Artifact, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to open generator output: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Artifact{}, err
	}

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Artifact{}, err
	}

	a := Artifact{
		JobID:     jobID,
		Path:      filePath,
		SizeBytes: info.Size(),
		SHA256:    hex.EncodeToString(h.Sum(nil)),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Put(a); err != nil {
		return Artifact{}, err
	}
	return a, nil
}

// Close closes the index
func (s *ArtifactIndex) Close() error {
	// Nothing to close for this implementation
	return nil
}

// Backup writes all artifact records to w
func (s *ArtifactIndex) Backup(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// In-memory storage
	if s.path == "" {
		return json.NewEncoder(w).Encode(s.inMemory)
	}

	// File-based storage
	files, err := os.ReadDir(s.path)
	if err != nil {
		return err
	}

	// Create a map to store all records
	backup := make(map[string][]byte)

	for _, file := range files {
		if !file.IsDir() {
			data, err := os.ReadFile(filepath.Join(s.path, file.Name()))
			if err != nil {
				return err
			}
			backup[strings.TrimSuffix(file.Name(), ".json")] = data
		}
	}

	return json.NewEncoder(w).Encode(backup)
}

// Restore replaces the index contents with records read from r
func (s *ArtifactIndex) Restore(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var backup map[string][]byte
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return err
	}

	// In-memory storage
	if s.path == "" {
		s.inMemory = backup
		return nil
	}

	// File-based storage
	// First, clear the directory
	files, err := os.ReadDir(s.path)
	if err != nil {
		return err
	}

	for _, file := range files {
		if !file.IsDir() {
			if err := os.Remove(filepath.Join(s.path, file.Name())); err != nil {
				return err
			}
		}
	}

	// Then restore from backup
	for jobID, val := range backup {
		if err := os.WriteFile(s.recordPath(jobID), val, 0644); err != nil {
			return err
		}
	}

	return nil
}

func (s *ArtifactIndex) recordPath(jobID string) string {
	return filepath.Join(s.path, jobID+".json")
}
