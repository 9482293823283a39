package raft

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/raft"

	"github.com/printfarm/octaflake/api/models"
	"github.com/printfarm/octaflake/internal/geometry"
)

// FSM implements the raft.FSM interface for the print farm state
type FSM struct {
	mu sync.RWMutex

	// Our application state
	profiles map[string]*models.PrinterProfile
	specs    map[string]*models.ModelSpec
	jobs     map[string]*models.GenerationJob
}

// NewFSM creates a new Finite State Machine for the Raft cluster
func NewFSM() *FSM {
	return &FSM{
		profiles: make(map[string]*models.PrinterProfile),
		specs:    make(map[string]*models.ModelSpec),
		jobs:     make(map[string]*models.GenerationJob),
	}
}

// Apply applies a Raft log entry to the FSM
func (f *FSM) Apply(log *raft.Log) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Unmarshal the command
	var cmd models.Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("failed to unmarshal command: %v", err)
	}

	// Process the command based on its type
	switch cmd.Type {
	case models.AddProfile:
		if cmd.Profile == nil {
			return fmt.Errorf("profile is nil")
		}
		if cmd.Profile.NozzleDiameter <= 0 {
			return fmt.Errorf("profile %s has a non-positive nozzle diameter", cmd.Profile.ID)
		}
		if cmd.Profile.LayerHeight <= 0 {
			return fmt.Errorf("profile %s has a non-positive layer height", cmd.Profile.ID)
		}
		f.profiles[cmd.Profile.ID] = cmd.Profile
		return nil

	case models.AddModelSpec:
		if cmd.ModelSpec == nil {
			return fmt.Errorf("model spec is nil")
		}
		f.specs[cmd.ModelSpec.ID] = cmd.ModelSpec
		return nil

	case models.AddJob:
		if cmd.Job == nil {
			return fmt.Errorf("job is nil")
		}

		// Validate profile and model spec exist
		profile, ok := f.profiles[cmd.Job.ProfileID]
		if !ok {
			return fmt.Errorf("profile with ID %s does not exist", cmd.Job.ProfileID)
		}
		spec, ok := f.specs[cmd.Job.SpecID]
		if !ok {
			return fmt.Errorf("model spec with ID %s does not exist", cmd.Job.SpecID)
		}

		// Re-derive the geometry from the replicated profile and spec so
		// every replica stores the identical record, whatever the client
		// sent.
		g, err := geometry.Derive(geometry.PrintParameters{
			Iterations:     spec.Iterations,
			LayerHeight:    profile.LayerHeight,
			NozzleDiameter: profile.NozzleDiameter,
			ModelHeight:    spec.ModelHeight,
		})
		if err != nil {
			return fmt.Errorf("profile %s and spec %s derive no printable geometry: %v",
				profile.ID, spec.ID, err)
		}

		// A rib thinner than the layer height cannot be printed
		if g.RibWidth < profile.LayerHeight {
			return fmt.Errorf("derived rib width %g mm is below the profile layer height %g mm",
				g.RibWidth, profile.LayerHeight)
		}

		cmd.Job.Geometry = g

		// Initialize status to Queued
		cmd.Job.Status = "Queued"
		f.jobs[cmd.Job.ID] = cmd.Job
		return nil

	case models.UpdateJob:
		job, ok := f.jobs[cmd.JobID]
		if !ok {
			return fmt.Errorf("generation job with ID %s does not exist", cmd.JobID)
		}

		// Validate status transition
		if err := models.ValidateStatusChange(job.Status, cmd.NewStatus); err != nil {
			return err
		}

		// Update status
		oldStatus := job.Status
		job.Status = cmd.NewStatus

		// Record the artifact location once the generator has finished
		if oldStatus == "Running" && cmd.NewStatus == "Done" {
			if cmd.OutputPath != "" {
				job.OutputPath = cmd.OutputPath
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown command type: %s", cmd.Type)
	}
}

// Snapshot returns a snapshot of the FSM state
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	// Create a deep copy of the state
	profiles := make(map[string]*models.PrinterProfile)
	for k, v := range f.profiles {
		profile := *v
		profiles[k] = &profile
	}

	specs := make(map[string]*models.ModelSpec)
	for k, v := range f.specs {
		spec := *v
		specs[k] = &spec
	}

	jobs := make(map[string]*models.GenerationJob)
	for k, v := range f.jobs {
		job := *v
		jobs[k] = &job
	}

	return &fsmSnapshot{
		Profiles: profiles,
		Specs:    specs,
		Jobs:     jobs,
	}, nil
}

// Restore restores the FSM from a snapshot
func (f *FSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	// Read the snapshot data
	var snapshot fsmSnapshot
	if err := json.NewDecoder(rc).Decode(&snapshot); err != nil {
		return err
	}

	// Restore the state
	f.mu.Lock()
	defer f.mu.Unlock()

	f.profiles = snapshot.Profiles
	f.specs = snapshot.Specs
	f.jobs = snapshot.Jobs

	return nil
}

// Getters return detached copies: Apply mutates the stored records in
// place, and callers serialize results with no lock held.

// GetProfiles returns all printer profiles
func (f *FSM) GetProfiles() []*models.PrinterProfile {
	f.mu.RLock()
	defer f.mu.RUnlock()

	profiles := make([]*models.PrinterProfile, 0, len(f.profiles))
	for _, profile := range f.profiles {
		p := *profile
		profiles = append(profiles, &p)
	}
	return profiles
}

// GetProfile returns a printer profile by ID
func (f *FSM) GetProfile(id string) (*models.PrinterProfile, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	profile, ok := f.profiles[id]
	if !ok {
		return nil, false
	}
	p := *profile
	return &p, true
}

// GetModelSpecs returns all model specs
func (f *FSM) GetModelSpecs() []*models.ModelSpec {
	f.mu.RLock()
	defer f.mu.RUnlock()

	specs := make([]*models.ModelSpec, 0, len(f.specs))
	for _, spec := range f.specs {
		s := *spec
		specs = append(specs, &s)
	}
	return specs
}

// GetModelSpec returns a model spec by ID
func (f *FSM) GetModelSpec(id string) (*models.ModelSpec, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	spec, ok := f.specs[id]
	if !ok {
		return nil, false
	}
	s := *spec
	return &s, true
}

// GetJobs returns all generation jobs
func (f *FSM) GetJobs() []*models.GenerationJob {
	f.mu.RLock()
	defer f.mu.RUnlock()

	jobs := make([]*models.GenerationJob, 0, len(f.jobs))
	for _, job := range f.jobs {
		j := *job
		jobs = append(jobs, &j)
	}
	return jobs
}

// GetJobsByStatus returns generation jobs filtered by status
func (f *FSM) GetJobsByStatus(status string) []*models.GenerationJob {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var jobs []*models.GenerationJob
	for _, job := range f.jobs {
		if job.Status == status {
			j := *job
			jobs = append(jobs, &j)
		}
	}
	return jobs
}

// GetJob returns a generation job by ID
func (f *FSM) GetJob(id string) (*models.GenerationJob, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	job, ok := f.jobs[id]
	if !ok {
		return nil, false
	}
	j := *job
	return &j, true
}

// fsmSnapshot implements the raft.FSMSnapshot interface
type fsmSnapshot struct {
	Profiles map[string]*models.PrinterProfile `json:"profiles"`
	Specs    map[string]*models.ModelSpec      `json:"specs"`
	Jobs     map[string]*models.GenerationJob  `json:"jobs"`
}

// Persist saves the snapshot to the provided sink
func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		// Encode the snapshot
		if err := json.NewEncoder(sink).Encode(s); err != nil {
			return err
		}
		return sink.Close()
	}()

	if err != nil {
		sink.Cancel()
		return err
	}

	return nil
}

// Release is a no-op
func (s *fsmSnapshot) Release() {}
