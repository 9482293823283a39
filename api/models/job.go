// api/models/job.go
package models

import "github.com/printfarm/octaflake/internal/geometry"

// GenerationJob represents one run of the external model generator for a
// profile/spec pair. The derived geometry is snapshotted onto the job when
// it is accepted, so the record stays meaningful even if the profile or
// spec changes later.
type GenerationJob struct {
	ID         string                   `json:"id"`
	ProfileID  string                   `json:"profile_id"`
	SpecID     string                   `json:"spec_id"`
	Geometry   geometry.DerivedGeometry `json:"geometry"`
	OutputPath string                   `json:"output_path,omitempty"`
	Status     string                   `json:"status"` // Queued, Running, Done, Canceled
}
