// api/models/modelspec.go
package models

// ModelSpec describes one Octahedroflake design: how deep to recurse and
// how tall the finished print should be. The convention records which side
// of the generator contract derives the geometry for jobs built from this
// spec.
type ModelSpec struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Iterations  int     `json:"iterations"`
	ModelHeight float64 `json:"model_height"` // mm
	Branded     bool    `json:"branded"`
	Convention  string  `json:"convention"` // "multiplier" or "desired-height"
}
