// api/models/profile.go
package models

// PrinterProfile describes a physical printer the farm can generate for.
// NozzleDiameter and LayerHeight feed the geometry derivation.
type PrinterProfile struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	NozzleDiameter float64 `json:"nozzle_diameter"` // mm
	LayerHeight    float64 `json:"layer_height"`    // mm
	Material       string  `json:"material"`        // PLA, PETG, ABS, TPU
}
