// api/models/models.go
package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// CommandType represents the type of command to be executed
type CommandType string

const (
	AddProfile   CommandType = "ADD_PROFILE"
	AddModelSpec CommandType = "ADD_MODEL_SPEC"
	AddJob       CommandType = "ADD_JOB"
	UpdateJob    CommandType = "UPDATE_JOB"
)

// Command represents a command to be applied to the FSM
type Command struct {
	Type       CommandType     `json:"type"`
	Profile    *PrinterProfile `json:"profile,omitempty"`
	ModelSpec  *ModelSpec      `json:"model_spec,omitempty"`
	Job        *GenerationJob  `json:"job,omitempty"`
	JobID      string          `json:"job_id,omitempty"`
	NewStatus  string          `json:"new_status,omitempty"`
	OutputPath string          `json:"output_path,omitempty"`
}

// Marshal serializes a command to JSON
func (c *Command) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalCommand deserializes a command from JSON
func UnmarshalCommand(data []byte) (*Command, error) {
	var c Command
	err := json.Unmarshal(data, &c)
	return &c, err
}

// ValidateStatusChange checks if a job status transition is valid
func ValidateStatusChange(currentStatus, newStatus string) error {
	switch currentStatus {
	case "Queued":
		if newStatus != "Running" && newStatus != "Canceled" {
			return errors.New("a job can only transition from Queued to Running or Canceled")
		}
	case "Running":
		if newStatus != "Done" && newStatus != "Canceled" {
			return errors.New("a job can only transition from Running to Done or Canceled")
		}
	default:
		return errors.New("invalid status transition")
	}
	return nil
}

// IsValidMaterial checks if a profile material is valid
func IsValidMaterial(material string) bool {
	validMaterials := []string{"PLA", "PETG", "ABS", "TPU"}
	upper := strings.ToUpper(material)

	for _, vm := range validMaterials {
		if upper == vm {
			return true
		}
	}
	return false
}

// IsValidJobStatus checks if a generation job status is valid
func IsValidJobStatus(status string) bool {
	validStatuses := []string{"Queued", "Running", "Done", "Canceled"}

	for _, vs := range validStatuses {
		if status == vs {
			return true
		}
	}
	return false
}
