package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/printfarm/octaflake/api/models"
)

// CreateJob queues a new generation job
func (h *Handler) CreateJob(c *gin.Context) {
	var job models.GenerationJob
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Generate an ID if not provided
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	// Force status to be "Queued"; the FSM re-derives the geometry
	job.Status = "Queued"

	// Create the command
	cmd := &models.Command{
		Type: models.AddJob,
		Job:  &job,
	}

	// Apply the command
	if err := h.Node.Apply(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Return the replicated record, which carries the derived geometry
	stored, _ := h.Node.GetFSM().GetJob(job.ID)
	c.JSON(http.StatusCreated, stored)
}

// GetJobs returns all generation jobs
func (h *Handler) GetJobs(c *gin.Context) {
	// Check if status filter is provided
	status := c.Query("status")

	var jobs []*models.GenerationJob
	if status != "" && models.IsValidJobStatus(status) {
		jobs = h.Node.GetFSM().GetJobsByStatus(status)
	} else {
		jobs = h.Node.GetFSM().GetJobs()
	}

	c.JSON(http.StatusOK, jobs)
}

// UpdateJobStatus updates the status of a generation job
func (h *Handler) UpdateJobStatus(c *gin.Context) {
	jobID := c.Param("id")
	newStatus := c.Query("status")

	// Validate status
	if !models.IsValidJobStatus(newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	// Check if the job exists
	_, exists := h.Node.GetFSM().GetJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "generation job not found"})
		return
	}

	outputPath := c.Query("output_path")

	// Create the command
	cmd := &models.Command{
		Type:       models.UpdateJob,
		JobID:      jobID,
		NewStatus:  newStatus,
		OutputPath: outputPath,
	}

	// Apply the command
	if err := h.Node.Apply(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Index the finished mesh when it landed on this node. The replicated
	// record keeps only the path; size and checksum stay node-local.
	if newStatus == "Done" && outputPath != "" && h.Index != nil {
		if _, err := h.Index.Record(jobID, outputPath); err != nil {
			log.Printf("Failed to index artifact for job %s: %v", jobID, err)
		}
	}

	// Get the updated job
	job, _ := h.Node.GetFSM().GetJob(jobID)
	c.JSON(http.StatusOK, job)
}
