package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/printfarm/octaflake/api/models"
)

// CreateProfile registers a new printer profile
func (h *Handler) CreateProfile(c *gin.Context) {
	var profile models.PrinterProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if profile.Material != "" && !models.IsValidMaterial(profile.Material) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material"})
		return
	}

	// Generate an ID if not provided
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}

	// Create the command
	cmd := &models.Command{
		Type:    models.AddProfile,
		Profile: &profile,
	}

	// Apply the command
	if err := h.Node.Apply(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetProfiles returns all printer profiles
func (h *Handler) GetProfiles(c *gin.Context) {
	profiles := h.Node.GetFSM().GetProfiles()
	c.JSON(http.StatusOK, profiles)
}
