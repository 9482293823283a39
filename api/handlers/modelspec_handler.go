package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/printfarm/octaflake/api/models"
	"github.com/printfarm/octaflake/internal/generator"
)

// CreateModelSpec registers a new flake design
func (h *Handler) CreateModelSpec(c *gin.Context) {
	var spec models.ModelSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := generator.ParseConvention(spec.Convention)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spec.Convention = string(conv)

	// Generate an ID if not provided
	if spec.ID == "" {
		spec.ID = uuid.New().String()
	}

	// Create the command
	cmd := &models.Command{
		Type:      models.AddModelSpec,
		ModelSpec: &spec,
	}

	// Apply the command
	if err := h.Node.Apply(cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, spec)
}

// GetModelSpecs returns all flake designs
func (h *Handler) GetModelSpecs(c *gin.Context) {
	specs := h.Node.GetFSM().GetModelSpecs()
	c.JSON(http.StatusOK, specs)
}
