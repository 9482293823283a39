package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printfarm/octaflake/internal/geometry"
)

// DeriveGeometry computes sizing constants for a parameter set without
// touching the replicated state. It runs on any node, leader or not.
func (h *Handler) DeriveGeometry(c *gin.Context) {
	var params geometry.PrintParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	derived, err := geometry.Derive(params)
	if err != nil {
		c.JSON(geometryErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parameters": params,
		"geometry":   derived,
	})
}
