// api/router.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printfarm/octaflake/api/handlers"
	"github.com/printfarm/octaflake/raft"
)

// SetupRouter sets up the API routes. The raft handler carries the cluster
// join/leave endpoints and is mounted under /raft on the same server that
// serves the API, so membership requests reach it.
func SetupRouter(node handlers.FarmNode, index *raft.ArtifactIndex, raftHandler http.Handler) *gin.Engine {
	router := gin.Default()

	// Create the handler
	handler := handlers.NewHandler(node, index)

	// Apply middleware
	router.Use(handler.RaftLeaderMiddleware())

	// API group
	api := router.Group("/api/v1")
	{
		// Printer profile endpoints
		api.POST("/profiles", handler.CreateProfile)
		api.GET("/profiles", handler.GetProfiles)

		// Model spec endpoints
		api.POST("/models", handler.CreateModelSpec)
		api.GET("/models", handler.GetModelSpecs)

		// Generation job endpoints
		api.POST("/jobs", handler.CreateJob)
		api.GET("/jobs", handler.GetJobs)
		api.POST("/jobs/:id/status", handler.UpdateJobStatus)

		// Stateless geometry derivation
		api.POST("/derive", handler.DeriveGeometry)
	}

	// Cluster membership endpoints
	if raftHandler != nil {
		router.Any("/raft/*path", gin.WrapH(http.StripPrefix("/raft", raftHandler)))
	}

	// Add a raft status endpoint
	router.GET("/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"is_leader":   node.Leader(),
			"leader_addr": node.LeaderAddress(),
			"state":       node.State().String(),
		})
	})

	return router
}
