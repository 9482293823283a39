package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	hraft "github.com/hashicorp/raft"

	"github.com/printfarm/octaflake/api/models"
	"github.com/printfarm/octaflake/internal/geometry"
	"github.com/printfarm/octaflake/raft"
)

// FarmNode is the slice of raft.Node the handlers consume
type FarmNode interface {
	Apply(cmd *models.Command) error
	GetFSM() *raft.FSM
	Leader() bool
	LeaderAddress() string
	State() hraft.RaftState
}

// Handler represents the API handlers
type Handler struct {
	Node  FarmNode
	Index *raft.ArtifactIndex
}

// NewHandler creates a new Handler. The index may be nil on nodes that
// never run the generator locally.
func NewHandler(node FarmNode, index *raft.ArtifactIndex) *Handler {
	return &Handler{
		Node:  node,
		Index: index,
	}
}

// RaftLeaderMiddleware ensures a request is forwarded to the leader
func (h *Handler) RaftLeaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to write operations
		if c.Request.Method != "GET" && c.Request.Method != "HEAD" {
			// Derivation is stateless and never goes through the log
			if c.FullPath() == "/api/v1/derive" {
				c.Next()
				return
			}

			// Cluster membership requests carry their own leadership
			// check inside the transport handler
			if strings.HasPrefix(c.Request.URL.Path, "/raft/") {
				c.Next()
				return
			}

			// Check if this node is the leader
			if !h.Node.Leader() {
				// Respond with the leader's address
				c.JSON(http.StatusConflict, gin.H{
					"error":  "not the leader",
					"leader": h.Node.LeaderAddress(),
				})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// geometryErrorStatus maps derivation errors onto HTTP statuses: bad input
// shape is a 400, a degenerate value combination is a 422.
func geometryErrorStatus(err error) int {
	switch {
	case errors.Is(err, geometry.ErrDegenerate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geometry.ErrInvalidParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
