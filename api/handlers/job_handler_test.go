package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	hraft "github.com/hashicorp/raft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printfarm/octaflake/api/models"
	"github.com/printfarm/octaflake/raft"
)

// fakeNode drives a real FSM through the same marshal-then-apply path the
// replicated log uses, without a live cluster.
type fakeNode struct {
	fsm *raft.FSM
}

func (n *fakeNode) Apply(cmd *models.Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	if res := n.fsm.Apply(&hraft.Log{Data: data}); res != nil {
		if err, ok := res.(error); ok {
			return err
		}
	}
	return nil
}

func (n *fakeNode) GetFSM() *raft.FSM      { return n.fsm }
func (n *fakeNode) Leader() bool           { return true }
func (n *fakeNode) LeaderAddress() string  { return "127.0.0.1:7000" }
func (n *fakeNode) State() hraft.RaftState { return hraft.Leader }

func newJobRouter(t *testing.T) (*gin.Engine, *fakeNode, *raft.ArtifactIndex) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	index, err := raft.NewArtifactIndex("")
	require.NoError(t, err)

	node := &fakeNode{fsm: raft.NewFSM()}
	h := NewHandler(node, index)

	router := gin.New()
	router.POST("/api/v1/jobs", h.CreateJob)
	router.POST("/api/v1/jobs/:id/status", h.UpdateJobStatus)

	require.NoError(t, node.Apply(&models.Command{
		Type: models.AddProfile,
		Profile: &models.PrinterProfile{
			ID:             "prusa-mk4",
			Name:           "Prusa MK4",
			NozzleDiameter: 0.4,
			LayerHeight:    0.2,
			Material:       "PLA",
		},
	}))
	require.NoError(t, node.Apply(&models.Command{
		Type: models.AddModelSpec,
		ModelSpec: &models.ModelSpec{
			ID:          "flake-200",
			Name:        "desk flake",
			Iterations:  6,
			ModelHeight: 200,
		},
	}))

	return router, node, index
}

func postStatus(t *testing.T, router *gin.Engine, jobID, status, outputPath string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/api/v1/jobs/" + jobID + "/status?status=" + status
	if outputPath != "" {
		target += "&output_path=" + url.QueryEscape(outputPath)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateJobStatus_RecordsArtifactOnDone(t *testing.T) {
	router, node, index := newJobRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs",
		strings.NewReader(`{"id":"job-1","profile_id":"prusa-mk4","spec_id":"flake-200"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// The finished mesh the generator would have written on this node
	mesh := []byte("solid flake")
	meshPath := filepath.Join(t.TempDir(), "flake.stl")
	require.NoError(t, os.WriteFile(meshPath, mesh, 0644))

	require.Equal(t, http.StatusOK, postStatus(t, router, "job-1", "Running", "").Code)
	require.Equal(t, http.StatusOK, postStatus(t, router, "job-1", "Done", meshPath).Code)

	art, err := index.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, meshPath, art.Path)
	assert.Equal(t, int64(len(mesh)), art.SizeBytes)
	assert.NotEmpty(t, art.SHA256)
	assert.False(t, art.CreatedAt.IsZero())

	job, ok := node.GetFSM().GetJob("job-1")
	require.True(t, ok)
	assert.Equal(t, "Done", job.Status)
	assert.Equal(t, meshPath, job.OutputPath)
}

func TestUpdateJobStatus_NoArtifactWithoutOutputPath(t *testing.T) {
	router, _, index := newJobRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs",
		strings.NewReader(`{"id":"job-2","profile_id":"prusa-mk4","spec_id":"flake-200"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Equal(t, http.StatusOK, postStatus(t, router, "job-2", "Running", "").Code)
	require.Equal(t, http.StatusOK, postStatus(t, router, "job-2", "Done", "").Code)

	_, err := index.Get("job-2")
	assert.Error(t, err)
}
