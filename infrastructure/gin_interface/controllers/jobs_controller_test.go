package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/domain"
	"github.com/zylo-solution/luka-video-generation-task/infrastructure/adapters"
	"github.com/zylo-solution/luka-video-generation-task/infrastructure/gin_interface/dto"
)

// inlineDispatcher runs submitted tasks synchronously so tests stay
// deterministic.
type inlineDispatcher struct{}

func (inlineDispatcher) Submit(task func()) error {
	task()
	return nil
}

// recordingPipeline captures Run invocations without touching the record,
// leaving jobs observable in their pending state.
type recordingPipeline struct {
	mu      sync.Mutex
	jobIDs  []string
	prompts []string
}

func (r *recordingPipeline) Run(_ context.Context, jobID string, prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobIDs = append(r.jobIDs, jobID)
	r.prompts = append(r.prompts, prompt)
}

func newTestRouter(t *testing.T) (*gin.Engine, outbound.JobStorePort, *recordingPipeline) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := adapters.NewMemoryJobStore()
	pipeline := &recordingPipeline{}
	controller := NewJobsController(adapters.NewZerologWrapper(), inlineDispatcher{}, store, pipeline)

	router := gin.New()
	controller.RegisterRoutes(router)
	return router, store, pipeline
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGenerate_ReturnsJobID(t *testing.T) {
	router, store, pipeline := newTestRouter(t)

	recorder := doRequest(router, http.MethodPost, "/generate", `{"prompt": "AI transforming healthcare"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp dto.GenerateResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Len(t, resp.JobID, 36)

	// The record exists before the response is returned.
	job, err := store.Get(context.Background(), resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, job.Status)
	assert.Zero(t, job.Progress)
	assert.False(t, job.CreatedAt.IsZero())

	require.Len(t, pipeline.jobIDs, 1)
	assert.Equal(t, resp.JobID, pipeline.jobIDs[0])
	assert.Equal(t, "AI transforming healthcare", pipeline.prompts[0])
}

func TestGenerate_RejectsBlankPrompts(t *testing.T) {
	router, _, pipeline := newTestRouter(t)

	for _, body := range []string{`{"prompt": ""}`, `{"prompt": "   "}`, `{}`, `not json`} {
		recorder := doRequest(router, http.MethodPost, "/generate", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "body %q", body)
	}

	// No job was created or started for any rejected submission.
	assert.Empty(t, pipeline.jobIDs)
}

func TestStatus_ReturnsJobFields(t *testing.T) {
	router, store, _ := newTestRouter(t)

	createdAt := time.Now().UTC().Truncate(time.Second)
	store.Set(context.Background(), domain.Job{
		ID:        "job-1",
		Status:    domain.JobGeneratingVideo,
		Progress:  0.45,
		CreatedAt: createdAt,
	})

	recorder := doRequest(router, http.MethodGet, "/status/job-1", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, domain.JobGeneratingVideo, resp.Status)
	assert.Equal(t, 0.45, resp.Progress)
	assert.True(t, createdAt.Equal(resp.CreatedAt))
	assert.Empty(t, resp.Error)
}

func TestStatus_UnknownJobIs404(t *testing.T) {
	router, _, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/status/nope", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "Job not found", resp.Detail)
}

func TestDownload_NotReadyYet(t *testing.T) {
	router, store, _ := newTestRouter(t)
	store.Set(context.Background(), domain.NewJob("job-2", time.Now().UTC()))

	recorder := doRequest(router, http.MethodGet, "/download/job-2", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp dto.DownloadResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, domain.JobPending, resp.Status)
	assert.Empty(t, resp.VideoURL)
	assert.Equal(t, notReadyMessage, resp.Message)
}

func TestDownload_CompleteReturnsVideoURL(t *testing.T) {
	router, store, _ := newTestRouter(t)
	store.Set(context.Background(), domain.Job{
		ID:        "job-3",
		Status:    domain.JobComplete,
		Progress:  1.0,
		CreatedAt: time.Now().UTC(),
		VideoURL:  "https://cdn.example.com/final.mp4",
	})

	recorder := doRequest(router, http.MethodGet, "/download/job-3", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp dto.DownloadResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, domain.JobComplete, resp.Status)
	assert.Equal(t, "https://cdn.example.com/final.mp4", resp.VideoURL)
	assert.Empty(t, resp.Message)
}

func TestDownload_ErrorExposesMessage(t *testing.T) {
	router, store, _ := newTestRouter(t)
	store.Set(context.Background(), domain.Job{
		ID:        "job-4",
		Status:    domain.JobError,
		Progress:  0.2,
		CreatedAt: time.Now().UTC(),
		Error:     "HeyGen video generation failed: quota exceeded",
	})

	recorder := doRequest(router, http.MethodGet, "/download/job-4", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp dto.DownloadResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, domain.JobError, resp.Status)
	assert.Empty(t, resp.VideoURL)
	assert.Equal(t, "HeyGen video generation failed: quota exceeded", resp.Message)
}

func TestDownload_UnknownJobIs404(t *testing.T) {
	router, _, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/download/nope", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// Back-to-back submissions must produce distinct, independently queryable
// jobs.
func TestGenerate_ConcurrentSubmissionsAreIndependent(t *testing.T) {
	router, store, _ := newTestRouter(t)

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		recorder := doRequest(router, http.MethodPost, "/generate", `{"prompt": "topic"}`)
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp dto.GenerateResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		ids[resp.JobID] = true
	}
	require.Len(t, ids, 3)

	for id := range ids {
		job, err := store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, job.ID)
		assert.GreaterOrEqual(t, job.Progress, 0.0)
		assert.LessOrEqual(t, job.Progress, 1.0)
	}
}
