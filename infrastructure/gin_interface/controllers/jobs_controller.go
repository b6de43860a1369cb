package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/inbound"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/domain"
	"github.com/zylo-solution/luka-video-generation-task/infrastructure/gin_interface/dto"
)

const notReadyMessage = "Video not ready yet. Check the status endpoint for progress."

type JobsController interface {
	Generate(c *gin.Context)
	Status(c *gin.Context)
	Download(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type jobsController struct {
	logger      outbound.LoggerPort
	workerPool  outbound.TaskDispatcher
	jobStore    outbound.JobStorePort
	jobPipeline inbound.JobPipelinePort
}

func NewJobsController(
	logger outbound.LoggerPort,
	workerPool outbound.TaskDispatcher,
	jobStore outbound.JobStorePort,
	jobPipeline inbound.JobPipelinePort) JobsController {
	return &jobsController{
		logger:      logger,
		workerPool:  workerPool,
		jobStore:    jobStore,
		jobPipeline: jobPipeline,
	}
}

// Generate accepts a prompt, creates the pending job record and hands the
// pipeline run to the worker pool. The response carries only the job id;
// the caller polls status/download from there.
func (j *jobsController) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Prompt cannot be empty"})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "Prompt cannot be empty"})
		return
	}

	jobID := uuid.NewString()
	job := domain.NewJob(jobID, time.Now().UTC())
	j.jobStore.Set(c.Request.Context(), job)

	// The run must outlive this request, so it gets a detached context
	// rather than gin's.
	err := j.workerPool.Submit(func() {
		j.jobPipeline.Run(context.Background(), jobID, prompt)
	})
	if err != nil {
		j.logger.ErrorWithFields(err, "Failed to submit pipeline run to worker pool", map[string]interface{}{
			"job_id": jobID,
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "Failed to start job"})
		return
	}

	c.JSON(http.StatusOK, dto.GenerateResponse{JobID: jobID})
}

func (j *jobsController) Status(c *gin.Context) {
	job, ok := j.lookupJob(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{
		JobID:     job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		CreatedAt: job.CreatedAt,
		Error:     job.Error,
	})
}

func (j *jobsController) Download(c *gin.Context) {
	job, ok := j.lookupJob(c)
	if !ok {
		return
	}

	switch job.Status {
	case domain.JobComplete:
		c.JSON(http.StatusOK, dto.DownloadResponse{
			JobID:    job.ID,
			Status:   job.Status,
			VideoURL: job.VideoURL,
		})
	case domain.JobError:
		c.JSON(http.StatusOK, dto.DownloadResponse{
			JobID:   job.ID,
			Status:  job.Status,
			Message: job.Error,
		})
	default:
		c.JSON(http.StatusOK, dto.DownloadResponse{
			JobID:   job.ID,
			Status:  job.Status,
			Message: notReadyMessage,
		})
	}
}

func (j *jobsController) lookupJob(c *gin.Context) (domain.Job, bool) {
	job, err := j.jobStore.Get(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Job not found"})
		return domain.Job{}, false
	}
	return job, true
}

func (j *jobsController) RegisterRoutes(g *gin.Engine) {
	g.POST("/generate", j.Generate)
	g.GET("/status/:job_id", j.Status)
	g.GET("/download/:job_id", j.Download)
}
