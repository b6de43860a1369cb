package services

import (
	"context"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/inbound"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/domain"
)

// Progress checkpoints committed at each stage boundary. The render and
// caption drivers interpolate between checkpoints while they poll.
const (
	progressScriptStage  = 0.05
	progressRenderStage  = 0.2
	progressCaptionStage = 0.75
	progressComplete     = 1.0
)

type jobPipelineOrchestrator struct {
	logger          outbound.LoggerPort
	jobStore        outbound.JobStorePort
	scriptGenerator outbound.ScriptGeneratorPort
	assetSelector   outbound.AssetSelectorPort
	videoRenderer   outbound.VideoRendererPort
	captionBurner   outbound.CaptionBurnerPort
}

func NewJobPipelineOrchestrator(
	logger outbound.LoggerPort,
	jobStore outbound.JobStorePort,
	scriptGenerator outbound.ScriptGeneratorPort,
	assetSelector outbound.AssetSelectorPort,
	videoRenderer outbound.VideoRendererPort,
	captionBurner outbound.CaptionBurnerPort) inbound.JobPipelinePort {
	return &jobPipelineOrchestrator{
		logger:          logger,
		jobStore:        jobStore,
		scriptGenerator: scriptGenerator,
		assetSelector:   assetSelector,
		videoRenderer:   videoRenderer,
		captionBurner:   captionBurner,
	}
}

// Run drives one job through the four stages, committing status and
// progress to the store after every transition. Script synthesis and asset
// selection cannot fail; a render failure is terminal for the job; caption
// failures degrade to shipping the uncaptioned URL.
func (o *jobPipelineOrchestrator) Run(ctx context.Context, jobID string, prompt string) {
	o.updateJob(ctx, jobID, domain.JobGeneratingScript, progressScriptStage)
	scenes := o.scriptGenerator.GenerateScript(ctx, prompt)

	avatarID, voiceID := o.assetSelector.SelectAssets(ctx)

	o.updateJob(ctx, jobID, domain.JobGeneratingVideo, progressRenderStage)
	rendered, err := o.videoRenderer.Render(ctx, outbound.RenderParams{
		Scenes:   scenes,
		AvatarID: avatarID,
		VoiceID:  voiceID,
		JobID:    jobID,
		OnProgress: func(progress float64) {
			o.updateJob(ctx, jobID, domain.JobGeneratingVideo, progress)
		},
	})
	if err != nil {
		o.failJob(ctx, jobID, err)
		return
	}

	o.updateJob(ctx, jobID, domain.JobAddingCaptions, progressCaptionStage)
	captionedURL, captioned := o.captionBurner.AddCaptions(ctx, outbound.CaptionParams{
		VideoURL: rendered.VideoURL,
		JobID:    jobID,
		OnProgress: func(progress float64) {
			o.updateJob(ctx, jobID, domain.JobAddingCaptions, progress)
		},
	})

	videoURL := rendered.VideoURL
	if captioned {
		videoURL = captionedURL
	}

	job, getErr := o.jobStore.Get(ctx, jobID)
	if getErr != nil {
		o.logger.ErrorWithFields(getErr, "Job record missing at completion", map[string]interface{}{
			"job_id": jobID,
		})
		return
	}
	job.VideoURL = videoURL
	job.Status = domain.JobComplete
	job.Progress = progressComplete
	o.jobStore.Set(ctx, job)

	o.logger.InfoWithFields("Job complete", map[string]interface{}{
		"job_id":    jobID,
		"video_url": videoURL,
		"duration":  rendered.Duration,
		"captioned": captioned,
	})
}

// failJob marks the job as errored, keeping whatever progress it last
// reached.
func (o *jobPipelineOrchestrator) failJob(ctx context.Context, jobID string, cause error) {
	o.logger.ErrorWithFields(cause, "Pipeline failed", map[string]interface{}{
		"job_id": jobID,
	})

	job, err := o.jobStore.Get(ctx, jobID)
	if err != nil {
		o.logger.ErrorWithFields(err, "Job record missing on failure", map[string]interface{}{
			"job_id": jobID,
		})
		return
	}
	job.Status = domain.JobError
	job.Error = cause.Error()
	o.jobStore.Set(ctx, job)
}

// updateJob commits a status/progress transition. Progress is clamped to
// [0, 1] here, the single writer shared by all stages.
func (o *jobPipelineOrchestrator) updateJob(ctx context.Context, jobID string, status domain.JobState, progress float64) {
	job, err := o.jobStore.Get(ctx, jobID)
	if err != nil {
		o.logger.WarnWithFields("Job record missing, dropping update", map[string]interface{}{
			"job_id": jobID,
			"status": string(status),
		})
		return
	}
	job.Status = status
	job.Progress = clampProgress(progress)
	o.jobStore.Set(ctx, job)
}

func clampProgress(progress float64) float64 {
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
