package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
)

const (
	captionProgressFloor = 0.75
	captionProgressSpan  = 0.2
)

type captionProjectRequest struct {
	Title        string `json:"title"`
	Language     string `json:"language"`
	VideoURL     string `json:"videoUrl"`
	TemplateName string `json:"templateName"`
}

type captionProjectResponse struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Status    string `json:"status"`
	// The export download shows up under either name depending on the
	// project state.
	DownloadURL string `json:"downloadUrl"`
	DirectURL   string `json:"directUrl"`
}

// submagicCaptionBurner drives the caption burn-in: create a project,
// trigger its export, poll until the download URL appears. Every failure
// resolves to "no captions" rather than an error; the pipeline then ships
// the uncaptioned video.
type submagicCaptionBurner struct {
	ContentFetcher
	submagicConfig *config.SubmagicConfig
	logger         outbound.LoggerPort
}

func NewSubmagicCaptionBurner(contentFetcher ContentFetcher, submagicConfig *config.SubmagicConfig, logger outbound.LoggerPort) outbound.CaptionBurnerPort {
	return &submagicCaptionBurner{
		ContentFetcher: contentFetcher,
		submagicConfig: submagicConfig,
		logger:         logger,
	}
}

func (s *submagicCaptionBurner) AddCaptions(ctx context.Context, params outbound.CaptionParams) (string, bool) {
	if s.submagicConfig.ApiKey == "" {
		s.logger.Debug("No Submagic API key configured, skipping captions")
		return "", false
	}

	projectID, err := s.createProject(ctx, params)
	if err != nil {
		s.logger.ErrorWithFields(err, "Caption project creation failed, skipping captions", map[string]interface{}{
			"job_id": params.JobID,
		})
		return "", false
	}

	if err := s.triggerExport(ctx, projectID); err != nil {
		s.logger.ErrorWithFields(err, "Caption export failed, skipping captions", map[string]interface{}{
			"job_id": params.JobID, "project_id": projectID,
		})
		return "", false
	}

	return s.pollForDownload(ctx, projectID, params)
}

func (s *submagicCaptionBurner) createProject(ctx context.Context, params outbound.CaptionParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.submagicConfig.RequestTimeout)
	defer cancel()

	reqBody := captionProjectRequest{
		Title:        fmt.Sprintf("Video job %s", params.JobID),
		Language:     "en",
		VideoURL:     params.VideoURL,
		TemplateName: s.submagicConfig.TemplateName,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.submagicConfig.ApiUrl+"/v1/projects", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", err
	}
	s.setHeaders(req)

	payload, err := s.FetchContent(req)
	if err != nil {
		return "", err
	}

	var resp captionProjectResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", err
	}
	projectID := resp.ID
	if projectID == "" {
		projectID = resp.ProjectID
	}
	if projectID == "" {
		return "", fmt.Errorf("no project id returned from Submagic")
	}
	return projectID, nil
}

func (s *submagicCaptionBurner) triggerExport(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.submagicConfig.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", s.submagicConfig.ApiUrl+"/v1/projects/"+projectID+"/export", nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	_, err = s.FetchContent(req)
	return err
}

// pollForDownload checks the project on a fixed cadence. Per-attempt errors
// are swallowed and count as one attempt; exhaustion resolves to absent.
func (s *submagicCaptionBurner) pollForDownload(ctx context.Context, projectID string, params outbound.CaptionParams) (string, bool) {
	interval := s.submagicConfig.PollInterval
	attempts := s.submagicConfig.PollAttempts

	for i := 0; i < attempts; i++ {
		reportProgress(params.OnProgress, captionProgressFloor+float64(i)/float64(attempts)*captionProgressSpan)

		project, err := s.fetchProject(ctx, projectID)
		if err != nil {
			s.logger.ErrorWithFields(err, "Error polling caption project", map[string]interface{}{
				"attempt": i + 1, "attempts": attempts, "project_id": projectID,
			})
			if sleepCtx(ctx, interval) != nil {
				return "", false
			}
			continue
		}

		downloadURL := project.DownloadURL
		if downloadURL == "" {
			downloadURL = project.DirectURL
		}
		if project.Status == "completed" && downloadURL != "" {
			return downloadURL, true
		}
		if project.Status == "failed" {
			s.logger.WarnWithFields("Caption project failed, skipping captions", map[string]interface{}{
				"project_id": projectID,
			})
			return "", false
		}

		if sleepCtx(ctx, interval) != nil {
			return "", false
		}
	}

	s.logger.WarnWithFields("Caption polling exhausted, skipping captions", map[string]interface{}{
		"project_id": projectID,
	})
	return "", false
}

func (s *submagicCaptionBurner) fetchProject(ctx context.Context, projectID string) (*captionProjectResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.submagicConfig.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", s.submagicConfig.ApiUrl+"/v1/projects/"+projectID, nil)
	if err != nil {
		return nil, err
	}
	s.setHeaders(req)

	payload, err := s.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var project captionProjectResponse
	if err := json.Unmarshal(payload, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *submagicCaptionBurner) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", s.submagicConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
