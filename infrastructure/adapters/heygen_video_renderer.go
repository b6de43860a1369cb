package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
	"github.com/zylo-solution/luka-video-generation-task/domain"
)

const (
	// Target seconds of speech per scene; speed is derived from the word
	// count so every scene lands close to it.
	sceneTargetSeconds = 6.0
	wordsPerSecond     = 3.0
	minSpeakingSpeed   = 0.6
	maxSpeakingSpeed   = 1.5

	defaultVideoDuration = 30.0

	renderProgressFloor = 0.2
	renderProgressSpan  = 0.5
)

// sceneEmotions tags each scene position for a natural narration arc.
var sceneEmotions = [domain.SceneCount]string{"Excited", "Friendly", "Serious", "Friendly", "Friendly"}

type renderCharacter struct {
	Type        string `json:"type"`
	AvatarID    string `json:"avatar_id"`
	AvatarStyle string `json:"avatar_style"`
}

type renderVoice struct {
	Type      string  `json:"type"`
	InputText string  `json:"input_text"`
	VoiceID   string  `json:"voice_id"`
	Speed     float64 `json:"speed"`
	Emotion   string  `json:"emotion"`
}

type renderBackground struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type renderVideoInput struct {
	Character  renderCharacter  `json:"character"`
	Voice      renderVoice      `json:"voice"`
	Background renderBackground `json:"background"`
}

type renderSubmitRequest struct {
	VideoInputs []renderVideoInput `json:"video_inputs"`
	Dimension   renderDimension    `json:"dimension"`
}

type renderDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type renderSubmitResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

type renderStatusResponse struct {
	Data struct {
		Status   string  `json:"status"`
		VideoURL string  `json:"video_url"`
		Duration float64 `json:"duration"`
		Error    struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"data"`
}

type heygenVideoRenderer struct {
	ContentFetcher
	heygenConfig *config.HeyGenConfig
	logger       outbound.LoggerPort
}

func NewHeyGenVideoRenderer(contentFetcher ContentFetcher, heygenConfig *config.HeyGenConfig, logger outbound.LoggerPort) outbound.VideoRendererPort {
	return &heygenVideoRenderer{
		ContentFetcher: contentFetcher,
		heygenConfig:   heygenConfig,
		logger:         logger,
	}
}

func (h *heygenVideoRenderer) Render(ctx context.Context, params outbound.RenderParams) (outbound.RenderResult, error) {
	if h.heygenConfig.ApiKey == "" {
		return outbound.RenderResult{}, fmt.Errorf("HEYGEN_API_KEY is missing")
	}

	videoID, err := h.submit(ctx, params)
	if err != nil {
		return outbound.RenderResult{}, fmt.Errorf("HeyGen video generation request failed: %w", err)
	}

	h.logger.InfoWithFields("Render submitted", map[string]interface{}{
		"job_id":   params.JobID,
		"video_id": videoID,
	})
	return h.pollUntilDone(ctx, videoID, params)
}

func (h *heygenVideoRenderer) submit(ctx context.Context, params outbound.RenderParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.heygenConfig.SubmitTimeout)
	defer cancel()

	reqBody := renderSubmitRequest{
		VideoInputs: buildVideoInputs(params.Scenes, params.AvatarID, params.VoiceID),
		Dimension:   renderDimension{Width: 1280, Height: 720},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.heygenConfig.ApiUrl+"/v2/video/generate", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", err
	}
	h.setHeaders(req)

	payload, err := h.FetchContent(req)
	if err != nil {
		return "", err
	}

	var resp renderSubmitResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", err
	}
	if resp.Data.VideoID == "" {
		return "", fmt.Errorf("failed to obtain video_id from HeyGen response")
	}
	return resp.Data.VideoID, nil
}

// pollUntilDone checks the render status on a fixed cadence until a terminal
// state. Transient errors never abandon an attempt: HTTP-level failures wait
// twice the cadence, network failures three times, anything else one cadence.
func (h *heygenVideoRenderer) pollUntilDone(ctx context.Context, videoID string, params outbound.RenderParams) (outbound.RenderResult, error) {
	statusURL := h.heygenConfig.ApiUrl + "/v1/video_status.get?video_id=" + url.QueryEscape(videoID)
	interval := h.heygenConfig.PollInterval
	attempts := h.heygenConfig.PollAttempts

	for i := 0; i < attempts; i++ {
		reportProgress(params.OnProgress, renderProgressFloor+float64(i)/float64(attempts)*renderProgressSpan)

		status, err := h.fetchStatus(ctx, statusURL)
		if err != nil {
			wait := interval
			var statusErr *HTTPStatusError
			switch {
			case errors.As(err, &statusErr):
				wait = 2 * interval
				h.logger.ErrorWithFields(err, "HTTP error polling render status", map[string]interface{}{
					"attempt": i + 1, "attempts": attempts, "video_id": videoID,
				})
			case isNetworkError(err):
				wait = 3 * interval
				h.logger.ErrorWithFields(err, "Network error polling render status", map[string]interface{}{
					"attempt": i + 1, "attempts": attempts, "video_id": videoID,
				})
			default:
				h.logger.ErrorWithFields(err, "Error polling render status", map[string]interface{}{
					"attempt": i + 1, "attempts": attempts, "video_id": videoID,
				})
			}
			if err := sleepCtx(ctx, wait); err != nil {
				return outbound.RenderResult{}, err
			}
			continue
		}

		switch status.Data.Status {
		case "completed":
			if status.Data.VideoURL == "" {
				return outbound.RenderResult{}, fmt.Errorf("video completed but no URL returned")
			}
			duration := status.Data.Duration
			if duration == 0 {
				duration = defaultVideoDuration
			}
			return outbound.RenderResult{VideoURL: status.Data.VideoURL, Duration: duration}, nil
		case "failed":
			message := status.Data.Error.Message
			if message == "" {
				message = "Unknown error"
			}
			return outbound.RenderResult{}, fmt.Errorf("HeyGen video generation failed: %s", message)
		case "pending", "waiting", "processing":
		default:
			h.logger.WarnWithFields("Unknown render status, continuing to poll", map[string]interface{}{
				"status": status.Data.Status, "video_id": videoID,
			})
		}

		if err := sleepCtx(ctx, interval); err != nil {
			return outbound.RenderResult{}, err
		}
	}

	minutes := float64(attempts) * interval.Minutes()
	return outbound.RenderResult{}, fmt.Errorf("HeyGen video generation timed out after %.1f minutes", minutes)
}

func (h *heygenVideoRenderer) fetchStatus(ctx context.Context, statusURL string) (*renderStatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, h.heygenConfig.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", statusURL, nil)
	if err != nil {
		return nil, err
	}
	h.setHeaders(req)

	payload, err := h.FetchContent(req)
	if err != nil {
		return nil, err
	}

	var status renderStatusResponse
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (h *heygenVideoRenderer) setHeaders(req *http.Request) {
	req.Header.Set("X-Api-Key", h.heygenConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func buildVideoInputs(scenes []domain.Scene, avatarID, voiceID string) []renderVideoInput {
	inputs := make([]renderVideoInput, 0, len(scenes))
	for idx, scene := range scenes {
		dialogue := strings.TrimSpace(scene.Dialogue)
		inputs = append(inputs, renderVideoInput{
			Character: renderCharacter{
				Type:        "avatar",
				AvatarID:    avatarID,
				AvatarStyle: "normal",
			},
			Voice: renderVoice{
				Type:      "text",
				InputText: dialogue,
				VoiceID:   voiceID,
				Speed:     speakingSpeed(dialogue),
				Emotion:   sceneEmotions[min(idx, domain.SceneCount-1)],
			},
			Background: renderBackground{
				Type:  "color",
				Value: "#000000",
			},
		})
	}
	return inputs
}

// speakingSpeed derives the voice speed so the dialogue lands near the
// per-scene duration target, clamped to the provider's sensible range.
func speakingSpeed(dialogue string) float64 {
	wordCount := len(strings.Fields(dialogue))
	if wordCount < 1 {
		wordCount = 1
	}
	expected := float64(wordCount) / wordsPerSecond
	speed := expected / sceneTargetSeconds
	speed = math.Max(minSpeakingSpeed, math.Min(speed, maxSpeakingSpeed))
	return math.Round(speed*100) / 100
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func reportProgress(onProgress func(float64), progress float64) {
	if onProgress != nil {
		onProgress(progress)
	}
}

// sleepCtx waits for the interval, returning early only if the process-level
// context is torn down.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
