package outbound

import (
	"context"

	"github.com/zylo-solution/luka-video-generation-task/domain"
)

type RenderParams struct {
	Scenes   []domain.Scene
	AvatarID string
	VoiceID  string
	JobID    string
	// OnProgress receives interpolated progress while the render is polled.
	// May be nil.
	OnProgress func(progress float64)
}

type RenderResult struct {
	VideoURL string
	Duration float64
}

// VideoRendererPort submits the scenes to the render provider and waits for
// a terminal state. Errors here are fatal to the job.
type VideoRendererPort interface {
	Render(ctx context.Context, params RenderParams) (RenderResult, error)
}
