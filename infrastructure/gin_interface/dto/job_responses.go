package dto

import (
	"time"

	"github.com/zylo-solution/luka-video-generation-task/domain"
)

type StatusResponse struct {
	JobID     string          `json:"job_id"`
	Status    domain.JobState `json:"status"`
	Progress  float64         `json:"progress"`
	CreatedAt time.Time       `json:"created_at"`
	Error     string          `json:"error,omitempty"`
}

type DownloadResponse struct {
	JobID    string          `json:"job_id"`
	Status   domain.JobState `json:"status"`
	VideoURL string          `json:"video_url,omitempty"`
	Message  string          `json:"message,omitempty"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
