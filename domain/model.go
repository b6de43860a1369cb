package domain

import "time"

type JobState string

const (
	JobPending          JobState = "pending"
	JobGeneratingScript JobState = "generating_script"
	JobGeneratingVideo  JobState = "generating_video"
	JobAddingCaptions   JobState = "adding_captions"
	JobComplete         JobState = "complete"
	JobError            JobState = "error"
)

// Terminal reports whether no further transitions can occur from the state.
func (s JobState) Terminal() bool {
	return s == JobComplete || s == JobError
}

// Job is the record tracked per generation request. Only the pipeline run
// owning the job id mutates it; the API handlers just read it back.
type Job struct {
	ID        string    `json:"id"`
	Status    JobState  `json:"status"`
	Progress  float64   `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	VideoURL  string    `json:"video_url,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func NewJob(id string, createdAt time.Time) Job {
	return Job{
		ID:        id,
		Status:    JobPending,
		Progress:  0,
		CreatedAt: createdAt,
	}
}

const (
	// SceneCount is the number of scenes every script contains, success or fallback.
	SceneCount = 5
	// DialogueWordCount is the exact word count every scene dialogue is
	// normalized to, about six seconds of speech at three words per second.
	DialogueWordCount = 18
)

type Scene struct {
	SceneNumber       int    `json:"scene_number"`
	VisualDescription string `json:"visual_description"`
	Dialogue          string `json:"dialogue"`
}
