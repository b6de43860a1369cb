package inbound

import "context"

// JobPipelinePort drives one job through script generation, rendering and
// captioning. Run has no return value: every outcome, including failure, is
// recorded on the job record.
type JobPipelinePort interface {
	Run(ctx context.Context, jobID string, prompt string)
}
