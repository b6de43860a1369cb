package dto

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateResponse struct {
	JobID string `json:"job_id"`
}
