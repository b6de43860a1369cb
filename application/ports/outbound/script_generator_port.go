package outbound

import (
	"context"

	"github.com/zylo-solution/luka-video-generation-task/domain"
)

// ScriptGeneratorPort produces the five-scene script for a prompt. It never
// fails: any provider problem degrades to a deterministic local script, and
// every returned dialogue holds exactly domain.DialogueWordCount words.
type ScriptGeneratorPort interface {
	GenerateScript(ctx context.Context, prompt string) []domain.Scene
}
