package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
	"github.com/zylo-solution/luka-video-generation-task/domain"
)

const dialoguePadToken = "..."

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type scriptPayload struct {
	Scenes []domain.Scene `json:"scenes"`
}

var codeFenceRe = regexp.MustCompile("(?i)^```(?:json)?\\s*|```$")

type geminiScriptGenerator struct {
	ContentFetcher
	geminiConfig *config.GeminiConfig
	logger       outbound.LoggerPort
}

func NewGeminiScriptGenerator(contentFetcher ContentFetcher, geminiConfig *config.GeminiConfig, logger outbound.LoggerPort) outbound.ScriptGeneratorPort {
	return &geminiScriptGenerator{
		ContentFetcher: contentFetcher,
		geminiConfig:   geminiConfig,
		logger:         logger,
	}
}

func (g *geminiScriptGenerator) GenerateScript(ctx context.Context, prompt string) []domain.Scene {
	if g.geminiConfig.ApiKey == "" {
		g.logger.Warn("No Gemini API key configured, using fallback script")
		return g.fallbackScript(prompt)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.geminiConfig.Timeout)
	defer cancel()

	req, err := g.getRequest(timeoutCtx, prompt)
	if err != nil {
		g.logger.Error(err, "Failed to construct the Gemini request, using fallback script")
		return g.fallbackScript(prompt)
	}

	payload, err := g.FetchContent(req)
	if err != nil {
		g.logger.ErrorWithFields(err, "Gemini request failed, using fallback script", map[string]interface{}{
			"prompt": prompt,
		})
		return g.fallbackScript(prompt)
	}

	scenes, err := g.parseScenes(payload)
	if err != nil {
		g.logger.ErrorWithFields(err, "Failed to parse Gemini response, using fallback script", map[string]interface{}{
			"prompt": prompt,
		})
		return g.fallbackScript(prompt)
	}

	g.logger.InfoWithFields("Generated script", map[string]interface{}{
		"scenes": len(scenes),
	})
	return scenes
}

func (g *geminiScriptGenerator) getRequest(ctx context.Context, prompt string) (*http.Request, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildScriptInstruction(prompt)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 2048,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.geminiConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	query := req.URL.Query()
	query.Set("key", g.geminiConfig.ApiKey)
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// parseScenes extracts the first candidate's text, strips any code fences the
// model wrapped the JSON in, and enforces the five-scene shape.
func (g *geminiScriptGenerator) parseScenes(payload []byte) ([]domain.Scene, error) {
	var resp geminiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	text = strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))

	var script scriptPayload
	if err := json.Unmarshal([]byte(text), &script); err != nil {
		return nil, err
	}
	if len(script.Scenes) != domain.SceneCount {
		return nil, fmt.Errorf("invalid scenes structure: expected %d scenes, got %d", domain.SceneCount, len(script.Scenes))
	}

	validated := make([]domain.Scene, 0, domain.SceneCount)
	for idx, scene := range script.Scenes {
		if scene.SceneNumber == 0 {
			scene.SceneNumber = idx + 1
		}
		if scene.VisualDescription == "" {
			scene.VisualDescription = fmt.Sprintf("Scene %d", idx+1)
		}
		// The provider's word count is never trusted.
		scene.Dialogue = normalizeDialogue(scene.Dialogue)
		validated = append(validated, scene)
	}
	return validated, nil
}

// normalizeDialogue forces the dialogue to exactly DialogueWordCount
// whitespace-separated words, padding with a placeholder token or truncating.
func normalizeDialogue(dialogue string) string {
	words := strings.Fields(dialogue)
	for len(words) < domain.DialogueWordCount {
		words = append(words, dialoguePadToken)
	}
	if len(words) > domain.DialogueWordCount {
		words = words[:domain.DialogueWordCount]
	}
	return strings.Join(words, " ")
}

// fallbackScript builds a deterministic five-scene script around the prompt,
// used whenever the provider call cannot produce a valid one.
func (g *geminiScriptGenerator) fallbackScript(prompt string) []domain.Scene {
	g.logger.WarnWithFields("Using fallback script", map[string]interface{}{
		"prompt": prompt,
	})

	templates := []string{
		fmt.Sprintf("Let's explore %s and discover what makes it truly fascinating for millions around the world today.", prompt),
		fmt.Sprintf("Understanding %s requires looking at how it's evolved and where it's headed in the coming years ahead.", prompt),
		fmt.Sprintf("What makes %s so remarkable isn't just what it is but how it's changing lives everywhere right now.", prompt),
		fmt.Sprintf("From its origins to its current impact %s continues to shape our world in unexpected and powerful ways.", prompt),
		fmt.Sprintf("The future of %s holds incredible possibilities that we're only beginning to understand and experience fully today.", prompt),
	}

	visuals := []string{
		"Dynamic opening shot with engaging visuals and movement",
		"Contextual imagery showing historical or foundational elements",
		"Core content visualization with detailed close-ups and information",
		"Impact shots showing real-world effects and transformations",
		"Closing scene with forward-looking perspective and hope",
	}

	scenes := make([]domain.Scene, 0, domain.SceneCount)
	for idx, template := range templates {
		scenes = append(scenes, domain.Scene{
			SceneNumber:       idx + 1,
			VisualDescription: visuals[idx],
			Dialogue:          normalizeDialogue(template),
		})
	}
	return scenes
}

// buildScriptInstruction combines the scriptwriting rules and the user topic
// into the single instruction sent to the model.
func buildScriptInstruction(prompt string) string {
	systemPrompt := "You are an expert documentary scriptwriter creating professional 30-second video narrations. " +
		"Your task is to write a compelling narrative that sounds like a real person speaking naturally.\n\n" +
		"CRITICAL RULES:\n" +
		"1. Return ONLY valid JSON - no markdown, no code fences, no extra text\n" +
		"2. All 5 scenes MUST be directly connected and relate to the user's specific topic\n" +
		"3. Each scene builds upon the previous one, telling ONE cohesive story about the topic\n" +
		"4. STRICT NO WORD REPETITION RULE: Each word can only appear ONCE in the entire script\n" +
		"5. Even common words like 'the', 'and', 'is', 'are' should not repeat if possible\n" +
		"6. Use synonyms religiously and rephrase to avoid repetition\n" +
		"7. NEVER start sentences with 'This is', 'This was', 'Here we see', or similar phrases\n" +
		"8. Write as if you're a professional narrator speaking to an audience\n" +
		"9. Each scene dialogue must be EXACTLY 18 words - count carefully\n" +
		"10. Make dialogue flow naturally from one scene to the next with unique vocabulary\n" +
		"11. Vary sentence structure and word choice dramatically between scenes\n" +
		"12. Stay focused on the user's topic - every scene must advance the story about that specific subject\n\n" +
		"JSON Format Required:\n" +
		"{\n" +
		"  \"scenes\": [\n" +
		"    {\n" +
		"      \"scene_number\": 1,\n" +
		"      \"visual_description\": \"descriptive text in present tense\",\n" +
		"      \"dialogue\": \"exactly 18 words of natural narration\"\n" +
		"    }\n" +
		"  ]\n" +
		"}"

	userPrompt := fmt.Sprintf("Write a professional 30-second documentary narration about: %s\n\n"+
		"ALL 5 SCENES must be directly about this specific topic and tell ONE connected story.\n\n"+
		"Create exactly 5 scenes with this narrative structure:\n"+
		"Scene 1 (HOOK): Grab attention about '%s' with an intriguing fact. Use unique, powerful vocabulary.\n"+
		"Scene 2 (CONTEXT): Provide essential background ABOUT '%s'. Use DIFFERENT words - synonyms only.\n"+
		"Scene 3 (CORE CONTENT): Deliver the main insight ABOUT '%s'. AVOID previous words, use fresh vocabulary.\n"+
		"Scene 4 (IMPACT): Show the significance OF '%s'. NEW words only - no repetition from any scene.\n"+
		"Scene 5 (CONCLUSION): End with a memorable takeaway ABOUT '%s'. UNIQUE vocabulary not used anywhere else.\n\n"+
		"CRITICAL REQUIREMENTS:\n"+
		"- Every scene must clearly relate to the specific topic: %s\n"+
		"- Check that NO single word appears twice across all 5 scenes\n"+
		"- Use synonyms extensively to maintain variety while staying on topic\n\n"+
		"Write naturally. Sound human. Show emotion. Engage the audience. Stay on topic. "+
		"ZERO word repetition. Maximum variety.",
		prompt, prompt, prompt, prompt, prompt, prompt, prompt)

	return systemPrompt + "\n\n" + userPrompt
}
