package mock_providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/domain"
)

type MockProviderController interface {
	RegisterRoutes(g *gin.Engine)
}

type mockProviderController struct {
	logger   outbound.LoggerPort
	renders  *jobTracker
	captions *jobTracker
}

func NewMockProviderController(logger outbound.LoggerPort) MockProviderController {
	return &mockProviderController{
		logger:   logger,
		renders:  newJobTracker(),
		captions: newJobTracker(),
	}
}

func (m *mockProviderController) RegisterRoutes(g *gin.Engine) {
	g.POST("/mock/gemini", m.generateContent)

	g.GET("/mock/heygen/v2/avatars", m.listAvatars)
	g.POST("/mock/heygen/v2/video/generate", m.submitRender)
	g.GET("/mock/heygen/v1/video_status.get", m.renderStatus)

	g.POST("/mock/submagic/v1/projects", m.createCaptionProject)
	g.POST("/mock/submagic/v1/projects/:project_id/export", m.exportCaptionProject)
	g.GET("/mock/submagic/v1/projects/:project_id", m.captionProjectStatus)
}

// generateContent answers like the text-generation API: one candidate whose
// text is a JSON five-scene script, wrapped in a code fence the way the real
// model tends to respond.
func (m *mockProviderController) generateContent(c *gin.Context) {
	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	scenes := make([]domain.Scene, 0, domain.SceneCount)
	for i := 1; i <= domain.SceneCount; i++ {
		words := make([]string, domain.DialogueWordCount)
		for w := range words {
			words[w] = fmt.Sprintf("word%d", (i-1)*domain.DialogueWordCount+w+1)
		}
		scenes = append(scenes, domain.Scene{
			SceneNumber:       i,
			VisualDescription: fmt.Sprintf("Mock visual for scene %d", i),
			Dialogue:          strings.Join(words, " "),
		})
	}

	script, err := json.Marshal(gin.H{"scenes": scenes})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "marshal failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": []gin.H{
			{"content": gin.H{"parts": []gin.H{
				{"text": "```json\n" + string(script) + "\n```"},
			}}},
		},
	})
}

func (m *mockProviderController) listAvatars(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"avatars": []gin.H{
				{"avatar_id": "Mock-Avatar-1"},
				{"avatar_id": "Mock-Avatar-2"},
			},
		},
	})
}

func (m *mockProviderController) submitRender(c *gin.Context) {
	videoID := m.renders.create("mock-video")
	m.logger.InfoWithFields("Mock render submitted", map[string]interface{}{
		"video_id": videoID,
	})
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"video_id": videoID}})
}

func (m *mockProviderController) renderStatus(c *gin.Context) {
	videoID := c.Query("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id is required"})
		return
	}

	if !m.renders.poll(videoID) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "processing"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status":    "completed",
		"video_url": "https://mock.example.com/videos/" + videoID + ".mp4",
		"duration":  30.0,
	}})
}

func (m *mockProviderController) createCaptionProject(c *gin.Context) {
	projectID := m.captions.create("mock-project")
	c.JSON(http.StatusOK, gin.H{"id": projectID, "status": "processing"})
}

func (m *mockProviderController) exportCaptionProject(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "exporting"})
}

func (m *mockProviderController) captionProjectStatus(c *gin.Context) {
	projectID := c.Param("project_id")
	if !m.captions.poll(projectID) {
		c.JSON(http.StatusOK, gin.H{"id": projectID, "status": "processing"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          projectID,
		"status":      "completed",
		"downloadUrl": "https://mock.example.com/captioned/" + projectID + ".mp4",
	})
}
