package mock_providers

import (
	"github.com/gin-gonic/gin"
	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
)

// Init registers in-process mocks of the three providers and rewires the
// provider configs at the local server, so the full pipeline can run with
// no credentials. Call before the driver adapters are constructed.
func Init(g *gin.Engine, cfg *config.AppConfig, baseURL string, logger outbound.LoggerPort) {
	cfg.Gemini.ApiUrl = baseURL + "/mock/gemini"
	cfg.Gemini.ApiKey = "mock"
	cfg.HeyGen.ApiUrl = baseURL + "/mock/heygen"
	cfg.HeyGen.ApiKey = "mock"
	cfg.Submagic.ApiUrl = baseURL + "/mock/submagic"
	cfg.Submagic.ApiKey = "mock"

	controller := NewMockProviderController(logger)
	controller.RegisterRoutes(g)

	logger.InfoWithFields("Mock providers enabled", map[string]interface{}{
		"base_url": baseURL,
	})
}
