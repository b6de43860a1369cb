package adapters

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"

	"github.com/zylo-solution/luka-video-generation-task/application/ports/outbound"
	"github.com/zylo-solution/luka-video-generation-task/config"
)

const (
	// fallbackAvatarID is the documented example avatar, used when the
	// listing call is unavailable or fails.
	fallbackAvatarID = "Angela-inTshirt-20220820"
	// defaultVoiceID is fixed: the ElevenLabs "Connie - Professional" voice.
	defaultVoiceID = "d774d69075f24d1fb52a0dad145ba809"
)

type avatarListResponse struct {
	Data struct {
		Avatars []struct {
			AvatarID string `json:"avatar_id"`
		} `json:"avatars"`
	} `json:"data"`
}

// heygenAssetSelector resolves the avatar/voice pair for rendering. The
// first selection, fallback or not, is cached for the process lifetime and
// never invalidated, so the listing endpoint is queried at most once per
// populated cache.
type heygenAssetSelector struct {
	ContentFetcher
	heygenConfig *config.HeyGenConfig
	logger       outbound.LoggerPort

	mu           sync.Mutex
	cachedAvatar string
	cachedVoice  string
}

func NewHeyGenAssetSelector(contentFetcher ContentFetcher, heygenConfig *config.HeyGenConfig, logger outbound.LoggerPort) outbound.AssetSelectorPort {
	return &heygenAssetSelector{
		ContentFetcher: contentFetcher,
		heygenConfig:   heygenConfig,
		logger:         logger,
	}
}

func (h *heygenAssetSelector) SelectAssets(ctx context.Context) (string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cachedAvatar != "" && h.cachedVoice != "" {
		return h.cachedAvatar, h.cachedVoice
	}

	avatarID := fallbackAvatarID
	if h.heygenConfig.ApiKey != "" {
		if picked, ok := h.pickRandomAvatar(ctx); ok {
			avatarID = picked
		}
	}

	h.cachedAvatar, h.cachedVoice = avatarID, defaultVoiceID
	h.logger.InfoWithFields("Selected render assets", map[string]interface{}{
		"avatar_id": avatarID,
		"voice_id":  defaultVoiceID,
	})
	return h.cachedAvatar, h.cachedVoice
}

func (h *heygenAssetSelector) pickRandomAvatar(ctx context.Context) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.heygenConfig.ListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", h.heygenConfig.ApiUrl+"/v2/avatars", nil)
	if err != nil {
		h.logger.Error(err, "Failed to create the avatar listing request, using fallback avatar")
		return "", false
	}
	req.Header.Set("X-Api-Key", h.heygenConfig.ApiKey)
	req.Header.Set("Accept", "application/json")

	payload, err := h.FetchContent(req)
	if err != nil {
		h.logger.Error(err, "Avatar fetch failed, using fallback avatar")
		return "", false
	}

	var listing avatarListResponse
	if err := json.Unmarshal(payload, &listing); err != nil {
		h.logger.Error(err, "Failed to parse the avatar listing, using fallback avatar")
		return "", false
	}
	if len(listing.Data.Avatars) == 0 {
		return "", false
	}

	picked := listing.Data.Avatars[rand.Intn(len(listing.Data.Avatars))].AvatarID
	if picked == "" {
		return "", false
	}
	return picked, true
}
