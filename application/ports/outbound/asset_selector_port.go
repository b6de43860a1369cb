package outbound

import "context"

// AssetSelectorPort resolves the avatar and voice for the render stage. It
// never fails: without credentials or on provider errors it falls back to
// fixed identifiers. The first successful selection is cached for the
// process lifetime and never invalidated.
type AssetSelectorPort interface {
	SelectAssets(ctx context.Context) (avatarID string, voiceID string)
}
