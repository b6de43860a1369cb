package outbound

import "context"

type CaptionParams struct {
	VideoURL string
	JobID    string
	// OnProgress receives interpolated progress while the export is polled.
	// May be nil.
	OnProgress func(progress float64)
}

// CaptionBurnerPort burns captions into a rendered video. It never fails:
// any provider problem resolves to ok == false and the pipeline keeps the
// uncaptioned URL.
type CaptionBurnerPort interface {
	AddCaptions(ctx context.Context, params CaptionParams) (captionedURL string, ok bool)
}
