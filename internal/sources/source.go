package sources

import (
	"context"

	"rollcall/internal/recording"
)

// ListOptions filters a source listing.
type ListOptions struct {
	// MaxDepth limits how many directory levels below the root are walked.
	// Zero means the root only.
	MaxDepth int
	// MinFileSize drops media files smaller than this many bytes. Sidecar
	// files (transcripts, chats, timelines) pass regardless, since they are
	// legitimately tiny.
	MinFileSize int64
}

// Source yields raw recording files and hands their bytes over on demand.
type Source interface {
	// List enumerates every candidate file currently visible.
	List(ctx context.Context, opts ListOptions) ([]recording.RawFile, error)
	// Download places the file's bytes at destPath, verifying integrity.
	Download(ctx context.Context, file recording.RawFile, destPath string) error
}
