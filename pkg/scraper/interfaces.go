package scraper

import (
	"context"

	"github.com/NetNinja-stack/android-tools/pkg/models"
	"github.com/NetNinja-stack/android-tools/pkg/tiktok"
)

// CommentFetcher defines the comment API operations the scraper needs
type CommentFetcher interface {
	FetchComments(ctx context.Context, videoID, referer string) (*tiktok.Result, error)
}

// Sink receives the comments collected for one link
type Sink interface {
	Append(link string, comments []models.Comment) error
}
