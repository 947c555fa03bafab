package scraper

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/NetNinja-stack/android-tools/pkg/errors"
	"github.com/NetNinja-stack/android-tools/pkg/logger"
	"github.com/NetNinja-stack/android-tools/pkg/ratelimit"
	"github.com/NetNinja-stack/android-tools/pkg/tiktok"
	"github.com/NetNinja-stack/android-tools/pkg/ui"
)

// Summary counts what happened to the links of one run
type Summary struct {
	Total     int
	Written   int
	Skipped   int
	Failed    int
	Forbidden int
	Comments  int
}

// Scraper processes links one at a time
type Scraper struct {
	fetcher CommentFetcher
	sink    Sink
	pause   ratelimit.Limiter
	logger  logger.Logger
}

// New creates a scraper that waits itemPause between links
func New(fetcher CommentFetcher, sink Sink, itemPause time.Duration, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		fetcher: fetcher,
		sink:    sink,
		pause:   ratelimit.NewFixedDelay(itemPause),
		logger:  log,
	}
}

// Run processes every link in order. It only returns an error when ctx is
// cancelled; per-link failures are logged and counted in the summary.
func (s *Scraper) Run(ctx context.Context, links []string) (Summary, error) {
	summary := Summary{Total: len(links)}
	tracker := ui.NewStatusTracker(len(links))

	s.logger.InfoWithFields("Starting comment run", map[string]interface{}{
		"links": len(links),
	})

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		before := summary.Comments
		fetched, err := s.processLink(ctx, link, &summary)
		if err != nil {
			return summary, err
		}
		tracker.LinkDone(summary.Comments - before)
		tracker.PrintProgress()

		if fetched && i < len(links)-1 {
			if err := s.pause.Wait(ctx); err != nil {
				return summary, err
			}
		}
	}

	s.logger.InfoWithFields("Comment run finished", map[string]interface{}{
		"links":      summary.Total,
		"written":    summary.Written,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
		"forbidden":  summary.Forbidden,
		"comments":   summary.Comments,
		"elapsed":    tracker.GetElapsedTime().String(),
		"per_minute": tracker.GetCommentRate(),
	})

	return summary, nil
}

// processLink handles one link and reports whether a fetch was attempted.
// The returned error is non-nil only for cancellation.
func (s *Scraper) processLink(ctx context.Context, link string, summary *Summary) (bool, error) {
	ui.PrintHighlight("\nProcessing: " + link)
	log := s.logger.WithField("link", link)

	videoID, ok := tiktok.ExtractVideoID(link)
	if !ok {
		ui.PrintWarning("Could not extract video id from link, skipping")
		log.Warn("Link has no video id, skipping")
		summary.Skipped++
		return false, nil
	}
	log = log.WithField("video_id", videoID)

	result, err := s.fetcher.FetchComments(ctx, videoID, link)
	if err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		if apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
			ui.PrintWarning("Network error for "+link, err)
			log.WithError(err).Warn("Network error, skipping link")
		} else {
			ui.PrintWarning("Error while processing "+link, err)
			log.WithError(err).Error("Failed to fetch comments")
		}
		summary.Failed++
		return true, nil
	}

	if result.Stop == tiktok.StopForbidden {
		ui.PrintError("403 Forbidden: cookies or User-Agent are probably stale, refresh them")
		summary.Forbidden++
	}

	if err := s.sink.Append(link, result.Comments); err != nil {
		ui.PrintWarning("Error while processing "+link, err)
		log.WithError(err).Error("Failed to append comments")
		summary.Failed++
		return true, nil
	}

	summary.Written++
	summary.Comments += len(result.Comments)
	ui.PrintSuccess(fmt.Sprintf("Appended %d comments", len(result.Comments)))
	log.InfoWithFields("Comments appended", map[string]interface{}{
		"comments":      len(result.Comments),
		"top_level":     result.TopLevel,
		"replies":       result.Replies,
		"pages":         result.Pages,
		"reply_fetches": result.ReplyFetches,
		"stop":          string(result.Stop),
	})

	return true, nil
}
