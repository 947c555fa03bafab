package tiktok

import (
	"context"
	"time"

	"github.com/NetNinja-stack/android-tools/pkg/config"
	apperrors "github.com/NetNinja-stack/android-tools/pkg/errors"
	"github.com/NetNinja-stack/android-tools/pkg/logger"
	"github.com/NetNinja-stack/android-tools/pkg/models"
	"github.com/NetNinja-stack/android-tools/pkg/ratelimit"
)

// StopReason records why a pagination loop ended
type StopReason string

const (
	StopEndOfPages  StopReason = "end_of_pages"
	StopMaxComments StopReason = "max_comments"
	StopForbidden   StopReason = "forbidden"
	StopBadResponse StopReason = "bad_response"
	StopEmptyPage   StopReason = "empty_page"
	StopPageCeiling StopReason = "page_ceiling"
)

// FetchOptions bounds and paces one comment fetch
type FetchOptions struct {
	// MaxComments stops paging once this many top-level comments were collected; <= 0 disables it
	MaxComments int
	// MaxIncludesReplies counts replies against MaxComments as well
	MaxIncludesReplies bool
	// PageSize is clamped to 1..MaxPageSize
	PageSize int
	// MaxPages bounds each pagination loop; <= 0 disables it
	MaxPages int
	// PageDelay is the fixed pause between pages
	PageDelay time.Duration
}

// OptionsFromConfig maps the fetch section of the configuration onto FetchOptions
func OptionsFromConfig(cfg config.FetchConfig) FetchOptions {
	return FetchOptions{
		MaxComments:        cfg.MaxComments,
		MaxIncludesReplies: cfg.MaxIncludesReplies,
		PageSize:           cfg.BatchSize,
		MaxPages:           cfg.MaxPages,
		PageDelay:          cfg.PageDelay,
	}
}

// Result is everything collected for one video, in discovery order:
// each top-level comment is followed by its replies.
type Result struct {
	VideoID      string
	Comments     []models.Comment
	TopLevel     int
	Replies      int
	Pages        int
	ReplyFetches int
	Stop         StopReason
}

// Fetcher pages through the comments and replies of videos over one Session
type Fetcher struct {
	session *Session
	opts    FetchOptions
	pacer   ratelimit.Limiter
	logger  logger.Logger
}

// NewFetcher creates a fetcher using a fixed delay between pages
func NewFetcher(session *Session, opts FetchOptions, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	opts.PageSize = ClampPageSize(opts.PageSize)

	return &Fetcher{
		session: session,
		opts:    opts,
		pacer:   ratelimit.NewFixedDelay(opts.PageDelay),
		logger:  log,
	}
}

// ceilingReached reports whether the collected comments hit MaxComments
func (f *Fetcher) ceilingReached(res *Result) bool {
	if f.opts.MaxComments <= 0 {
		return false
	}
	count := res.TopLevel
	if f.opts.MaxIncludesReplies {
		count += res.Replies
	}
	return count >= f.opts.MaxComments
}

func (f *Fetcher) pageCeilingReached(page int) bool {
	return f.opts.MaxPages > 0 && page > f.opts.MaxPages
}

// addReply appends a reply unless its ID was already collected for this video
func (res *Result) addReply(seen map[string]struct{}, reply models.Comment) {
	if _, dup := seen[reply.ID]; dup {
		return
	}
	seen[reply.ID] = struct{}{}
	res.Comments = append(res.Comments, reply)
	res.Replies++
}

// FetchComments collects the top-level comments of a video and their replies.
//
// Stale credentials (403), unreadable responses, an empty page, the end of pages
// and the configured ceilings all end the loop without an error; the result says
// which one happened. Network failures and cancellation return the partial
// result together with the error.
func (f *Fetcher) FetchComments(ctx context.Context, videoID, referer string) (*Result, error) {
	log := f.logger.WithField("video_id", videoID)
	res := &Result{VideoID: videoID}
	seen := make(map[string]struct{})
	cursor := "0"

	for page := 1; ; page++ {
		if f.pageCeilingReached(page) {
			log.WarnWithFields("Page ceiling reached, stopping", map[string]interface{}{
				"max_pages": f.opts.MaxPages,
			})
			res.Stop = StopPageCeiling
			return res, nil
		}

		var resp CommentListResponse
		url := GetCommentListURL(f.session.BaseURL(), videoID, cursor, f.opts.PageSize)
		if err := f.session.GetJSON(ctx, url, referer, &resp); err != nil {
			switch apperrors.TypeOf(err) {
			case apperrors.ErrorTypeForbidden:
				log.Error("403 Forbidden: cookies or User-Agent are probably stale, refresh them")
				res.Stop = StopForbidden
				return res, nil
			case apperrors.ErrorTypeParsing, apperrors.ErrorTypeServerError:
				log.WithError(err).Warn("Unusable comment page, stopping")
				res.Stop = StopBadResponse
				return res, nil
			default:
				return res, err
			}
		}
		res.Pages++

		if len(resp.Comments) == 0 {
			if page == 1 {
				log.Warn("No comments returned; check that the video is accessible and cookies are valid")
			}
			res.Stop = StopEmptyPage
			return res, nil
		}

		for _, c := range resp.Comments {
			if f.ceilingReached(res) {
				break
			}
			id := c.CID.String()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			res.Comments = append(res.Comments, c.ToModel(""))
			res.TopLevel++

			if !c.NeedsReplyFetch() {
				for _, inline := range c.ReplyComment {
					res.addReply(seen, inline.ToModel(id))
				}
				continue
			}

			replies, stop, err := f.FetchReplies(ctx, videoID, id, referer)
			res.ReplyFetches++
			for _, reply := range replies {
				res.addReply(seen, reply)
			}
			if err != nil {
				return res, err
			}
			if stop == StopForbidden {
				log.Error("403 Forbidden while fetching replies: cookies or User-Agent are probably stale")
				res.Stop = StopForbidden
				return res, nil
			}
		}

		logger.LogPage(log, "comments", videoID, page, len(resp.Comments), res.TopLevel)

		if f.ceilingReached(res) {
			res.Stop = StopMaxComments
			return res, nil
		}
		if !resp.HasMore {
			res.Stop = StopEndOfPages
			return res, nil
		}

		cursor = nextCursor(resp.Cursor)
		if err := f.pacer.Wait(ctx); err != nil {
			return res, err
		}
	}
}

// FetchReplies collects every reply to parentID, deduplicated within this call.
// A 403 is reported as StopForbidden; unreadable pages end the loop quietly.
func (f *Fetcher) FetchReplies(ctx context.Context, videoID, parentID, referer string) ([]models.Comment, StopReason, error) {
	log := f.logger.WithFields(map[string]interface{}{
		"video_id":  videoID,
		"parent_id": parentID,
	})
	var replies []models.Comment
	seen := make(map[string]struct{})
	cursor := "0"

	for page := 1; ; page++ {
		if f.pageCeilingReached(page) {
			log.Warn("Reply page ceiling reached, stopping")
			return replies, StopPageCeiling, nil
		}

		var resp CommentListResponse
		url := GetReplyListURL(f.session.BaseURL(), videoID, parentID, cursor, ReplyPageSize)
		if err := f.session.GetJSON(ctx, url, referer, &resp); err != nil {
			switch apperrors.TypeOf(err) {
			case apperrors.ErrorTypeForbidden:
				return replies, StopForbidden, nil
			case apperrors.ErrorTypeParsing, apperrors.ErrorTypeServerError:
				log.WithError(err).Debug("Unusable reply page, stopping")
				return replies, StopBadResponse, nil
			default:
				return replies, "", err
			}
		}

		if len(resp.Comments) == 0 {
			return replies, StopEmptyPage, nil
		}

		for _, r := range resp.Comments {
			id := r.CID.String()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			replies = append(replies, r.ToModel(parentID))
		}

		logger.LogPage(log, "replies", videoID, page, len(resp.Comments), len(replies))

		if !resp.HasMore {
			return replies, StopEndOfPages, nil
		}

		cursor = nextCursor(resp.Cursor)
		if err := f.pacer.Wait(ctx); err != nil {
			return replies, "", err
		}
	}
}

// nextCursor falls back to "0" when the server omits the cursor
func nextCursor(c FlexString) string {
	if c == "" {
		return "0"
	}
	return c.String()
}
