// Package scraper drives a run over a list of TikTok video links.
//
// For every link the scraper extracts the video id, fetches the comment
// thread through a CommentFetcher and appends the result to a Sink. Links
// are processed strictly one after another with a fixed pause in between.
//
// Per-link problems never abort the run:
//   - a link without a video id is skipped
//   - a network failure skips the link without writing anything
//   - a failed write is counted and the run moves on
//
// Stale credentials (403), unreadable pages and empty threads still produce
// a block, possibly with zero comments, so the output file records that the
// link was attempted.
//
// Usage:
//
//	links, err := scraper.ReadLinks("links.txt")
//	if err != nil {
//	    return err
//	}
//
//	s := scraper.New(fetcher, textLog, cfg.Fetch.ItemPause, log)
//	summary, err := s.Run(ctx, links)
package scraper
