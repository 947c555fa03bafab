// Package tiktok replays TikTok's web comment API.
//
// This package includes:
//   - Session, an HTTP client carrying the user's cookies and fixed browser headers
//   - Fetcher, which pages through top-level comments and their replies
//   - Helpers for video IDs and endpoint URLs
//
// Example usage:
//
//	session, err := tiktok.NewSession(creds, 20*time.Second, log)
//	if err != nil {
//	    return err
//	}
//	fetcher := tiktok.NewFetcher(session, tiktok.OptionsFromConfig(cfg.Fetch), log)
//
//	id, ok := tiktok.ExtractVideoID(link)
//	if !ok {
//	    // skip the link
//	}
//	result, err := fetcher.FetchComments(ctx, id, link)
//	if err != nil {
//	    // network failure or cancellation; result holds what was collected
//	}
//	switch result.Stop {
//	case tiktok.StopForbidden:
//	    // refresh cookies
//	}
package tiktok
