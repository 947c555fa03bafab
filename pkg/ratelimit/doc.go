// Package ratelimit paces requests against the comment API.
//
// Two limiters are provided, both behind the Limiter interface:
//
//   - FixedDelay sleeps the same duration on every Wait. It implements the
//     pause between pages and between links.
//   - RequestCeiling is a token bucket from golang.org/x/time/rate that caps
//     the requests a session sends per minute.
//
// Neither adapts to server responses and neither retries.
//
// Usage:
//
//	pacer := ratelimit.NewFixedDelay(600 * time.Millisecond)
//	if err := pacer.Wait(ctx); err != nil {
//	    return err // cancelled
//	}
//
//	ceiling := ratelimit.NewRequestCeiling(90, 5) // nil when disabled
//	if err := ceiling.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
