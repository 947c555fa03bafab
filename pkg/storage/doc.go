// Package storage persists fetched comments.
//
// TextLog appends one human-readable block per video link to a single text
// file shared by the whole run. Each block is written with one append-mode
// write, and existing content is never truncated or rewritten.
//
// Usage:
//
//	log, err := storage.NewTextLog("database.txt")
//	if err != nil {
//	    return err
//	}
//	if err := log.Append(link, result.Comments); err != nil {
//	    return err
//	}
package storage
