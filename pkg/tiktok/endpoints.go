package tiktok

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// BaseURL is the base URL for TikTok
	BaseURL = "https://www.tiktok.com"

	// CommentListEndpoint lists top-level comments of a video
	CommentListEndpoint = "/api/comment/list/"

	// ReplyListEndpoint lists replies to one comment
	ReplyListEndpoint = "/api/comment/list/reply/"

	// AppID is the aid query parameter the web client sends
	AppID = "1988"

	// MaxPageSize is the largest count the web API serves per page
	MaxPageSize = 50

	// ReplyPageSize is the fixed count used for reply pages
	ReplyPageSize = 50
)

var videoPathPattern = regexp.MustCompile(`/video/(\d+)`)

// ExtractVideoID returns the numeric video ID from a TikTok link.
// It understands /@user/video/<id> links and falls back to a numeric last path segment.
func ExtractVideoID(link string) (string, bool) {
	if m := videoPathPattern.FindStringSubmatch(link); m != nil {
		return m[1], true
	}

	path, _, _ := strings.Cut(link, "?")
	path = strings.TrimRight(path, "/")
	tail := path[strings.LastIndex(path, "/")+1:]
	if isDigits(tail) {
		return tail, true
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClampPageSize keeps a requested page size within 1..MaxPageSize
func ClampPageSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// GetCommentListURL constructs the URL for one page of top-level comments
func GetCommentListURL(baseURL, videoID, cursor string, count int) string {
	params := url.Values{}
	params.Set("aid", AppID)
	params.Set("aweme_id", videoID)
	params.Set("cursor", cursor)
	params.Set("count", strconv.Itoa(count))

	return fmt.Sprintf("%s%s?%s", baseURL, CommentListEndpoint, params.Encode())
}

// GetReplyListURL constructs the URL for one page of replies to parentID
func GetReplyListURL(baseURL, videoID, parentID, cursor string, count int) string {
	params := url.Values{}
	params.Set("aid", AppID)
	params.Set("aweme_id", videoID)
	params.Set("comment_id", parentID)
	params.Set("cursor", cursor)
	params.Set("count", strconv.Itoa(count))

	return fmt.Sprintf("%s%s?%s", baseURL, ReplyListEndpoint, params.Encode())
}

// GetVideoURL constructs the public URL of a video, used as a Referer when the
// input link is not a full URL
func GetVideoURL(handle, videoID string) string {
	if videoID == "" {
		return ""
	}
	handle = strings.TrimPrefix(handle, "@")
	if handle == "" {
		return fmt.Sprintf("%s/video/%s", BaseURL, videoID)
	}
	return fmt.Sprintf("%s/@%s/video/%s", BaseURL, handle, videoID)
}
