// Package tiktoktest provides an in-process stand-in for TikTok's web comment API.
package tiktoktest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
)

const (
	commentPath = "/api/comment/list/"
	replyPath   = "/api/comment/list/reply/"
)

// Comment is one comment served by the mock API
type Comment struct {
	ID         string
	Text       string
	Nickname   string
	Handle     string
	Likes      int
	ReplyTotal int
	Inline     []Comment
}

// Fault replaces the normal response to a request
type Fault struct {
	Status int
	Body   string
	// CloseConnection drops the connection without a response
	CloseConnection bool
}

// Request is what the server saw for one call
type Request struct {
	Path   string
	Query  map[string]string
	Header http.Header
	Cookie map[string]string
}

// feed serves a list of pages; page i is requested with cursor i
type feed struct {
	pages   [][]Comment
	endless bool
}

// Server simulates the comment list and reply list endpoints.
// Pages are addressed by cursor: cursor "0" is the first page, the response to
// page i carries cursor i+1 and has_more while pages remain.
type Server struct {
	server *httptest.Server

	mu       sync.RWMutex
	videos   map[string]*feed
	replies  map[string]*feed
	faults   map[string]Fault
	requests []Request

	commentRequests int32
	replyRequests   int32
}

// NewServer starts a mock comment API server
func NewServer() *Server {
	m := &Server{
		videos:  make(map[string]*feed),
		replies: make(map[string]*feed),
		faults:  make(map[string]Fault),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(commentPath, m.handleComments)
	mux.HandleFunc(replyPath, m.handleReplies)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the base URL of the mock server
func (m *Server) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *Server) Close() {
	m.server.Close()
}

// SetComments serves the given top-level pages for a video
func (m *Server) SetComments(videoID string, pages ...[]Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[videoID] = &feed{pages: pages}
}

// SetEndlessComments serves the same page forever with has_more set and the cursor never advancing
func (m *Server) SetEndlessComments(videoID string, page []Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[videoID] = &feed{pages: [][]Comment{page}, endless: true}
}

// SetReplies serves the given reply pages for a parent comment
func (m *Server) SetReplies(parentID string, pages ...[]Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[parentID] = &feed{pages: pages}
}

// SetCommentFault makes page (1-based) of a video's comments fail; page 0 fails every page
func (m *Server) SetCommentFault(videoID string, page int, f Fault) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[faultKey("comments", videoID, page)] = f
}

// SetReplyFault makes page (1-based) of a comment's replies fail; page 0 fails every page
func (m *Server) SetReplyFault(parentID string, page int, f Fault) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[faultKey("replies", parentID, page)] = f
}

func faultKey(kind, id string, page int) string {
	return fmt.Sprintf("%s:%s:%d", kind, id, page)
}

// CommentRequests returns the number of comment list calls
func (m *Server) CommentRequests() int {
	return int(atomic.LoadInt32(&m.commentRequests))
}

// ReplyRequests returns the number of reply list calls
func (m *Server) ReplyRequests() int {
	return int(atomic.LoadInt32(&m.replyRequests))
}

// ReplyRequestsFor returns how many reply pages were requested for a parent comment
func (m *Server) ReplyRequestsFor(parentID string) int {
	count := 0
	for _, r := range m.Requests() {
		if r.Path == replyPath && r.Query["comment_id"] == parentID {
			count++
		}
	}
	return count
}

// Requests returns every request seen so far
func (m *Server) Requests() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *Server) record(r *http.Request) Request {
	req := Request{
		Path:   r.URL.Path,
		Query:  make(map[string]string),
		Header: r.Header.Clone(),
		Cookie: make(map[string]string),
	}
	for key := range r.URL.Query() {
		req.Query[key] = r.URL.Query().Get(key)
	}
	for _, c := range r.Cookies() {
		req.Cookie[c.Name] = c.Value
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return req
}

func (m *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.commentRequests, 1)
	req := m.record(r)
	videoID := req.Query["aweme_id"]

	m.mu.RLock()
	f := m.videos[videoID]
	m.mu.RUnlock()

	m.serve(w, r, "comments", videoID, req.Query["cursor"], f)
}

func (m *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.replyRequests, 1)
	req := m.record(r)
	parentID := req.Query["comment_id"]

	m.mu.RLock()
	f := m.replies[parentID]
	m.mu.RUnlock()

	m.serve(w, r, "replies", parentID, req.Query["cursor"], f)
}

func (m *Server) serve(w http.ResponseWriter, r *http.Request, kind, id, cursor string, f *feed) {
	index, err := strconv.Atoi(cursor)
	if err != nil || index < 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if fault, ok := m.fault(kind, id, index+1); ok {
		m.sendFault(w, fault)
		return
	}

	var page []Comment
	hasMore := false
	next := index + 1
	switch {
	case f == nil:
	case f.endless:
		page = f.pages[0]
		hasMore = true
		next = index
	case index < len(f.pages):
		page = f.pages[index]
		hasMore = index+1 < len(f.pages)
	}

	comments := make([]map[string]interface{}, 0, len(page))
	for _, c := range page {
		comments = append(comments, encodeComment(c))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status_code": 0,
		"comments":    comments,
		"cursor":      next,
		"has_more":    boolToInt(hasMore),
		"total":       len(comments),
	})
}

func (m *Server) fault(kind, id string, page int) (Fault, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if f, ok := m.faults[faultKey(kind, id, page)]; ok {
		return f, true
	}
	f, ok := m.faults[faultKey(kind, id, 0)]
	return f, ok
}

func (m *Server) sendFault(w http.ResponseWriter, f Fault) {
	if f.CloseConnection {
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, err := hj.Hijack()
			if err == nil {
				conn.Close()
				return
			}
		}
	}

	status := f.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write([]byte(f.Body))
}

func encodeComment(c Comment) map[string]interface{} {
	var inline []map[string]interface{}
	for _, r := range c.Inline {
		inline = append(inline, encodeComment(r))
	}

	return map[string]interface{}{
		"cid":                 c.ID,
		"text":                c.Text,
		"digg_count":          c.Likes,
		"reply_comment_total": c.ReplyTotal,
		"reply_comment":       inline,
		"user": map[string]interface{}{
			"nickname":  c.Nickname,
			"unique_id": c.Handle,
		},
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Comments builds n comments with IDs prefix1..prefixN
func Comments(prefix string, n int) []Comment {
	out := make([]Comment, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Comment{
			ID:     fmt.Sprintf("%s%d", prefix, i),
			Text:   fmt.Sprintf("comment %s%d", prefix, i),
			Handle: fmt.Sprintf("user_%s%d", prefix, i),
		})
	}
	return out
}
