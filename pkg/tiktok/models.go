package tiktok

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/NetNinja-stack/android-tools/pkg/models"
)

// CommentListResponse is the body of both the comment and the reply list endpoints
type CommentListResponse struct {
	StatusCode int          `json:"status_code"`
	Comments   []APIComment `json:"comments"`
	Cursor     FlexString   `json:"cursor"`
	HasMore    FlexBool     `json:"has_more"`
	Total      int          `json:"total"`
}

// APIComment is one comment as the web API returns it
type APIComment struct {
	CID               FlexString   `json:"cid"`
	Text              string       `json:"text"`
	DiggCount         int          `json:"digg_count"`
	ReplyCommentTotal int          `json:"reply_comment_total"`
	ReplyComment      []APIComment `json:"reply_comment"`
	User              APIUser      `json:"user"`
}

// APIUser is the comment author
type APIUser struct {
	Nickname string `json:"nickname"`
	UniqueID string `json:"unique_id"`
}

// ToModel converts the API shape into a Comment; parentID is empty for top-level comments
func (c APIComment) ToModel(parentID string) models.Comment {
	return models.Comment{
		ID:             c.CID.String(),
		Text:           c.Text,
		AuthorNickname: c.User.Nickname,
		AuthorHandle:   c.User.UniqueID,
		Likes:          c.DiggCount,
		ReplyCount:     c.ReplyCommentTotal,
		ParentID:       parentID,
	}
}

// NeedsReplyFetch reports whether the server declared more replies than it inlined
func (c APIComment) NeedsReplyFetch() bool {
	return c.ReplyCommentTotal > len(c.ReplyComment)
}

// FlexString accepts a JSON string or number; ids and cursors arrive as either
type FlexString string

func (s FlexString) String() string { return string(s) }

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(n.String())
	return nil
}

// FlexBool accepts true/false, 0/1 and their string forms
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(raw) {
	case "", "null", "false", "0":
		*b = false
		return nil
	case "true":
		*b = true
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected boolean, got %s", data)
	}
	*b = n != 0
	return nil
}
