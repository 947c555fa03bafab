package models

// Comment is one top-level comment or reply on a video.
// ParentID is empty for top-level comments and holds the parent's ID for replies.
type Comment struct {
	ID             string `json:"cid"`
	Text           string `json:"text"`
	AuthorNickname string `json:"author_nickname"`
	AuthorHandle   string `json:"author_unique_id"`
	Likes          int    `json:"likes"`
	ReplyCount     int    `json:"reply_count"`
	ParentID       string `json:"parent_cid,omitempty"`
}

// IsReply reports whether the comment belongs to a parent comment
func (c Comment) IsReply() bool {
	return c.ParentID != ""
}

// Handle returns the name shown in the comment log: the unique handle,
// then the nickname, then "Unknown"
func (c Comment) Handle() string {
	if c.AuthorHandle != "" {
		return c.AuthorHandle
	}
	if c.AuthorNickname != "" {
		return c.AuthorNickname
	}
	return "Unknown"
}
