package tiktok

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentListResponseDecoding(t *testing.T) {
	body := `{
		"status_code": 0,
		"cursor": 40,
		"has_more": 1,
		"total": 2,
		"comments": [
			{"cid": "7001", "text": "first\nline", "digg_count": 12, "reply_comment_total": 3,
			 "reply_comment": [{"cid": 7002, "text": "inline", "user": {"nickname": "Bob", "unique_id": "bob"}}],
			 "user": {"nickname": "Alice", "unique_id": "alice"}},
			{"cid": 7003, "text": "second", "reply_comment": null, "user": {"nickname": "Carol"}}
		]
	}`

	var resp CommentListResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, "40", resp.Cursor.String())
	assert.True(t, bool(resp.HasMore))
	require.Len(t, resp.Comments, 2)

	first := resp.Comments[0]
	assert.Equal(t, "7001", first.CID.String())
	assert.True(t, first.NeedsReplyFetch())
	assert.Equal(t, "7002", first.ReplyComment[0].CID.String())

	model := first.ToModel("")
	assert.Equal(t, "7001", model.ID)
	assert.Equal(t, "alice", model.AuthorHandle)
	assert.Equal(t, "Alice", model.AuthorNickname)
	assert.Equal(t, 12, model.Likes)
	assert.Equal(t, 3, model.ReplyCount)
	assert.False(t, model.IsReply())

	second := resp.Comments[1]
	assert.Equal(t, "7003", second.CID.String())
	assert.False(t, second.NeedsReplyFetch())
	assert.Equal(t, "7001", second.ToModel("7001").ParentID)
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		raw      string
		expected bool
		wantErr  bool
	}{
		{raw: `true`, expected: true},
		{raw: `false`},
		{raw: `1`, expected: true},
		{raw: `0`},
		{raw: `"1"`, expected: true},
		{raw: `null`},
		{raw: `"maybe"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var b FlexBool
			err := json.Unmarshal([]byte(tt.raw), &b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bool(b))
		})
	}
}

func TestFlexString(t *testing.T) {
	var s FlexString
	require.NoError(t, json.Unmarshal([]byte(`7222222222222222222`), &s))
	assert.Equal(t, "7222222222222222222", s.String())

	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &s))
	assert.Equal(t, "abc", s.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Empty(t, s.String())

	assert.Error(t, json.Unmarshal([]byte(`{}`), &s))
}
