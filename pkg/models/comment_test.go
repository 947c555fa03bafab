package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentHandle(t *testing.T) {
	tests := []struct {
		name     string
		comment  Comment
		expected string
	}{
		{name: "unique handle wins", comment: Comment{AuthorHandle: "jane_doe", AuthorNickname: "Jane"}, expected: "jane_doe"},
		{name: "nickname fallback", comment: Comment{AuthorNickname: "Jane"}, expected: "Jane"},
		{name: "unknown", comment: Comment{}, expected: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.comment.Handle())
		})
	}
}

func TestCommentIsReply(t *testing.T) {
	assert.False(t, Comment{ID: "1"}.IsReply())
	assert.True(t, Comment{ID: "2", ParentID: "1"}.IsReply())
}
