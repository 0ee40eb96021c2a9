package dto

import "time"

const (
	PostEventCreated   = "post.created"
	PostEventUpdated   = "post.updated"
	PostEventDeleted   = "post.deleted"
	PostEventPublished = "post.published"
)

// PostEvent 帖子生命周期事件，提交成功后发送
type PostEvent struct {
	Type        string    `json:"type"`
	PostID      string    `json:"post_id"`
	MediaType   string    `json:"media_type"`
	IsPublished bool      `json:"is_published"`
	At          time.Time `json:"at"`
}
