package model

import (
	"time"

	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
)

// Notification tells a user about a new reply or vote referencing their content.
// PostId is null when the notification targets a thread directly.
type Notification struct {
	Id          int64         `json:"id"`
	RecipientId string        `json:"-"`
	Message     string        `json:"message"`
	ThreadId    int64         `json:"threadId"`
	PostId      dao.NullInt64 `json:"postId"`
	Read        bool          `json:"read"`
	CreatedAt   time.Time     `json:"createdAt"`
}
