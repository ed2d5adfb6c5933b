package model

import (
	"time"

	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
)

// Tag is a thread topic drawn from a fixed vocabulary.
type Tag string

const (
	TagMaths     Tag = "Maths"
	TagScience   Tag = "Science"
	TagEnglish   Tag = "English"
	TagHistory   Tag = "History"
	TagGeography Tag = "Geography"
	TagComputing Tag = "Computing"
	TagArts      Tag = "Arts"
	TagSports    Tag = "Sports"
	TagExams     Tag = "Exams"
	TagHomework  Tag = "Homework"
	TagGeneral   Tag = "General"
)

var AllTags = []Tag{
	TagMaths, TagScience, TagEnglish, TagHistory, TagGeography,
	TagComputing, TagArts, TagSports, TagExams, TagHomework, TagGeneral,
}

func IsValidTag(raw string) bool {
	for _, tag := range AllTags {
		if Tag(raw) == tag {
			return true
		}
	}
	return false
}

// Image is an attachment reference. Url is either a public URL or a blob name
// in the uploads bucket.
type Image struct {
	Url         string `json:"url"`
	ContentType string `json:"contentType"`
}

// Vote is a single ledger record's value as seen by the requesting user.
type Vote struct {
	Value int8 `json:"value"`
}

// ContentMetadata is the audit/vote state shared by threads and posts. VoteTotal
// is always derived from the vote ledger at query time, never stored.
type ContentMetadata struct {
	Creator   *User      `json:"creator"`
	UserVote  *Vote      `json:"userVote"`
	VoteTotal int64      `json:"voteTotal"`
	Images    []Image    `json:"images"`
	Edited    bool       `json:"edited"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (cm *ContentMetadata) CanMutate(user *User) bool {
	return user != nil && cm.Creator != nil && user.Id == cm.Creator.Id
}

// hide blanks the attachments once the content is soft-deleted.
func (cm *ContentMetadata) hide() {
	cm.Images = []Image{}
}

type Thread struct {
	*ContentMetadata
	Id    int64   `json:"id"`
	Title string  `json:"title"`
	Body  string  `json:"body"`
	Tags  []Tag   `json:"tags"`
	Posts []int64 `json:"posts"`
}

// MakeDisplayable mutates the thread into its rendered form: once deleted, the
// body and images are replaced by a placeholder while the thread itself (and
// its posts) stays reachable.
func (t *Thread) MakeDisplayable() *Thread {
	if t.Deleted {
		t.Title = ""
		t.Body = ""
		t.hide()
	}
	return t
}

type Post struct {
	*ContentMetadata
	Id           int64         `json:"id"`
	ThreadId     int64         `json:"threadId"`
	ParentPostId dao.NullInt64 `json:"parentPostId"`
	Body         string        `json:"body"`
}

// MakeDisplayable mutates the post into its rendered form. A deleted post keeps
// its slot in the reply tree as a placeholder; children are never detached.
func (p *Post) MakeDisplayable() *Post {
	if p.Deleted {
		p.Body = ""
		p.hide()
	}
	return p
}

// PostTree is a post with its direct replies resolved.
type PostTree struct {
	*Post
	Replies []*PostTree `json:"replies"`
}

func (pt *PostTree) MakeDisplayable() *PostTree {
	pt.Post.MakeDisplayable()
	for _, child := range pt.Replies {
		child.MakeDisplayable()
	}
	return pt
}

type Report struct {
	Id        int64     `json:"id"`
	TgtKind   string    `json:"tgtKind"` // THREAD or POST
	TgtId     int64     `json:"tgtId"`
	Creator   *User     `json:"creator"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}
