package db

import (
	"context"

	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

type Database interface {
	ThreadDatabase
	PostDatabase
	VoteDatabase
	NotificationDatabase
	ReportDatabase
	UserDatabase
	Close() error
}

// TgtKind identifies which vote ledger a vote or report targets.
type TgtKind string

const (
	TgtThread TgtKind = "THREAD"
	TgtPost   TgtKind = "POST"
)

type VoteTarget struct {
	Kind TgtKind
	Id   int64
}

type CreateThread struct {
	CreatorId   string
	CreatorRole model.Role
	Title       string
	Body        string
	Tags        []model.Tag
	Images      []model.Image
}

type CreatePost struct {
	ThreadId     int64
	ParentPostId dao.NullInt64
	CreatorId    string
	CreatorRole  model.Role
	Body         string
	Images       []model.Image
}

type CreateNotification struct {
	RecipientId string
	Message     string
	ThreadId    int64
	PostId      dao.NullInt64
}

type CreateReport struct {
	Tgt    VoteTarget
	Reason string
}

type ThreadSort string

const (
	SortLatest ThreadSort = "latest" // by creation time, newest first
	SortHot    ThreadSort = "hot"    // by derived vote score, highest first
)

// ThreadQueryOpts carries per-request read options. VoteHistoryOf resolves
// UserVote for that identity; empty means no vote history is attached.
type ThreadQueryOpts struct {
	VoteHistoryOf string
}

// ThreadsListQuery filters the thread bag. Search is a case-insensitive
// substring match over title and body. Role and Tag are mutually exclusive
// alternatives; the db layer applies whichever is set (Role wins if both are).
type ThreadsListQuery struct {
	Search string
	Tag    *model.Tag
	Role   *model.Role
	Sort   ThreadSort
	*ThreadQueryOpts
}

type PostQueryOpts struct {
	VoteHistoryOf string
}

// ThreadDatabase and PostDatabase return (nil, nil) when the entity does not
// exist; callers translate that into a not-found error.
type ThreadDatabase interface {
	CreateThread(ctx context.Context, req *CreateThread) (threadId int64, err error)
	GetThreadById(ctx context.Context, id int64, opts *ThreadQueryOpts) (*model.Thread, error)
	GetThreads(ctx context.Context, query *ThreadsListQuery) ([]*model.Thread, error)
	UpdateThreadBody(ctx context.Context, id int64, title, body string, images []model.Image) error
	MarkThreadAsDeleted(ctx context.Context, id int64) error
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64, opts *PostQueryOpts) (*model.Post, error)
	GetPostsForThread(ctx context.Context, threadId int64, opts *PostQueryOpts) ([]*model.Post, error)
	UpdatePostBody(ctx context.Context, id int64, body string, images []model.Image) error
	MarkPostAsDeleted(ctx context.Context, id int64) error
}

// VoteDatabase owns the vote ledger. Vote applies the one-record-per-identity
// rule: a revote with the same value removes the record (toggle-off), a revote
// with the opposite value replaces it. The aggregate score is derived at query
// time from the ledger, never stored.
type VoteDatabase interface {
	Vote(ctx context.Context, voterId string, voterRole model.Role, tgt VoteTarget, value int8) error
	UserVote(ctx context.Context, voterId string, voterRole model.Role, tgt VoteTarget) (int8, error)
	Score(ctx context.Context, tgt VoteTarget) (int64, error)
}

type NotificationDatabase interface {
	CreateNotification(ctx context.Context, req *CreateNotification) (notificationId int64, err error)
	GetNotificationsForUser(ctx context.Context, userId string) ([]*model.Notification, error)
	MarkNotificationsRead(ctx context.Context, userId string, ids []int64) error
}

type ReportDatabase interface {
	CreateReport(ctx context.Context, creatorId string, req *CreateReport) (reportId int64, err error)
	GetReports(ctx context.Context) ([]*model.Report, error)
}

type UserDatabase interface {
	CreateUser(context.Context, *model.User) error
	GetUser(context.Context, string) (*model.User, error)
}
