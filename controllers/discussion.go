package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chetan123445/VK-WebPortal-sub002/app"
	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/services"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

// Notifier is the channel used to inform users of new replies and votes
// referencing their content.
type Notifier interface {
	Notify(ctx context.Context, req *appDb.CreateNotification)
}

type DiscussionController struct {
	db       appDb.Database
	notifier Notifier
	// bucket verifies attachment blob names; nil skips verification
	bucket *services.StorageBucket
}

func NewDiscussionController(db appDb.Database, notifier Notifier, bucket *services.StorageBucket) *DiscussionController {
	return &DiscussionController{db: db, notifier: notifier, bucket: bucket}
}

type CreateThreadReq struct {
	Title  string        `json:"title" validate:"required,max=100"`
	Body   string        `json:"body" validate:"required,max=2000"`
	Tags   []model.Tag   `json:"tags" validate:"required,min=1,dive,topictag"`
	Images []model.Image `json:"images"`
}

type CreatePostReq struct {
	Body       string        `json:"body" validate:"required,max=2000"`
	ParentPost *int64        `json:"parentPost"`
	Images     []model.Image `json:"images"`
}

type EditThreadReq struct {
	Title  string        `json:"title" validate:"required,max=100"`
	Body   string        `json:"body" validate:"required,max=2000"`
	Images []model.Image `json:"images"`
}

type EditPostReq struct {
	Body   string        `json:"body" validate:"required,max=2000"`
	Images []model.Image `json:"images"`
}

type VoteReq struct {
	Value int8 `json:"value" validate:"required,oneof=1 -1"`
}

type ListThreadsQuery struct {
	Search string
	Tag    *model.Tag
	Role   *model.Role
	Sort   appDb.ThreadSort
}

// ThreadWithPosts is a thread with its reply forest resolved for rendering.
type ThreadWithPosts struct {
	*model.Thread
	PostTree []*model.PostTree `json:"postTree"`
}

var (
	threadNotFoundErr = util.BuildNotFoundHTTPErr("thread")
	postNotFoundErr   = util.BuildNotFoundHTTPErr("post")
	deletedConflictErr = &util.HTTPError{
		Status:  http.StatusConflict,
		Message: "content has been deleted",
	}
)

func (dc *DiscussionController) CreateThread(ctx context.Context, user *model.User, req *CreateThreadReq) (*model.Thread, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := dc.verifyImages(ctx, req.Images); httpErr != nil {
		return nil, httpErr
	}
	id, err := dc.db.CreateThread(ctx, &appDb.CreateThread{
		CreatorId:   user.Id,
		CreatorRole: user.Role,
		Title:       util.SanitizeTitle(req.Title),
		Body:        util.SanitizeBody(req.Body),
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	thread, err := dc.db.GetThreadById(ctx, id, &appDb.ThreadQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return thread, nil
}

func (dc *DiscussionController) GetThreadWithPosts(ctx context.Context, viewer *model.User, id int64) (*ThreadWithPosts, *util.HTTPError) {
	voteHistoryOf := ""
	if viewer != nil {
		voteHistoryOf = viewer.Id
	}
	thread, err := dc.db.GetThreadById(ctx, id, &appDb.ThreadQueryOpts{VoteHistoryOf: voteHistoryOf})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if thread == nil {
		return nil, threadNotFoundErr
	}
	posts, err := dc.db.GetPostsForThread(ctx, id, &appDb.PostQueryOpts{VoteHistoryOf: voteHistoryOf})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	forest := app.BuildPostForest(posts, &app.ForestOpts{SortByScore: true})
	for _, node := range forest {
		node.MakeDisplayable()
	}
	return &ThreadWithPosts{
		Thread:   thread.MakeDisplayable(),
		PostTree: forest,
	}, nil
}

func (dc *DiscussionController) ListThreads(ctx context.Context, viewer *model.User, query *ListThreadsQuery) ([]*model.Thread, *util.HTTPError) {
	voteHistoryOf := ""
	if viewer != nil {
		voteHistoryOf = viewer.Id
	}
	threads, err := dc.db.GetThreads(ctx, &appDb.ThreadsListQuery{
		Search:          query.Search,
		Tag:             query.Tag,
		Role:            query.Role,
		Sort:            query.Sort,
		ThreadQueryOpts: &appDb.ThreadQueryOpts{VoteHistoryOf: voteHistoryOf},
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	for _, thread := range threads {
		thread.MakeDisplayable()
	}
	return threads, nil
}

func (dc *DiscussionController) EditThread(ctx context.Context, user *model.User, id int64, req *EditThreadReq) (*model.Thread, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return nil, httpErr
	}
	thread, err := dc.db.GetThreadById(ctx, id, &appDb.ThreadQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if thread == nil {
		return nil, threadNotFoundErr
	}
	if !thread.CanMutate(user) {
		return nil, &util.NotAuthorHTTPErr
	}
	if thread.Deleted {
		return nil, deletedConflictErr
	}
	if httpErr := dc.verifyImages(ctx, req.Images); httpErr != nil {
		return nil, httpErr
	}
	if err := dc.db.UpdateThreadBody(ctx, id, util.SanitizeTitle(req.Title), util.SanitizeBody(req.Body), req.Images); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	thread, err = dc.db.GetThreadById(ctx, id, &appDb.ThreadQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return thread, nil
}

// DeleteThread soft-deletes: the thread stays in storage and its posts remain
// reachable. Deleting twice is a no-op.
func (dc *DiscussionController) DeleteThread(ctx context.Context, user *model.User, id int64) *util.HTTPError {
	if httpErr := requireUser(user); httpErr != nil {
		return httpErr
	}
	thread, err := dc.db.GetThreadById(ctx, id, &appDb.ThreadQueryOpts{})
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	if thread == nil {
		return threadNotFoundErr
	}
	if !thread.CanMutate(user) {
		return &util.NotAuthorHTTPErr
	}
	if err := dc.db.MarkThreadAsDeleted(ctx, id); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	return nil
}

func (dc *DiscussionController) AddPost(ctx context.Context, user *model.User, threadId int64, req *CreatePostReq) (*model.Post, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return nil, httpErr
	}
	thread, err := dc.db.GetThreadById(ctx, threadId, &appDb.ThreadQueryOpts{})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if thread == nil {
		return nil, threadNotFoundErr
	}

	var parentPostId dao.NullInt64
	var parent *model.Post
	if req.ParentPost != nil {
		parent, err = dc.db.GetPostById(ctx, *req.ParentPost, &appDb.PostQueryOpts{})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		// no cross-thread parenting
		if parent == nil || parent.ThreadId != threadId {
			return nil, util.BuildNotFoundHTTPErr("parent post")
		}
		parentPostId = dao.NewNullInt64(parent.Id)
	}
	if httpErr := dc.verifyImages(ctx, req.Images); httpErr != nil {
		return nil, httpErr
	}

	id, err := dc.db.CreatePost(ctx, &appDb.CreatePost{
		ThreadId:     threadId,
		ParentPostId: parentPostId,
		CreatorId:    user.Id,
		CreatorRole:  user.Role,
		Body:         util.SanitizeBody(req.Body),
		Images:       req.Images,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	post, err := dc.db.GetPostById(ctx, id, &appDb.PostQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}

	dc.notifyReply(ctx, user, thread, parent, id)
	return post, nil
}

func (dc *DiscussionController) EditPost(ctx context.Context, user *model.User, threadId, postId int64, req *EditPostReq) (*model.Post, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return nil, httpErr
	}
	post, httpErr := dc.getPostInThread(ctx, threadId, postId, user.Id)
	if httpErr != nil {
		return nil, httpErr
	}
	if !post.CanMutate(user) {
		return nil, &util.NotAuthorHTTPErr
	}
	if post.Deleted {
		return nil, deletedConflictErr
	}
	if httpErr := dc.verifyImages(ctx, req.Images); httpErr != nil {
		return nil, httpErr
	}
	if err := dc.db.UpdatePostBody(ctx, postId, util.SanitizeBody(req.Body), req.Images); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	post, err := dc.db.GetPostById(ctx, postId, &appDb.PostQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return post, nil
}

// DeletePost soft-deletes: children stay attached and render under a deleted
// placeholder. Deleting twice is a no-op.
func (dc *DiscussionController) DeletePost(ctx context.Context, user *model.User, threadId, postId int64) *util.HTTPError {
	if httpErr := requireUser(user); httpErr != nil {
		return httpErr
	}
	post, httpErr := dc.getPostInThread(ctx, threadId, postId, user.Id)
	if httpErr != nil {
		return httpErr
	}
	if !post.CanMutate(user) {
		return &util.NotAuthorHTTPErr
	}
	if err := dc.db.MarkPostAsDeleted(ctx, postId); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	return nil
}

func (dc *DiscussionController) VoteThread(ctx context.Context, user *model.User, threadId int64, req *VoteReq) (*model.Thread, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return nil, httpErr
	}
	thread, err := dc.db.GetThreadById(ctx, threadId, &appDb.ThreadQueryOpts{})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if thread == nil {
		return nil, threadNotFoundErr
	}
	tgt := appDb.VoteTarget{Kind: appDb.TgtThread, Id: threadId}
	if err := dc.db.Vote(ctx, user.Id, user.Role, tgt, req.Value); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	dc.notifyVote(ctx, user, thread.Creator, thread.Id, nil)

	thread, err = dc.db.GetThreadById(ctx, threadId, &appDb.ThreadQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return thread.MakeDisplayable(), nil
}

func (dc *DiscussionController) VotePost(ctx context.Context, user *model.User, threadId, postId int64, req *VoteReq) (*model.Post, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return nil, httpErr
	}
	post, httpErr := dc.getPostInThread(ctx, threadId, postId, "")
	if httpErr != nil {
		return nil, httpErr
	}
	tgt := appDb.VoteTarget{Kind: appDb.TgtPost, Id: postId}
	if err := dc.db.Vote(ctx, user.Id, user.Role, tgt, req.Value); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	dc.notifyVote(ctx, user, post.Creator, post.ThreadId, &postId)

	post, err := dc.db.GetPostById(ctx, postId, &appDb.PostQueryOpts{VoteHistoryOf: user.Id})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return post.MakeDisplayable(), nil
}

func (dc *DiscussionController) getPostInThread(ctx context.Context, threadId, postId int64, voteHistoryOf string) (*model.Post, *util.HTTPError) {
	post, err := dc.db.GetPostById(ctx, postId, &appDb.PostQueryOpts{VoteHistoryOf: voteHistoryOf})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil || post.ThreadId != threadId {
		return nil, postNotFoundErr
	}
	return post, nil
}

func (dc *DiscussionController) notifyReply(ctx context.Context, actor *model.User, thread *model.Thread, parent *model.Post, newPostId int64) {
	if dc.notifier == nil {
		return
	}
	recipient := thread.Creator.Id
	message := fmt.Sprintf("%s replied to your thread %q", actor.DisplayName, thread.Title)
	if parent != nil {
		recipient = parent.Creator.Id
		message = fmt.Sprintf("%s replied to your post", actor.DisplayName)
	}
	if recipient == actor.Id {
		return
	}
	dc.notifier.Notify(ctx, &appDb.CreateNotification{
		RecipientId: recipient,
		Message:     message,
		ThreadId:    thread.Id,
		PostId:      dao.NewNullInt64(newPostId),
	})
}

func (dc *DiscussionController) notifyVote(ctx context.Context, actor *model.User, creator *model.User, threadId int64, postId *int64) {
	if dc.notifier == nil || creator == nil || creator.Id == actor.Id {
		return
	}
	what := "thread"
	var notifPostId dao.NullInt64
	if postId != nil {
		what = "post"
		notifPostId = dao.NewNullInt64(*postId)
	}
	dc.notifier.Notify(ctx, &appDb.CreateNotification{
		RecipientId: creator.Id,
		Message:     fmt.Sprintf("%s voted on your %s", actor.DisplayName, what),
		ThreadId:    threadId,
		PostId:      notifPostId,
	})
}

func (dc *DiscussionController) verifyImages(ctx context.Context, images []model.Image) *util.HTTPError {
	if dc.bucket == nil {
		return nil
	}
	for _, image := range images {
		exists, err := dc.bucket.ExistsOrExternal(ctx, image.Url)
		if err != nil {
			return util.BuildDbHTTPErr(err)
		}
		if !exists {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("unknown attachment %q", image.Url),
			}
		}
	}
	return nil
}

func requireUser(user *model.User) *util.HTTPError {
	if user == nil || user.Id == "" {
		return &util.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "must be signed in",
		}
	}
	if _, err := model.ParseRole(string(user.Role)); err != nil {
		return &util.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "must have a valid role",
		}
	}
	return nil
}
