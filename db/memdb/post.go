package memdb

import (
	"context"
	"sort"
	"time"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

func (mdb *DB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	mdb.postSeq++
	now := time.Now().UTC()
	mdb.posts[mdb.postSeq] = &postRow{
		id:           mdb.postSeq,
		threadId:     req.ThreadId,
		parentPostId: req.ParentPostId,
		body:         req.Body,
		images:       copyImages(req.Images),
		createdBy:    req.CreatorId,
		createdRole:  req.CreatorRole,
		createdAt:    now,
		updatedAt:    now,
	}
	return mdb.postSeq, nil
}

func (mdb *DB) GetPostById(ctx context.Context, id int64, opts *appDb.PostQueryOpts) (*model.Post, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	row, ok := mdb.posts[id]
	if !ok {
		return nil, nil
	}
	return mdb.buildPost(row, opts.VoteHistoryOf), nil
}

func (mdb *DB) GetPostsForThread(ctx context.Context, threadId int64, opts *appDb.PostQueryOpts) ([]*model.Post, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	rows := make([]*postRow, 0)
	for _, row := range mdb.posts {
		if row.threadId == threadId {
			rows = append(rows, row)
		}
	}
	// creation order; ids are assigned monotonically
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })

	posts := make([]*model.Post, len(rows))
	for i, row := range rows {
		posts[i] = mdb.buildPost(row, opts.VoteHistoryOf)
	}
	return posts, nil
}

func (mdb *DB) UpdatePostBody(ctx context.Context, id int64, body string, images []model.Image) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	row, ok := mdb.posts[id]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	row.body = body
	row.images = copyImages(images)
	row.edited = true
	row.editedAt = &now
	row.updatedAt = now
	return nil
}

func (mdb *DB) MarkPostAsDeleted(ctx context.Context, id int64) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	row, ok := mdb.posts[id]
	if !ok || row.deleted {
		return nil
	}
	now := time.Now().UTC()
	row.deleted = true
	row.deletedAt = &now
	row.updatedAt = now
	return nil
}

func (mdb *DB) buildPost(row *postRow, voteHistoryOf string) *model.Post {
	tgt := appDb.VoteTarget{Kind: appDb.TgtPost, Id: row.id}
	var userVote *model.Vote
	if voteHistoryOf != "" {
		userVote = mdb.userVote(tgt, voteHistoryOf)
	}
	return &model.Post{
		ContentMetadata: &model.ContentMetadata{
			Creator:   mdb.creator(row.createdBy, row.createdRole),
			UserVote:  userVote,
			VoteTotal: mdb.score(tgt),
			Images:    copyImages(row.images),
			Edited:    row.edited,
			EditedAt:  row.editedAt,
			Deleted:   row.deleted,
			DeletedAt: row.deletedAt,
			CreatedAt: row.createdAt,
			UpdatedAt: row.updatedAt,
		},
		Id:           row.id,
		ThreadId:     row.threadId,
		ParentPostId: row.parentPostId,
		Body:         row.body,
	}
}
