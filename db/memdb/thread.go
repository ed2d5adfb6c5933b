package memdb

import (
	"context"
	"sort"
	"strings"
	"time"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

func (mdb *DB) CreateThread(ctx context.Context, req *appDb.CreateThread) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	mdb.threadSeq++
	now := time.Now().UTC()
	tags := make([]model.Tag, len(req.Tags))
	copy(tags, req.Tags)
	mdb.threads[mdb.threadSeq] = &threadRow{
		id:          mdb.threadSeq,
		title:       req.Title,
		body:        req.Body,
		tags:        tags,
		images:      copyImages(req.Images),
		createdBy:   req.CreatorId,
		createdRole: req.CreatorRole,
		createdAt:   now,
		updatedAt:   now,
	}
	return mdb.threadSeq, nil
}

func (mdb *DB) GetThreadById(ctx context.Context, id int64, opts *appDb.ThreadQueryOpts) (*model.Thread, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	row, ok := mdb.threads[id]
	if !ok {
		return nil, nil
	}
	return mdb.buildThread(row, opts.VoteHistoryOf), nil
}

func (mdb *DB) GetThreads(ctx context.Context, query *appDb.ThreadsListQuery) ([]*model.Thread, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	voteHistoryOf := ""
	if query.ThreadQueryOpts != nil {
		voteHistoryOf = query.VoteHistoryOf
	}

	rows := make([]*threadRow, 0, len(mdb.threads))
	for _, row := range mdb.threads {
		if !matchesSearch(row, query.Search) {
			continue
		}
		// role and tag are alternatives; role wins when both are set
		if query.Role != nil {
			if row.createdRole != *query.Role {
				continue
			}
		} else if query.Tag != nil && !hasTag(row, *query.Tag) {
			continue
		}
		rows = append(rows, row)
	}

	threads := make([]*model.Thread, len(rows))
	for i, row := range rows {
		threads[i] = mdb.buildThread(row, voteHistoryOf)
	}
	switch query.Sort {
	case appDb.SortHot:
		sort.SliceStable(threads, func(i, j int) bool {
			if threads[i].VoteTotal != threads[j].VoteTotal {
				return threads[i].VoteTotal > threads[j].VoteTotal
			}
			return threads[i].Id > threads[j].Id
		})
	default:
		sort.SliceStable(threads, func(i, j int) bool {
			if !threads[i].CreatedAt.Equal(threads[j].CreatedAt) {
				return threads[i].CreatedAt.After(threads[j].CreatedAt)
			}
			return threads[i].Id > threads[j].Id
		})
	}
	return threads, nil
}

func (mdb *DB) UpdateThreadBody(ctx context.Context, id int64, title, body string, images []model.Image) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	row, ok := mdb.threads[id]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	row.title = title
	row.body = body
	row.images = copyImages(images)
	row.edited = true
	row.editedAt = &now
	row.updatedAt = now
	return nil
}

func (mdb *DB) MarkThreadAsDeleted(ctx context.Context, id int64) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	row, ok := mdb.threads[id]
	if !ok || row.deleted {
		return nil
	}
	now := time.Now().UTC()
	row.deleted = true
	row.deletedAt = &now
	row.updatedAt = now
	return nil
}

func (mdb *DB) buildThread(row *threadRow, voteHistoryOf string) *model.Thread {
	tgt := appDb.VoteTarget{Kind: appDb.TgtThread, Id: row.id}
	postIds := []int64{}
	for _, post := range mdb.posts {
		if post.threadId == row.id {
			postIds = append(postIds, post.id)
		}
	}
	sort.Slice(postIds, func(i, j int) bool { return postIds[i] < postIds[j] })

	tags := make([]model.Tag, len(row.tags))
	copy(tags, row.tags)

	var userVote *model.Vote
	if voteHistoryOf != "" {
		userVote = mdb.userVote(tgt, voteHistoryOf)
	}
	return &model.Thread{
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
		Id:    row.id,
		Title: row.title,
		Body:  row.body,
		Tags:  tags,
		Posts: postIds,
	}
}

func matchesSearch(row *threadRow, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(row.title), q) ||
		strings.Contains(strings.ToLower(row.body), q)
}

func hasTag(row *threadRow, tag model.Tag) bool {
	for _, t := range row.tags {
		if t == tag {
			return true
		}
	}
	return false
}
