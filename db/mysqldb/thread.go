package mysqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/upper/db/v4"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type ThreadDB struct {
	sess db.Session
}

func getThreadDB(sess db.Session) *ThreadDB {
	return &ThreadDB{sess}
}

type flattenedThread struct {
	Id                 int64          `db:"id"`
	Title              string         `db:"title"`
	Body               string         `db:"body"`
	CreatorId          string         `db:"created_by"`
	CreatorDisplayName string         `db:"display_name"`
	CreatorRole        model.Role     `db:"created_by_role"`
	ImagesJSONStr      string         `db:"images"`
	TagsJSONStr        sql.NullString `db:"tags"`
	PostIdsJSONStr     sql.NullString `db:"post_ids"`
	VoteTotal          int64          `db:"vote_total"`
	UserVote           sql.NullInt16  `db:"user_vote"`
	Edited             bool           `db:"edited"`
	EditedAt           *time.Time     `db:"edited_at"`
	Deleted            bool           `db:"deleted"`
	DeletedAt          *time.Time     `db:"deleted_at"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

var threadColumns = []interface{}{
	"t.id",
	"t.title",
	"t.body",
	"t.created_by",
	"person.display_name",
	"t.created_by_role",
	"t.images",
	"t.edited",
	"t.edited_at",
	"t.deleted",
	"t.deleted_at",
	"t.created_at",
	"t.updated_at",
	db.Raw("(SELECT JSON_ARRAYAGG(tt.tag) FROM thread_tags AS tt WHERE tt.thread_id = t.id) AS tags"),
	db.Raw("(SELECT JSON_ARRAYAGG(p.id) FROM post AS p WHERE p.thread_id = t.id) AS post_ids"),
	db.Raw("(SELECT COALESCE(SUM(vv.value), 0) FROM vote AS vv WHERE vv.tgt_kind = 'THREAD' AND vv.tgt_id = t.id) AS vote_total"),
	db.Raw("v.value AS user_vote"),
}

func (tdb *ThreadDB) CreateThread(ctx context.Context, req *appDb.CreateThread) (int64, error) {
	imagesJSON, err := marshalImages(req.Images)
	if err != nil {
		return 0, err
	}
	var threadId int64
	err = tdb.sess.TxContext(ctx, func(sess db.Session) error {
		res, err := sess.SQL().
			InsertInto("thread").
			Columns("title", "body", "images", "created_by", "created_by_role").
			Values(req.Title, req.Body, imagesJSON, req.CreatorId, req.CreatorRole).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		threadId, err = res.LastInsertId()
		if err != nil {
			return err
		}

		batchInserter := sess.SQL().
			InsertInto("thread_tags").
			Columns("thread_id", "tag").
			Batch(len(req.Tags))
		for _, tag := range req.Tags {
			batchInserter.Values(threadId, tag)
		}
		batchInserter.Done()
		return batchInserter.Wait()
	}, nil)
	return threadId, err
}

func (tdb *ThreadDB) GetThreadById(ctx context.Context, id int64, opts *appDb.ThreadQueryOpts) (*model.Thread, error) {
	var thread flattenedThread
	if err := tdb.sess.SQL().
		Select(threadColumns...).
		From("thread AS t").
		Join("person").On("t.created_by = person.firebase_id").
		LeftJoin("vote AS v").On("v.tgt_kind = 'THREAD' AND v.tgt_id = t.id AND v.voter_id = ?", opts.VoteHistoryOf).
		Where("t.id = ?", id).
		IteratorContext(ctx).
		One(&thread); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildThreadFromFlattened(&thread)
}

func (tdb *ThreadDB) GetThreads(ctx context.Context, query *appDb.ThreadsListQuery) ([]*model.Thread, error) {
	voteHistoryOf := ""
	if query.ThreadQueryOpts != nil {
		voteHistoryOf = query.VoteHistoryOf
	}
	stmt := tdb.sess.SQL().
		Select(threadColumns...).
		From("thread AS t").
		Join("person").On("t.created_by = person.firebase_id").
		LeftJoin("vote AS v").On("v.tgt_kind = 'THREAD' AND v.tgt_id = t.id AND v.voter_id = ?", voteHistoryOf).
		Where("(? = '' OR LOWER(t.title) LIKE ? OR LOWER(t.body) LIKE ?)",
			query.Search, searchPattern(query.Search), searchPattern(query.Search))

	// role and tag are alternatives; role wins when both are set
	if query.Role != nil {
		stmt = stmt.And("t.created_by_role = ?", *query.Role)
	} else if query.Tag != nil {
		stmt = stmt.And("EXISTS (SELECT 1 FROM thread_tags AS tt WHERE tt.thread_id = t.id AND tt.tag = ?)", *query.Tag)
	}

	switch query.Sort {
	case appDb.SortHot:
		stmt = stmt.OrderBy("vote_total DESC", "t.created_at DESC", "t.id DESC")
	default:
		stmt = stmt.OrderBy("t.created_at DESC", "t.id DESC")
	}

	var flattenedThreads []flattenedThread
	if err := stmt.IteratorContext(ctx).All(&flattenedThreads); err != nil {
		return nil, err
	}
	threads := make([]*model.Thread, len(flattenedThreads))
	for i, flattened := range flattenedThreads {
		thread, err := buildThreadFromFlattened(&flattened)
		if err != nil {
			return nil, err
		}
		threads[i] = thread
	}
	return threads, nil
}

func (tdb *ThreadDB) UpdateThreadBody(ctx context.Context, id int64, title, body string, images []model.Image) error {
	imagesJSON, err := marshalImages(images)
	if err != nil {
		return err
	}
	_, err = tdb.sess.SQL().
		Update("thread").
		Set("title = ?, body = ?, images = ?, edited = TRUE, edited_at = NOW()", title, body, imagesJSON).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

func (tdb *ThreadDB) MarkThreadAsDeleted(ctx context.Context, id int64) error {
	_, err := tdb.sess.SQL().
		Update("thread").
		Set("deleted = TRUE, deleted_at = NOW()").
		Where("id = ? AND deleted = FALSE", id).
		ExecContext(ctx)
	return err
}

func buildThreadFromFlattened(thread *flattenedThread) (*model.Thread, error) {
	var tags []model.Tag
	if thread.TagsJSONStr.Valid {
		if err := json.Unmarshal([]byte(thread.TagsJSONStr.String), &tags); err != nil {
			return nil, err
		}
	}
	postIds := []int64{}
	if thread.PostIdsJSONStr.Valid {
		if err := json.Unmarshal([]byte(thread.PostIdsJSONStr.String), &postIds); err != nil {
			return nil, err
		}
	}
	images, err := unmarshalImages(thread.ImagesJSONStr)
	if err != nil {
		return nil, err
	}

	return &model.Thread{
		ContentMetadata: &model.ContentMetadata{
			Creator: &model.User{
				Id:          thread.CreatorId,
				DisplayName: thread.CreatorDisplayName,
				Role:        thread.CreatorRole,
				Avatar:      util.Avatar(thread.CreatorId),
			},
			UserVote:  buildUserVote(thread.UserVote),
			VoteTotal: thread.VoteTotal,
			Images:    images,
			Edited:    thread.Edited,
			EditedAt:  thread.EditedAt,
			Deleted:   thread.Deleted,
			DeletedAt: thread.DeletedAt,
			CreatedAt: thread.CreatedAt,
			UpdatedAt: thread.UpdatedAt,
		},
		Id:    thread.Id,
		Title: thread.Title,
		Body:  thread.Body,
		Tags:  tags,
		Posts: postIds,
	}, nil
}
