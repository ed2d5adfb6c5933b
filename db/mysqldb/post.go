package mysqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/upper/db/v4"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

type flattenedPost struct {
	Id                 int64         `db:"id"`
	ThreadId           int64         `db:"thread_id"`
	ParentPostId       dao.NullInt64 `db:"parent_post_id"`
	Body               string        `db:"body"`
	CreatorId          string        `db:"created_by"`
	CreatorDisplayName string        `db:"display_name"`
	CreatorRole        model.Role    `db:"created_by_role"`
	ImagesJSONStr      string        `db:"images"`
	VoteTotal          int64         `db:"vote_total"`
	UserVote           sql.NullInt16 `db:"user_vote"`
	Edited             bool          `db:"edited"`
	EditedAt           *time.Time    `db:"edited_at"`
	Deleted            bool          `db:"deleted"`
	DeletedAt          *time.Time    `db:"deleted_at"`
	CreatedAt          time.Time     `db:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at"`
}

var postColumns = []interface{}{
	"p.id",
	"p.thread_id",
	"p.parent_post_id",
	"p.body",
	"p.created_by",
	"person.display_name",
	"p.created_by_role",
	"p.images",
	"p.edited",
	"p.edited_at",
	"p.deleted",
	"p.deleted_at",
	"p.created_at",
	"p.updated_at",
	db.Raw("(SELECT COALESCE(SUM(vv.value), 0) FROM vote AS vv WHERE vv.tgt_kind = 'POST' AND vv.tgt_id = p.id) AS vote_total"),
	db.Raw("v.value AS user_vote"),
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	imagesJSON, err := marshalImages(req.Images)
	if err != nil {
		return 0, err
	}
	res, err := pdb.sess.SQL().
		InsertInto("post").
		Columns("thread_id", "parent_post_id", "body", "images", "created_by", "created_by_role").
		Values(req.ThreadId, req.ParentPostId, req.Body, imagesJSON, req.CreatorId, req.CreatorRole).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (pdb *PostDB) GetPostById(ctx context.Context, id int64, opts *appDb.PostQueryOpts) (*model.Post, error) {
	var post flattenedPost
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("person").On("p.created_by = person.firebase_id").
		LeftJoin("vote AS v").On("v.tgt_kind = 'POST' AND v.tgt_id = p.id AND v.voter_id = ?", opts.VoteHistoryOf).
		Where("p.id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildPostFromFlattened(&post)
}

// GetPostsForThread returns the thread's flat post bag in creation order; the
// reply forest is assembled by app.BuildPostForest.
func (pdb *PostDB) GetPostsForThread(ctx context.Context, threadId int64, opts *appDb.PostQueryOpts) ([]*model.Post, error) {
	var flattenedPosts []flattenedPost
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("person").On("p.created_by = person.firebase_id").
		LeftJoin("vote AS v").On("v.tgt_kind = 'POST' AND v.tgt_id = p.id AND v.voter_id = ?", opts.VoteHistoryOf).
		Where("p.thread_id = ?", threadId).
		OrderBy("p.created_at", "p.id").
		IteratorContext(ctx).
		All(&flattenedPosts); err != nil {
		return nil, err
	}
	posts := make([]*model.Post, len(flattenedPosts))
	for i, flattened := range flattenedPosts {
		post, err := buildPostFromFlattened(&flattened)
		if err != nil {
			return nil, err
		}
		posts[i] = post
	}
	return posts, nil
}

func (pdb *PostDB) UpdatePostBody(ctx context.Context, id int64, body string, images []model.Image) error {
	imagesJSON, err := marshalImages(images)
	if err != nil {
		return err
	}
	_, err = pdb.sess.SQL().
		Update("post").
		Set("body = ?, images = ?, edited = TRUE, edited_at = NOW()", body, imagesJSON).
		Where("id = ?", id).
		ExecContext(ctx)
	return err
}

// MarkPostAsDeleted is a soft delete: the row (and its body, kept for audit)
// stays in place and children are never detached. Deleting twice is a no-op.
func (pdb *PostDB) MarkPostAsDeleted(ctx context.Context, id int64) error {
	_, err := pdb.sess.SQL().
		Update("post").
		Set("deleted = TRUE, deleted_at = NOW()").
		Where("id = ? AND deleted = FALSE", id).
		ExecContext(ctx)
	return err
}

func buildPostFromFlattened(post *flattenedPost) (*model.Post, error) {
	images, err := unmarshalImages(post.ImagesJSONStr)
	if err != nil {
		return nil, err
	}
	return &model.Post{
		ContentMetadata: &model.ContentMetadata{
			Creator: &model.User{
				Id:          post.CreatorId,
				DisplayName: post.CreatorDisplayName,
				Role:        post.CreatorRole,
				Avatar:      util.Avatar(post.CreatorId),
			},
			UserVote:  buildUserVote(post.UserVote),
			VoteTotal: post.VoteTotal,
			Images:    images,
			Edited:    post.Edited,
			EditedAt:  post.EditedAt,
			Deleted:   post.Deleted,
			DeletedAt: post.DeletedAt,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		},
		Id:           post.Id,
		ThreadId:     post.ThreadId,
		ParentPostId: post.ParentPostId,
		Body:         post.Body,
	}, nil
}

func buildUserVote(value sql.NullInt16) *model.Vote {
	if !value.Valid {
		return nil
	}
	return &model.Vote{Value: int8(value.Int16)}
}

func marshalImages(images []model.Image) (string, error) {
	if images == nil {
		images = []model.Image{}
	}
	data, err := json.Marshal(images)
	return string(data), err
}

func unmarshalImages(raw string) ([]model.Image, error) {
	images := []model.Image{}
	if raw == "" {
		return images, nil
	}
	err := json.Unmarshal([]byte(raw), &images)
	return images, err
}

func searchPattern(query string) string {
	return "%" + strings.ToLower(query) + "%"
}
