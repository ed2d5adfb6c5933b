package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/db/memdb"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

var (
	studentA = &model.User{Id: "student-a", DisplayName: "Asha", Role: model.RoleStudent}
	studentB = &model.User{Id: "student-b", DisplayName: "Ben", Role: model.RoleStudent}
	teacherC = &model.User{Id: "teacher-c", DisplayName: "Ms Clarke", Role: model.RoleTeacher}
	studentD = &model.User{Id: "student-d", DisplayName: "Dev", Role: model.RoleStudent}
)

func setup(t *testing.T) (*DiscussionController, *NotificationController, *memdb.DB) {
	database, err := memdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	ctx := context.Background()
	for _, user := range []*model.User{studentA, studentB, teacherC, studentD} {
		if err := database.CreateUser(ctx, user); err != nil {
			t.Fatalf("setup() failed: %v", err)
		}
	}
	notifier := NewNotificationController(database)
	return NewDiscussionController(database, notifier, nil), notifier, database
}

func createThread(t *testing.T, dc *DiscussionController, author *model.User, title string, tags ...model.Tag) *model.Thread {
	if len(tags) == 0 {
		tags = []model.Tag{model.TagGeneral}
	}
	thread, httpErr := dc.CreateThread(context.Background(), author, &CreateThreadReq{
		Title: title,
		Body:  "body of " + title,
		Tags:  tags,
	})
	if httpErr != nil {
		t.Fatalf("createThread() failed: %v", httpErr)
	}
	return thread
}

func addPost(t *testing.T, dc *DiscussionController, author *model.User, threadId int64, parent *int64, body string) *model.Post {
	post, httpErr := dc.AddPost(context.Background(), author, threadId, &CreatePostReq{
		Body:       body,
		ParentPost: parent,
	})
	if httpErr != nil {
		t.Fatalf("addPost() failed: %v", httpErr)
	}
	return post
}

func TestCreateThread(t *testing.T) {
	dc, _, _ := setup(t)
	ctx := context.Background()

	thread := createThread(t, dc, studentA, "Help with derivatives", model.TagMaths)
	assert.Equal(t, "Help with derivatives", thread.Title)
	assert.Equal(t, []model.Tag{model.TagMaths}, thread.Tags)
	assert.Equal(t, studentA.Id, thread.Creator.Id)
	assert.Equal(t, model.RoleStudent, thread.Creator.Role)
	assert.Empty(t, thread.Posts)
	assert.EqualValues(t, 0, thread.VoteTotal)
	assert.Nil(t, thread.UserVote)
	assert.False(t, thread.Edited)
	assert.False(t, thread.Deleted)

	tests := []struct {
		name string
		req  CreateThreadReq
	}{
		{name: "empty title", req: CreateThreadReq{Body: "b", Tags: []model.Tag{model.TagMaths}}},
		{name: "title too long", req: CreateThreadReq{Title: string(make([]byte, 101)), Body: "b", Tags: []model.Tag{model.TagMaths}}},
		{name: "empty body", req: CreateThreadReq{Title: "t", Tags: []model.Tag{model.TagMaths}}},
		{name: "no tags", req: CreateThreadReq{Title: "t", Body: "b"}},
		{name: "unknown tag", req: CreateThreadReq{Title: "t", Body: "b", Tags: []model.Tag{"Astrology"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, httpErr := dc.CreateThread(ctx, studentA, &tt.req)
			if assert.NotNil(t, httpErr) {
				assert.Equal(t, 400, httpErr.Status)
				assert.NotEmpty(t, httpErr.Fields)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		_, httpErr := dc.CreateThread(ctx, nil, &CreateThreadReq{Title: "t", Body: "b", Tags: []model.Tag{model.TagMaths}})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 401, httpErr.Status)
		}
	})
}

func TestVoteThreadToggle(t *testing.T) {
	dc, _, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Vote on me")

	// first +1 registers
	updated, httpErr := dc.VoteThread(ctx, studentB, thread.Id, &VoteReq{Value: 1})
	assert.Nil(t, httpErr)
	assert.EqualValues(t, 1, updated.VoteTotal)
	if assert.NotNil(t, updated.UserVote) {
		assert.EqualValues(t, 1, updated.UserVote.Value)
	}

	// same value again toggles off
	updated, httpErr = dc.VoteThread(ctx, studentB, thread.Id, &VoteReq{Value: 1})
	assert.Nil(t, httpErr)
	assert.EqualValues(t, 0, updated.VoteTotal)
	assert.Nil(t, updated.UserVote)

	// opposite value replaces, never double-counts
	_, _ = dc.VoteThread(ctx, studentB, thread.Id, &VoteReq{Value: -1})
	updated, httpErr = dc.VoteThread(ctx, studentB, thread.Id, &VoteReq{Value: 1})
	assert.Nil(t, httpErr)
	assert.EqualValues(t, 1, updated.VoteTotal)

	// two identities sum
	updated, httpErr = dc.VoteThread(ctx, teacherC, thread.Id, &VoteReq{Value: 1})
	assert.Nil(t, httpErr)
	assert.EqualValues(t, 2, updated.VoteTotal)

	t.Run("bad values rejected before mutation", func(t *testing.T) {
		for _, value := range []int8{0, 2, -2} {
			_, httpErr := dc.VoteThread(ctx, studentB, thread.Id, &VoteReq{Value: value})
			if assert.NotNil(t, httpErr, "value %d", value) {
				assert.Equal(t, 400, httpErr.Status)
			}
		}
	})

	t.Run("vote on missing thread", func(t *testing.T) {
		_, httpErr := dc.VoteThread(ctx, studentB, 999, &VoteReq{Value: 1})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 404, httpErr.Status)
		}
	})
}

func TestAddPostAndTree(t *testing.T) {
	dc, _, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Tree thread")

	rootPost := addPost(t, dc, teacherC, thread.Id, nil, "root answer")
	assert.False(t, rootPost.ParentPostId.Valid)

	nested := addPost(t, dc, studentD, thread.Id, &rootPost.Id, "follow-up")
	assert.EqualValues(t, rootPost.Id, nested.ParentPostId.Int64)

	view, httpErr := dc.GetThreadWithPosts(ctx, nil, thread.Id)
	assert.Nil(t, httpErr)
	if assert.Len(t, view.PostTree, 1) {
		assert.Equal(t, rootPost.Id, view.PostTree[0].Id)
		if assert.Len(t, view.PostTree[0].Replies, 1) {
			assert.Equal(t, nested.Id, view.PostTree[0].Replies[0].Id)
			assert.Empty(t, view.PostTree[0].Replies[0].Replies)
		}
	}
	assert.ElementsMatch(t, []int64{rootPost.Id, nested.Id}, view.Posts)

	t.Run("cross-thread parent rejected", func(t *testing.T) {
		other := createThread(t, dc, studentA, "Other thread")
		_, httpErr := dc.AddPost(ctx, studentB, other.Id, &CreatePostReq{Body: "b", ParentPost: &rootPost.Id})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 404, httpErr.Status)
		}
	})

	t.Run("missing thread rejected", func(t *testing.T) {
		_, httpErr := dc.AddPost(ctx, studentB, 999, &CreatePostReq{Body: "b"})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 404, httpErr.Status)
		}
	})

	t.Run("empty body rejected", func(t *testing.T) {
		_, httpErr := dc.AddPost(ctx, studentB, thread.Id, &CreatePostReq{})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 400, httpErr.Status)
		}
	})
}

func TestEditPost(t *testing.T) {
	dc, _, database := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Edit thread")
	post := addPost(t, dc, studentB, thread.Id, nil, "original")

	t.Run("non-author rejected, body unchanged", func(t *testing.T) {
		_, httpErr := dc.EditPost(ctx, studentD, thread.Id, post.Id, &EditPostReq{Body: "hijacked"})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 403, httpErr.Status)
		}
		current, err := database.GetPostById(ctx, post.Id, &appDb.PostQueryOpts{})
		assert.NoError(t, err)
		assert.Equal(t, "original", current.Body)
		assert.False(t, current.Edited)
	})

	t.Run("author edit sets audit flags", func(t *testing.T) {
		edited, httpErr := dc.EditPost(ctx, studentB, thread.Id, post.Id, &EditPostReq{Body: "revised"})
		assert.Nil(t, httpErr)
		assert.Equal(t, "revised", edited.Body)
		assert.True(t, edited.Edited)
		assert.NotNil(t, edited.EditedAt)
	})

	t.Run("edit after delete rejected", func(t *testing.T) {
		assert.Nil(t, dc.DeletePost(ctx, studentB, thread.Id, post.Id))
		_, httpErr := dc.EditPost(ctx, studentB, thread.Id, post.Id, &EditPostReq{Body: "too late"})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 409, httpErr.Status)
		}
	})
}

func TestDeletePost(t *testing.T) {
	dc, _, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Delete thread")
	parent := addPost(t, dc, studentD, thread.Id, nil, "to be deleted")
	child := addPost(t, dc, teacherC, thread.Id, &parent.Id, "still visible")

	t.Run("non-author rejected", func(t *testing.T) {
		httpErr := dc.DeletePost(ctx, studentB, thread.Id, parent.Id)
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 403, httpErr.Status)
		}
	})

	assert.Nil(t, dc.DeletePost(ctx, studentD, thread.Id, parent.Id))
	// idempotent
	assert.Nil(t, dc.DeletePost(ctx, studentD, thread.Id, parent.Id))

	view, httpErr := dc.GetThreadWithPosts(ctx, nil, thread.Id)
	assert.Nil(t, httpErr)
	if assert.Len(t, view.PostTree, 1) {
		placeholder := view.PostTree[0]
		assert.Equal(t, parent.Id, placeholder.Id)
		assert.True(t, placeholder.Deleted)
		assert.Empty(t, placeholder.Body)
		assert.Empty(t, placeholder.Images)
		if assert.Len(t, placeholder.Replies, 1) {
			assert.Equal(t, child.Id, placeholder.Replies[0].Id)
			assert.Equal(t, "still visible", placeholder.Replies[0].Body)
		}
	}
}

func TestVotePost(t *testing.T) {
	dc, _, database := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Post votes")
	post := addPost(t, dc, studentB, thread.Id, nil, "answer")

	// the author may vote their own post
	updated, httpErr := dc.VotePost(ctx, studentB, thread.Id, post.Id, &VoteReq{Value: 1})
	assert.Nil(t, httpErr)
	assert.EqualValues(t, 1, updated.VoteTotal)

	_, _ = dc.VotePost(ctx, teacherC, thread.Id, post.Id, &VoteReq{Value: 1})
	_, _ = dc.VotePost(ctx, studentD, thread.Id, post.Id, &VoteReq{Value: -1})

	// the derived score always equals the ledger sum
	score, err := database.Score(ctx, appDb.VoteTarget{Kind: appDb.TgtPost, Id: post.Id})
	assert.NoError(t, err)
	assert.EqualValues(t, 1, score)

	t.Run("missing post", func(t *testing.T) {
		_, httpErr := dc.VotePost(ctx, studentB, thread.Id, 999, &VoteReq{Value: 1})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 404, httpErr.Status)
		}
	})
}

func TestThreadEditAndDelete(t *testing.T) {
	dc, _, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Own thread")

	t.Run("non-author cannot edit", func(t *testing.T) {
		_, httpErr := dc.EditThread(ctx, studentB, thread.Id, &EditThreadReq{Title: "x", Body: "y"})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 403, httpErr.Status)
		}
	})

	edited, httpErr := dc.EditThread(ctx, studentA, thread.Id, &EditThreadReq{Title: "Updated", Body: "new body"})
	assert.Nil(t, httpErr)
	assert.Equal(t, "Updated", edited.Title)
	assert.True(t, edited.Edited)

	assert.Nil(t, dc.DeleteThread(ctx, studentA, thread.Id))
	view, httpErr := dc.GetThreadWithPosts(ctx, nil, thread.Id)
	assert.Nil(t, httpErr)
	assert.True(t, view.Deleted)
	assert.Empty(t, view.Body)

	t.Run("edit after delete rejected", func(t *testing.T) {
		_, httpErr := dc.EditThread(ctx, studentA, thread.Id, &EditThreadReq{Title: "x", Body: "y"})
		if assert.NotNil(t, httpErr) {
			assert.Equal(t, 409, httpErr.Status)
		}
	})
}

func TestListThreads(t *testing.T) {
	dc, _, _ := setup(t)
	ctx := context.Background()

	maths := createThread(t, dc, studentA, "Help with derivatives", model.TagMaths)
	science := createThread(t, dc, teacherC, "Lab safety rules", model.TagScience)
	general := createThread(t, dc, studentB, "Derivative of a joke", model.TagGeneral)

	_, _ = dc.VoteThread(ctx, studentB, science.Id, &VoteReq{Value: 1})
	_, _ = dc.VoteThread(ctx, studentD, science.Id, &VoteReq{Value: 1})
	_, _ = dc.VoteThread(ctx, studentD, maths.Id, &VoteReq{Value: 1})

	t.Run("search is a case-insensitive substring match", func(t *testing.T) {
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Search: "DERIVATIVE"})
		assert.Nil(t, httpErr)
		gotIds := []int64{}
		for _, thread := range threads {
			gotIds = append(gotIds, thread.Id)
		}
		assert.ElementsMatch(t, []int64{maths.Id, general.Id}, gotIds)
	})

	t.Run("search matches body too", func(t *testing.T) {
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Search: "body of lab"})
		assert.Nil(t, httpErr)
		if assert.Len(t, threads, 1) {
			assert.Equal(t, science.Id, threads[0].Id)
		}
	})

	t.Run("latest orders newest first", func(t *testing.T) {
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Sort: appDb.SortLatest})
		assert.Nil(t, httpErr)
		if assert.Len(t, threads, 3) {
			assert.Equal(t, general.Id, threads[0].Id)
		}
	})

	t.Run("hot orders by derived score", func(t *testing.T) {
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Sort: appDb.SortHot})
		assert.Nil(t, httpErr)
		if assert.Len(t, threads, 3) {
			assert.Equal(t, science.Id, threads[0].Id)
			assert.Equal(t, maths.Id, threads[1].Id)
		}
	})

	t.Run("filter by role", func(t *testing.T) {
		role := model.RoleTeacher
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Role: &role})
		assert.Nil(t, httpErr)
		if assert.Len(t, threads, 1) {
			assert.Equal(t, science.Id, threads[0].Id)
		}
	})

	t.Run("filter by tag", func(t *testing.T) {
		tag := model.TagMaths
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Tag: &tag})
		assert.Nil(t, httpErr)
		if assert.Len(t, threads, 1) {
			assert.Equal(t, maths.Id, threads[0].Id)
		}
	})

	t.Run("role wins when both filters are set", func(t *testing.T) {
		role := model.RoleStudent
		tag := model.TagScience
		threads, httpErr := dc.ListThreads(ctx, nil, &ListThreadsQuery{Role: &role, Tag: &tag})
		assert.Nil(t, httpErr)
		assert.Len(t, threads, 2)
	})
}
