package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReplyNotifications(t *testing.T) {
	dc, nc, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Notify thread")

	t.Run("reply notifies the thread author", func(t *testing.T) {
		ch, unsubscribe := nc.Subscribe(studentA.Id)
		defer unsubscribe()

		post := addPost(t, dc, studentB, thread.Id, nil, "an answer")

		select {
		case notification := <-ch:
			assert.Contains(t, notification.Message, studentB.DisplayName)
			assert.Equal(t, thread.Id, notification.ThreadId)
			assert.EqualValues(t, post.Id, notification.PostId.Int64)
			assert.False(t, notification.Read)
		case <-time.After(time.Second):
			t.Fatal("expected a pushed notification")
		}

		notifications, httpErr := nc.List(ctx, studentA)
		assert.Nil(t, httpErr)
		assert.Len(t, notifications, 1)
	})

	t.Run("nested reply notifies the parent author, not the thread author", func(t *testing.T) {
		post := addPost(t, dc, teacherC, thread.Id, nil, "parent")
		before, _ := nc.List(ctx, studentA)

		addPost(t, dc, studentD, thread.Id, &post.Id, "child")

		teacherNotifs, httpErr := nc.List(ctx, teacherC)
		assert.Nil(t, httpErr)
		assert.Len(t, teacherNotifs, 1)
		after, _ := nc.List(ctx, studentA)
		assert.Len(t, after, len(before))
	})

	t.Run("self reply produces no notification", func(t *testing.T) {
		before, _ := nc.List(ctx, studentA)
		addPost(t, dc, studentA, thread.Id, nil, "talking to myself")
		after, _ := nc.List(ctx, studentA)
		assert.Len(t, after, len(before))
	})
}

func TestVoteNotifications(t *testing.T) {
	dc, nc, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Voted thread")

	t.Run("vote notifies the content author", func(t *testing.T) {
		_, httpErr := dc.VoteThread(ctx, studentB, thread.Id, &VoteReq{Value: 1})
		assert.Nil(t, httpErr)

		notifications, httpErr := nc.List(ctx, studentA)
		assert.Nil(t, httpErr)
		if assert.Len(t, notifications, 1) {
			assert.Contains(t, notifications[0].Message, "voted")
		}
	})

	t.Run("self vote produces no notification", func(t *testing.T) {
		post := addPost(t, dc, studentB, thread.Id, nil, "own post")
		_, httpErr := dc.VotePost(ctx, studentB, thread.Id, post.Id, &VoteReq{Value: 1})
		assert.Nil(t, httpErr)

		notifications, _ := nc.List(ctx, studentB)
		assert.Empty(t, notifications)
	})
}

func TestMarkNotificationsRead(t *testing.T) {
	dc, nc, _ := setup(t)
	ctx := context.Background()
	thread := createThread(t, dc, studentA, "Read thread")
	addPost(t, dc, studentB, thread.Id, nil, "ping")

	notifications, httpErr := nc.List(ctx, studentA)
	assert.Nil(t, httpErr)
	if !assert.Len(t, notifications, 1) {
		return
	}
	assert.False(t, notifications[0].Read)

	assert.Nil(t, nc.MarkRead(ctx, studentA, []int64{notifications[0].Id}))
	notifications, _ = nc.List(ctx, studentA)
	assert.True(t, notifications[0].Read)

	t.Run("cannot mark another user's notifications", func(t *testing.T) {
		thread := createThread(t, dc, teacherC, "Other inbox")
		addPost(t, dc, studentD, thread.Id, nil, "hello")
		teacherNotifs, _ := nc.List(ctx, teacherC)
		if !assert.Len(t, teacherNotifs, 1) {
			return
		}
		assert.Nil(t, nc.MarkRead(ctx, studentA, []int64{teacherNotifs[0].Id}))
		teacherNotifs, _ = nc.List(ctx, teacherC)
		assert.False(t, teacherNotifs[0].Read)
	})
}

func TestSubscribeDropsSlowSubscribers(t *testing.T) {
	dc, nc, _ := setup(t)
	thread := createThread(t, dc, studentA, "Busy thread")

	ch, unsubscribe := nc.Subscribe(studentA.Id)
	defer unsubscribe()

	// never drain; pushes beyond the buffer are dropped instead of blocking writes
	for i := 0; i < subscriberBuffer+4; i++ {
		addPost(t, dc, studentB, thread.Id, nil, "spam")
	}
	assert.Len(t, ch, subscriberBuffer)
}
