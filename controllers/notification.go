package controllers

import (
	"context"
	"log"
	"sync"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

const subscriberBuffer = 16

// NotificationController persists notifications and fans them out to any
// live push subscribers of the recipient.
type NotificationController struct {
	db appDb.NotificationDatabase

	mu          sync.Mutex
	subSeq      int64
	subscribers map[string]map[int64]chan *model.Notification
}

func NewNotificationController(db appDb.NotificationDatabase) *NotificationController {
	return &NotificationController{
		db:          db,
		subscribers: make(map[string]map[int64]chan *model.Notification),
	}
}

// Notify persists the notification and pushes it to the recipient's open
// streams. Delivery failures are logged, never surfaced to the caller: the
// poll endpoints remain the source of truth.
func (nc *NotificationController) Notify(ctx context.Context, req *appDb.CreateNotification) {
	id, err := nc.db.CreateNotification(ctx, req)
	if err != nil {
		log.Println("an error occurred while persisting a notification", err)
		return
	}
	notification := &model.Notification{
		Id:          id,
		RecipientId: req.RecipientId,
		Message:     req.Message,
		ThreadId:    req.ThreadId,
		PostId:      req.PostId,
	}

	nc.mu.Lock()
	defer nc.mu.Unlock()
	for _, ch := range nc.subscribers[req.RecipientId] {
		select {
		case ch <- notification:
		default:
			// subscriber is not draining; it will catch up via polling
		}
	}
}

// Subscribe registers a push channel for userId. The returned func removes
// the subscription and closes the channel.
func (nc *NotificationController) Subscribe(userId string) (<-chan *model.Notification, func()) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.subSeq++
	id := nc.subSeq
	ch := make(chan *model.Notification, subscriberBuffer)
	if nc.subscribers[userId] == nil {
		nc.subscribers[userId] = make(map[int64]chan *model.Notification)
	}
	nc.subscribers[userId][id] = ch

	return ch, func() {
		nc.mu.Lock()
		defer nc.mu.Unlock()
		if subs, ok := nc.subscribers[userId]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(nc.subscribers, userId)
			}
		}
	}
}

func (nc *NotificationController) List(ctx context.Context, user *model.User) ([]*model.Notification, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	notifications, err := nc.db.GetNotificationsForUser(ctx, user.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return notifications, nil
}

func (nc *NotificationController) MarkRead(ctx context.Context, user *model.User, ids []int64) *util.HTTPError {
	if httpErr := requireUser(user); httpErr != nil {
		return httpErr
	}
	if err := nc.db.MarkNotificationsRead(ctx, user.Id, ids); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	return nil
}
