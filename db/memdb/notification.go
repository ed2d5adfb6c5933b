package memdb

import (
	"context"
	"sort"
	"time"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

func (mdb *DB) CreateNotification(ctx context.Context, req *appDb.CreateNotification) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	mdb.notifSeq++
	mdb.notifs[mdb.notifSeq] = &model.Notification{
		Id:          mdb.notifSeq,
		RecipientId: req.RecipientId,
		Message:     req.Message,
		ThreadId:    req.ThreadId,
		PostId:      req.PostId,
		CreatedAt:   time.Now().UTC(),
	}
	return mdb.notifSeq, nil
}

func (mdb *DB) GetNotificationsForUser(ctx context.Context, userId string) ([]*model.Notification, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	notifications := make([]*model.Notification, 0)
	for _, n := range mdb.notifs {
		if n.RecipientId == userId {
			copied := *n
			notifications = append(notifications, &copied)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].Id > notifications[j].Id })
	return notifications, nil
}

func (mdb *DB) MarkNotificationsRead(ctx context.Context, userId string, ids []int64) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	for _, id := range ids {
		if n, ok := mdb.notifs[id]; ok && n.RecipientId == userId {
			n.Read = true
		}
	}
	return nil
}
