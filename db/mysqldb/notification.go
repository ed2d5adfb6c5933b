package mysqldb

import (
	"context"
	"time"

	"github.com/upper/db/v4"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

type NotificationDB struct {
	sess db.Session
}

func getNotificationDB(sess db.Session) *NotificationDB {
	return &NotificationDB{sess}
}

type flattenedNotification struct {
	Id          int64         `db:"id"`
	RecipientId string        `db:"recipient_id"`
	Message     string        `db:"message"`
	ThreadId    int64         `db:"thread_id"`
	PostId      dao.NullInt64 `db:"post_id"`
	Read        bool          `db:"is_read"`
	CreatedAt   time.Time     `db:"created_at"`
}

func (ndb *NotificationDB) CreateNotification(ctx context.Context, req *appDb.CreateNotification) (int64, error) {
	res, err := ndb.sess.SQL().
		InsertInto("notification").
		Columns("recipient_id", "message", "thread_id", "post_id").
		Values(req.RecipientId, req.Message, req.ThreadId, req.PostId).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (ndb *NotificationDB) GetNotificationsForUser(ctx context.Context, userId string) ([]*model.Notification, error) {
	var flattened []flattenedNotification
	if err := ndb.sess.SQL().
		Select("*").
		From("notification").
		Where("recipient_id = ?", userId).
		OrderBy("created_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&flattened); err != nil {
		return nil, err
	}
	notifications := make([]*model.Notification, len(flattened))
	for i, n := range flattened {
		notifications[i] = &model.Notification{
			Id:          n.Id,
			RecipientId: n.RecipientId,
			Message:     n.Message,
			ThreadId:    n.ThreadId,
			PostId:      n.PostId,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		}
	}
	return notifications, nil
}

// MarkNotificationsRead only touches rows owned by userId; ids belonging to
// other users are ignored.
func (ndb *NotificationDB) MarkNotificationsRead(ctx context.Context, userId string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := ndb.sess.SQL().
		Update("notification").
		Set("is_read", true).
		Where("recipient_id = ? AND id IN ?", userId, ids).
		ExecContext(ctx)
	return err
}
