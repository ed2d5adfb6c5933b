package mysqldb

import (
	"context"

	"github.com/upper/db/v4"

	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type UserDB struct {
	sess db.Session
}

func getUserDB(sess db.Session) *UserDB {
	return &UserDB{sess}
}

type flattenedUser struct {
	Id          string     `db:"firebase_id"`
	DisplayName string     `db:"display_name"`
	Role        model.Role `db:"role"`
}

func (udb *UserDB) CreateUser(ctx context.Context, user *model.User) error {
	_, err := udb.sess.SQL().
		InsertInto("person").
		Columns("firebase_id", "display_name", "role").
		Values(user.Id, user.DisplayName, user.Role).
		ExecContext(ctx)
	return err
}

func (udb *UserDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user flattenedUser
	if err := udb.sess.SQL().
		Select("firebase_id", "display_name", "role").
		From("person").
		Where("firebase_id = ?", id).
		IteratorContext(ctx).
		One(&user); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &model.User{
		Id:          user.Id,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Avatar:      util.Avatar(user.Id),
	}, nil
}
