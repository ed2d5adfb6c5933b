package memdb

import (
	"context"

	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

func (mdb *DB) CreateUser(ctx context.Context, user *model.User) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	copied := *user
	if copied.Avatar == "" {
		copied.Avatar = util.Avatar(copied.Id)
	}
	mdb.users[copied.Id] = &copied
	return nil
}

func (mdb *DB) GetUser(ctx context.Context, id string) (*model.User, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	user, ok := mdb.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}
