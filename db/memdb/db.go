// Package memdb is an in-memory Database backend used by tests and local
// development. It mirrors the semantics of the MySQL backend: soft deletes
// keep rows in place and vote scores are always derived from the ledger.
package memdb

import (
	"sync"
	"time"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/db/dao"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

type voteKey struct {
	kind      appDb.TgtKind
	id        int64
	voterId   string
	voterRole model.Role
}

type threadRow struct {
	id          int64
	title       string
	body        string
	tags        []model.Tag
	images      []model.Image
	createdBy   string
	createdRole model.Role
	edited      bool
	editedAt    *time.Time
	deleted     bool
	deletedAt   *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

type postRow struct {
	id           int64
	threadId     int64
	parentPostId dao.NullInt64
	body         string
	images       []model.Image
	createdBy    string
	createdRole  model.Role
	edited       bool
	editedAt     *time.Time
	deleted      bool
	deletedAt    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

type DB struct {
	mu sync.RWMutex

	threadSeq int64
	threads   map[int64]*threadRow

	postSeq int64
	posts   map[int64]*postRow

	votes map[voteKey]int8

	notifSeq int64
	notifs   map[int64]*model.Notification

	reportSeq int64
	reports   []*model.Report

	users map[string]*model.User
}

var _ appDb.Database = (*DB)(nil) // interface compliance check

func Open() (*DB, error) {
	return &DB{
		threads: make(map[int64]*threadRow),
		posts:   make(map[int64]*postRow),
		votes:   make(map[voteKey]int8),
		notifs:  make(map[int64]*model.Notification),
		users:   make(map[string]*model.User),
	}, nil
}

func (mdb *DB) Close() error {
	return nil
}

// score derives the aggregate under a held read lock.
func (mdb *DB) score(tgt appDb.VoteTarget) int64 {
	var total int64
	for key, value := range mdb.votes {
		if key.kind == tgt.Kind && key.id == tgt.Id {
			total += int64(value)
		}
	}
	return total
}

func (mdb *DB) userVote(tgt appDb.VoteTarget, voterId string) *model.Vote {
	for key, value := range mdb.votes {
		if key.kind == tgt.Kind && key.id == tgt.Id && key.voterId == voterId {
			return &model.Vote{Value: value}
		}
	}
	return nil
}

func (mdb *DB) creator(id string, role model.Role) *model.User {
	if user, ok := mdb.users[id]; ok {
		u := *user
		return &u
	}
	return &model.User{Id: id, Role: role}
}

func copyImages(images []model.Image) []model.Image {
	out := make([]model.Image, len(images))
	copy(out, images)
	return out
}
