package memdb

import (
	"context"

	"github.com/pkg/errors"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

// Vote applies the one-record-per-identity rule: repeating the recorded value
// toggles the record off, any other value replaces it.
func (mdb *DB) Vote(ctx context.Context, voterId string, voterRole model.Role, tgt appDb.VoteTarget, value int8) error {
	if value != 1 && value != -1 {
		return errors.Errorf("invalid vote value %d", value)
	}
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	key := voteKey{kind: tgt.Kind, id: tgt.Id, voterId: voterId, voterRole: voterRole}
	if mdb.votes[key] == value {
		delete(mdb.votes, key)
		return nil
	}
	mdb.votes[key] = value
	return nil
}

func (mdb *DB) UserVote(ctx context.Context, voterId string, voterRole model.Role, tgt appDb.VoteTarget) (int8, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()
	return mdb.votes[voteKey{kind: tgt.Kind, id: tgt.Id, voterId: voterId, voterRole: voterRole}], nil
}

func (mdb *DB) Score(ctx context.Context, tgt appDb.VoteTarget) (int64, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()
	return mdb.score(tgt), nil
}
