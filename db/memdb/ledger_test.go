package memdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

func TestVoteLedger(t *testing.T) {
	mdb, err := Open()
	assert.NoError(t, err)
	defer mdb.Close()

	ctx := context.Background()
	tgt := appDb.VoteTarget{Kind: appDb.TgtThread, Id: 1}

	vote := func(voterId string, value int8) {
		assert.NoError(t, mdb.Vote(ctx, voterId, model.RoleStudent, tgt, value))
	}
	score := func() int64 {
		total, err := mdb.Score(ctx, tgt)
		assert.NoError(t, err)
		return total
	}

	vote("a", 1)
	assert.EqualValues(t, 1, score())

	// same value toggles off
	vote("a", 1)
	assert.EqualValues(t, 0, score())
	userVote, _ := mdb.UserVote(ctx, "a", model.RoleStudent, tgt)
	assert.EqualValues(t, 0, userVote)

	// opposite value replaces, never stacks
	vote("a", 1)
	vote("a", -1)
	assert.EqualValues(t, -1, score())

	// identities are independent
	vote("b", 1)
	vote("c", 1)
	assert.EqualValues(t, 1, score())

	// a separate target has its own ledger
	other := appDb.VoteTarget{Kind: appDb.TgtPost, Id: 1}
	otherScore, err := mdb.Score(ctx, other)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, otherScore)

	t.Run("rejects out of range values", func(t *testing.T) {
		assert.Error(t, mdb.Vote(ctx, "a", model.RoleStudent, tgt, 0))
		assert.Error(t, mdb.Vote(ctx, "a", model.RoleStudent, tgt, 2))
		assert.EqualValues(t, 1, score())
	})
}

func TestVoteLedgerKeysOnRole(t *testing.T) {
	mdb, err := Open()
	assert.NoError(t, err)
	defer mdb.Close()

	ctx := context.Background()
	tgt := appDb.VoteTarget{Kind: appDb.TgtPost, Id: 7}

	// same id under different roles counts as two identities
	assert.NoError(t, mdb.Vote(ctx, "x", model.RoleStudent, tgt, 1))
	assert.NoError(t, mdb.Vote(ctx, "x", model.RoleTeacher, tgt, 1))
	total, err := mdb.Score(ctx, tgt)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
