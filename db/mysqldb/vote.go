package mysqldb

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/upper/db/v4"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

type VoteDB struct {
	sess db.Session
}

func getVoteDB(sess db.Session) *VoteDB {
	return &VoteDB{sess}
}

// Vote applies the one-record-per-identity rule inside a transaction: a
// revote with the same value removes the record (toggle-off), any other value
// replaces the existing record. The aggregate score is never stored; readers
// derive it by summing the ledger.
func (vdb *VoteDB) Vote(ctx context.Context, voterId string, voterRole model.Role, tgt appDb.VoteTarget, value int8) error {
	if value != 1 && value != -1 {
		return errors.Errorf("invalid vote value %d", value)
	}
	return vdb.sess.TxContext(ctx, func(sess db.Session) error {
		row, err := sess.SQL().QueryRowContext(ctx, `SELECT value FROM vote
																WHERE tgt_kind = ? AND tgt_id = ? AND voter_id = ? AND voter_role = ?
															FOR UPDATE`,
			tgt.Kind, tgt.Id, voterId, voterRole)
		if err != nil {
			return err
		}
		var previousVoteValue int8
		if err := row.Scan(&previousVoteValue); err != nil {
			if err != db.ErrNoMoreRows && err != sql.ErrNoRows {
				return err
			}
		}

		switch previousVoteValue {
		case value:
			// toggle-off
			_, err := sess.SQL().
				DeleteFrom("vote").
				Where("tgt_kind = ? AND tgt_id = ? AND voter_id = ? AND voter_role = ?", tgt.Kind, tgt.Id, voterId, voterRole).
				ExecContext(ctx)
			return err
		case 0:
			_, err := sess.SQL().
				InsertInto("vote").
				Columns("tgt_kind", "tgt_id", "voter_id", "voter_role", "value").
				Values(tgt.Kind, tgt.Id, voterId, voterRole, value).
				ExecContext(ctx)
			return err
		default:
			_, err := sess.SQL().
				Update("vote").
				Set("value", value).
				Where("tgt_kind = ? AND tgt_id = ? AND voter_id = ? AND voter_role = ?", tgt.Kind, tgt.Id, voterId, voterRole).
				ExecContext(ctx)
			return err
		}
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (vdb *VoteDB) UserVote(ctx context.Context, voterId string, voterRole model.Role, tgt appDb.VoteTarget) (int8, error) {
	row, err := vdb.sess.SQL().QueryRowContext(ctx,
		`SELECT value FROM vote WHERE tgt_kind = ? AND tgt_id = ? AND voter_id = ? AND voter_role = ?`,
		tgt.Kind, tgt.Id, voterId, voterRole)
	if err != nil {
		return 0, err
	}
	var value int8
	if err := row.Scan(&value); err != nil {
		if err == db.ErrNoMoreRows || err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}

func (vdb *VoteDB) Score(ctx context.Context, tgt appDb.VoteTarget) (int64, error) {
	row, err := vdb.sess.SQL().QueryRowContext(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM vote WHERE tgt_kind = ? AND tgt_id = ?`,
		tgt.Kind, tgt.Id)
	if err != nil {
		return 0, err
	}
	var total int64
	err = row.Scan(&total)
	return total, err
}
