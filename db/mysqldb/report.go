package mysqldb

import (
	"context"
	"time"

	"github.com/upper/db/v4"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type ReportDB struct {
	sess db.Session
}

func getReportDB(sess db.Session) *ReportDB {
	return &ReportDB{sess}
}

type flattenedReport struct {
	Id                 int64      `db:"id"`
	TgtKind            string     `db:"tgt_kind"`
	TgtId              int64      `db:"tgt_id"`
	CreatorId          string     `db:"creator_id"`
	CreatorDisplayName string     `db:"display_name"`
	CreatorRole        model.Role `db:"role"`
	Reason             string     `db:"reason"`
	CreatedAt          time.Time  `db:"created_at"`
}

func (rdb *ReportDB) CreateReport(ctx context.Context, creatorId string, req *appDb.CreateReport) (int64, error) {
	res, err := rdb.sess.SQL().
		InsertInto("report").
		Columns("tgt_kind", "tgt_id", "creator_id", "reason").
		Values(req.Tgt.Kind, req.Tgt.Id, creatorId, req.Reason).
		ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (rdb *ReportDB) GetReports(ctx context.Context) ([]*model.Report, error) {
	var flattened []flattenedReport
	if err := rdb.sess.SQL().
		Select("r.id", "r.tgt_kind", "r.tgt_id", "r.creator_id", "person.display_name", "person.role", "r.reason", "r.created_at").
		From("report AS r").
		Join("person").On("r.creator_id = person.firebase_id").
		OrderBy("r.created_at DESC").
		IteratorContext(ctx).
		All(&flattened); err != nil {
		return nil, err
	}
	reports := make([]*model.Report, len(flattened))
	for i, r := range flattened {
		reports[i] = &model.Report{
			Id:      r.Id,
			TgtKind: r.TgtKind,
			TgtId:   r.TgtId,
			Creator: &model.User{
				Id:          r.CreatorId,
				DisplayName: r.CreatorDisplayName,
				Role:        r.CreatorRole,
				Avatar:      util.Avatar(r.CreatorId),
			},
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt,
		}
	}
	return reports, nil
}
