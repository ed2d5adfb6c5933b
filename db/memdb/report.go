package memdb

import (
	"context"
	"time"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

func (mdb *DB) CreateReport(ctx context.Context, creatorId string, req *appDb.CreateReport) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()

	mdb.reportSeq++
	creator := mdb.creator(creatorId, "")
	mdb.reports = append(mdb.reports, &model.Report{
		Id:        mdb.reportSeq,
		TgtKind:   string(req.Tgt.Kind),
		TgtId:     req.Tgt.Id,
		Creator:   creator,
		Reason:    req.Reason,
		CreatedAt: time.Now().UTC(),
	})
	return mdb.reportSeq, nil
}

func (mdb *DB) GetReports(ctx context.Context) ([]*model.Report, error) {
	mdb.mu.RLock()
	defer mdb.mu.RUnlock()

	reports := make([]*model.Report, 0, len(mdb.reports))
	for i := len(mdb.reports) - 1; i >= 0; i-- {
		copied := *mdb.reports[i]
		reports = append(reports, &copied)
	}
	return reports, nil
}
