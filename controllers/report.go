package controllers

import (
	"context"
	"net/http"

	appDb "github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type ReportController struct {
	db appDb.Database
}

func NewReportController(db appDb.Database) *ReportController {
	return &ReportController{db: db}
}

type CreateReportReq struct {
	TgtKind appDb.TgtKind `json:"tgtKind" validate:"required,oneof=THREAD POST"`
	TgtId   int64         `json:"tgtId" validate:"required"`
	Reason  string        `json:"reason" validate:"required,max=500"`
}

func (rc *ReportController) CreateReport(ctx context.Context, user *model.User, req *CreateReportReq) (int64, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return 0, httpErr
	}
	if httpErr := util.ValidateReq(req); httpErr != nil {
		return 0, httpErr
	}
	if httpErr := rc.targetExists(ctx, req); httpErr != nil {
		return 0, httpErr
	}
	id, err := rc.db.CreateReport(ctx, user.Id, &appDb.CreateReport{
		Tgt:    appDb.VoteTarget{Kind: req.TgtKind, Id: req.TgtId},
		Reason: util.SanitizeBody(req.Reason),
	})
	if err != nil {
		return 0, util.BuildDbHTTPErr(err)
	}
	return id, nil
}

func (rc *ReportController) ListReports(ctx context.Context, user *model.User) ([]*model.Report, *util.HTTPError) {
	if httpErr := requireUser(user); httpErr != nil {
		return nil, httpErr
	}
	if !user.IsAdmin() {
		return nil, &util.HTTPError{
			Status:  http.StatusForbidden,
			Message: "admins only",
		}
	}
	reports, err := rc.db.GetReports(ctx)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return reports, nil
}

func (rc *ReportController) targetExists(ctx context.Context, req *CreateReportReq) *util.HTTPError {
	switch req.TgtKind {
	case appDb.TgtThread:
		thread, err := rc.db.GetThreadById(ctx, req.TgtId, &appDb.ThreadQueryOpts{})
		if err != nil {
			return util.BuildDbHTTPErr(err)
		}
		if thread == nil {
			return threadNotFoundErr
		}
	case appDb.TgtPost:
		post, err := rc.db.GetPostById(ctx, req.TgtId, &appDb.PostQueryOpts{})
		if err != nil {
			return util.BuildDbHTTPErr(err)
		}
		if post == nil {
			return postNotFoundErr
		}
	}
	return nil
}
