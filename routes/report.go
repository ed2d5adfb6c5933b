package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/chetan123445/VK-WebPortal-sub002/controllers"
	"github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/middleware"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type reportRoutes struct {
	controller *controllers.ReportController
}

func AddReportRoutes(group *gin.RouterGroup, database db.Database, controller *controllers.ReportController, authClient *auth.Client) {
	routes := reportRoutes{controller}
	reports := group.Group("/reports", middleware.Auth(database, authClient, &middleware.AuthConfig{}))
	reports.PUT("", util.HandlerWrapper(routes.createReport, &util.HandlerOpts{}))
	reports.GET("", util.HandlerWrapper(routes.getReports, &util.HandlerOpts{}))
}

func (rr *reportRoutes) createReport(c *gin.Context) (interface{}, *util.HTTPError) {
	var req controllers.CreateReportReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, httpErr := rr.controller.CreateReport(c, middleware.MustGetUser(c), &req)
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"id": id}, nil
}

func (rr *reportRoutes) getReports(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.ListReports(c, middleware.MustGetUser(c))
}
