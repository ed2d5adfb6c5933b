package routes

import (
	"io"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/chetan123445/VK-WebPortal-sub002/config"
	"github.com/chetan123445/VK-WebPortal-sub002/controllers"
	"github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/middleware"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type notificationRoutes struct {
	controller *controllers.NotificationController
}

func AddNotificationRoutes(group *gin.RouterGroup, database db.Database, controller *controllers.NotificationController, authClient *auth.Client) {
	routes := notificationRoutes{controller}
	notifications := group.Group("/notifications", middleware.Auth(database, authClient, &middleware.AuthConfig{}))
	notifications.GET("", util.HandlerWrapper(routes.getNotifications, &util.HandlerOpts{}))
	notifications.POST("/mark-read", util.HandlerWrapper(routes.markRead, &util.HandlerOpts{}))
	notifications.GET("/stream", routes.stream)
}

func (nr *notificationRoutes) getNotifications(c *gin.Context) (interface{}, *util.HTTPError) {
	return nr.controller.List(c, middleware.MustGetUser(c))
}

type markReadReq struct {
	NotificationIds []int64 `json:"notificationIds" validate:"required,min=1"`
}

func (nr *notificationRoutes) markRead(c *gin.Context) (interface{}, *util.HTTPError) {
	var req markReadReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if httpErr := util.ValidateReq(&req); httpErr != nil {
		return nil, httpErr
	}
	if httpErr := nr.controller.MarkRead(c, middleware.MustGetUser(c), req.NotificationIds); httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"marked": len(req.NotificationIds)}, nil
}

// stream pushes "notification" server-sent events until the client hangs up.
// Missed events are not replayed; clients reconcile via GET /notifications.
func (nr *notificationRoutes) stream(c *gin.Context) {
	user := middleware.MustGetUser(c)
	ch, unsubscribe := nr.controller.Subscribe(user.Id)
	defer unsubscribe()

	heartbeat := time.NewTicker(config.NotifStreamHeartbeat())
	defer heartbeat.Stop()

	c.Writer.Header().Set("Content-Type", sse.ContentType)
	c.Stream(func(w io.Writer) bool {
		select {
		case notification, ok := <-ch:
			if !ok {
				return false
			}
			_ = sse.Encode(w, sse.Event{Event: "notification", Data: notification})
			return true
		case <-heartbeat.C:
			_ = sse.Encode(w, sse.Event{Event: "heartbeat", Data: time.Now().Unix()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
