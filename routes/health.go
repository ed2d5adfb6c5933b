package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

func AddHealthCheckRoutes(group *gin.RouterGroup) {
	group.GET("/healthz", util.HandlerWrapper(AliveCheck, &util.HandlerOpts{}))
}

func AliveCheck(c *gin.Context) (interface{}, *util.HTTPError) {
	return gin.H{"alive": true}, nil
}
