package routes

import (
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/chetan123445/VK-WebPortal-sub002/controllers"
	"github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/middleware"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type threadRoutes struct {
	controller *controllers.DiscussionController
}

func AddThreadRoutes(group *gin.RouterGroup, database db.Database, controller *controllers.DiscussionController, authClient *auth.Client) {
	routes := threadRoutes{controller}
	threads := group.Group("/threads", middleware.Auth(database, authClient, &middleware.AuthConfig{
		SessionNotRequired: true,
		ProfileNotRequired: true,
	}))
	threads.GET("", util.HandlerWrapper(routes.listThreads, &util.HandlerOpts{}))
	threads.GET("/search", util.HandlerWrapper(routes.searchThreads, &util.HandlerOpts{}))
	threads.GET("/:id", util.HandlerWrapper(routes.getThreadById, &util.HandlerOpts{}))
	threads.PUT("", util.HandlerWrapper(routes.createThread, &util.HandlerOpts{}))
	threads.POST("/:id", util.HandlerWrapper(routes.editThread, &util.HandlerOpts{}))
	threads.DELETE("/:id", util.HandlerWrapper(routes.deleteThread, &util.HandlerOpts{}))
	threads.PUT("/:id/vote", util.HandlerWrapper(routes.voteThread, &util.HandlerOpts{}))
	threads.PUT("/:id/posts", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	threads.POST("/:id/posts/:postId", util.HandlerWrapper(routes.editPost, &util.HandlerOpts{}))
	threads.DELETE("/:id/posts/:postId", util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))
	threads.PUT("/:id/posts/:postId/vote", util.HandlerWrapper(routes.votePost, &util.HandlerOpts{}))
}

func (tr *threadRoutes) createThread(c *gin.Context) (interface{}, *util.HTTPError) {
	var req controllers.CreateThreadReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return tr.controller.CreateThread(c, middleware.GetUserMaybe(c), &req)
}

func (tr *threadRoutes) getThreadById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return tr.controller.GetThreadWithPosts(c, middleware.GetUserMaybe(c), id)
}

func (tr *threadRoutes) listThreads(c *gin.Context) (interface{}, *util.HTTPError) {
	query, httpErr := parseListQuery(c)
	if httpErr != nil {
		return nil, httpErr
	}
	return tr.controller.ListThreads(c, middleware.GetUserMaybe(c), query)
}

func (tr *threadRoutes) searchThreads(c *gin.Context) (interface{}, *util.HTTPError) {
	query, httpErr := parseListQuery(c)
	if httpErr != nil {
		return nil, httpErr
	}
	query.Search = c.Query("query")
	return tr.controller.ListThreads(c, middleware.GetUserMaybe(c), query)
}

func (tr *threadRoutes) editThread(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req controllers.EditThreadReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return tr.controller.EditThread(c, middleware.GetUserMaybe(c), id, &req)
}

func (tr *threadRoutes) deleteThread(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	if httpErr := tr.controller.DeleteThread(c, middleware.GetUserMaybe(c), id); httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"id": id}, nil
}

func (tr *threadRoutes) voteThread(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req controllers.VoteReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return tr.controller.VoteThread(c, middleware.GetUserMaybe(c), id, &req)
}

func (tr *threadRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req controllers.CreatePostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return tr.controller.AddPost(c, middleware.GetUserMaybe(c), id, &req)
}

func (tr *threadRoutes) editPost(c *gin.Context) (interface{}, *util.HTTPError) {
	threadId, postId, httpErr := parseThreadPostIds(c)
	if httpErr != nil {
		return nil, httpErr
	}
	var req controllers.EditPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return tr.controller.EditPost(c, middleware.GetUserMaybe(c), threadId, postId, &req)
}

func (tr *threadRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	threadId, postId, httpErr := parseThreadPostIds(c)
	if httpErr != nil {
		return nil, httpErr
	}
	if httpErr := tr.controller.DeletePost(c, middleware.GetUserMaybe(c), threadId, postId); httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"id": postId}, nil
}

func (tr *threadRoutes) votePost(c *gin.Context) (interface{}, *util.HTTPError) {
	threadId, postId, httpErr := parseThreadPostIds(c)
	if httpErr != nil {
		return nil, httpErr
	}
	var req controllers.VoteReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return tr.controller.VotePost(c, middleware.GetUserMaybe(c), threadId, postId, &req)
}

func parseThreadPostIds(c *gin.Context) (threadId, postId int64, httpErr *util.HTTPError) {
	threadId, httpErr = util.ParseId(c.Param("id"))
	if httpErr != nil {
		return 0, 0, httpErr
	}
	postId, httpErr = util.ParseId(c.Param("postId"))
	if httpErr != nil {
		return 0, 0, httpErr
	}
	return threadId, postId, nil
}

func parseListQuery(c *gin.Context) (*controllers.ListThreadsQuery, *util.HTTPError) {
	query := &controllers.ListThreadsQuery{
		Search: c.Query("search"),
		Sort:   db.SortLatest,
	}
	switch sort := c.Query("sort"); sort {
	case "", string(db.SortLatest):
	case string(db.SortHot):
		query.Sort = db.SortHot
	default:
		return nil, &util.HTTPError{
			Status:  400,
			Message: "sort must be latest or hot",
		}
	}
	if rawRole := c.Query("role"); rawRole != "" {
		role, err := model.ParseRole(rawRole)
		if err != nil {
			return nil, &util.HTTPError{Status: 400, Message: err.Error()}
		}
		query.Role = &role
	}
	if rawTag := c.Query("tag"); rawTag != "" {
		if !model.IsValidTag(rawTag) {
			return nil, &util.HTTPError{Status: 400, Message: "unknown tag"}
		}
		tag := model.Tag(rawTag)
		query.Tag = &tag
	}
	return query, nil
}
