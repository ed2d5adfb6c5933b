package routes

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/chetan123445/VK-WebPortal-sub002/db"
	"github.com/chetan123445/VK-WebPortal-sub002/middleware"
	"github.com/chetan123445/VK-WebPortal-sub002/model"
	"github.com/chetan123445/VK-WebPortal-sub002/util"
)

type userRoutes struct {
	db db.UserDatabase
}

func AddUserRoutes(group *gin.RouterGroup, userDatabase db.UserDatabase, authClient *auth.Client) {
	routes := userRoutes{userDatabase}
	users := group.Group("/users", middleware.Auth(userDatabase, authClient, &middleware.AuthConfig{
		ProfileNotRequired: true,
	}))
	users.PUT("", util.HandlerWrapper(routes.createUser, &util.HandlerOpts{}))
	users.GET("/me", util.HandlerWrapper(routes.getMe, &util.HandlerOpts{}))
}

type createUserReq struct {
	DisplayName string `json:"displayName" validate:"required,max=50"`
	// admin accounts are provisioned out of band
	Role string `json:"role" validate:"required,oneof=STUDENT TEACHER GUARDIAN"`
}

func (ur *userRoutes) createUser(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if httpErr := util.ValidateReq(&req); httpErr != nil {
		return nil, httpErr
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, &util.HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	token := middleware.GetToken(c)
	user := &model.User{
		Id:          token.UID,
		DisplayName: req.DisplayName,
		Role:        role,
		Avatar:      util.Avatar(token.UID),
	}
	if err := ur.db.CreateUser(c, user); err != nil {
		if db.IsDupKeyErr(err) {
			return nil, &util.HTTPError{
				Status:  http.StatusConflict,
				Message: "profile already exists",
			}
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return user, nil
}

func (ur *userRoutes) getMe(c *gin.Context) (interface{}, *util.HTTPError) {
	user := middleware.GetUserMaybe(c)
	if user == nil {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "no profile yet",
		}
	}
	return user, nil
}
