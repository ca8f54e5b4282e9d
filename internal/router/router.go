package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vikrambadhan/HGNRest/internal/metrics"
	teamrest "github.com/vikrambadhan/HGNRest/internal/team/rest"
	userprofilerest "github.com/vikrambadhan/HGNRest/internal/userprofile/rest"
	wbsrest "github.com/vikrambadhan/HGNRest/internal/wbs/rest"
)

func New(
	teamHandler *teamrest.TeamHandler,
	profileHandler *userprofilerest.UserProfileHandler,
	wbsHandler *wbsrest.WBSHandler,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(metrics.GinMiddleware)

	engine.GET("/metrics", metrics.Handler())

	api := engine.Group("/api")

	// team
	api.GET("/team", teamHandler.ListTeams)
	api.POST("/team", teamHandler.CreateTeam)
	api.PATCH("/team/visibility", teamHandler.UpdateTeamVisibility)
	api.GET("/team/:teamId", teamHandler.GetTeam)
	api.PUT("/team/:teamId", teamHandler.UpdateTeam)
	api.DELETE("/team/:teamId", teamHandler.DeleteTeam)
	api.POST("/team/:teamId/members", teamHandler.AssignOrUnassignMember)
	api.GET("/team/:teamId/members", teamHandler.GetTeamMembership)

	// user profiles
	api.GET("/userProfile", profileHandler.GetUserProfiles)
	api.GET("/userProfile/:userId", profileHandler.GetUserProfile)
	api.PUT("/userProfile/:userId", profileHandler.UpdateUserProfile)
	api.GET("/userProfile/teammembers/:userId", profileHandler.GetTeamMembersOfUser)

	// wbs
	api.GET("/wbs/:projectId", wbsHandler.GetAllWBS)
	api.POST("/wbs/:projectId", wbsHandler.CreateWBS)
	api.DELETE("/wbs/:id", wbsHandler.DeleteWBS)

	return engine
}
