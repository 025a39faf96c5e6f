package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runTeamRouter(secureGroup *echo.Group, teamCtrl *controllers.TeamController) {
	{
		secureGroup.GET("/teams", teamCtrl.GetTeams)
		secureGroup.POST("/teams", teamCtrl.CreateTeam)
		secureGroup.GET("/teams/:id", teamCtrl.FindTeam)
		secureGroup.PUT("/teams/:id", teamCtrl.UpdateTeam)
		secureGroup.DELETE("/teams/:id", teamCtrl.DeleteTeam)
	}
}
