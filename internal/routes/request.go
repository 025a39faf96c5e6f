package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runRequestRouter(secureGroup *echo.Group, requestCtrl *controllers.RequestController) {
	{
		secureGroup.GET("/requests", requestCtrl.GetRequests)
		secureGroup.POST("/requests", requestCtrl.CreateRequest)
		secureGroup.GET("/requests/:id", requestCtrl.FindRequest)
		secureGroup.POST("/requests/:id/assign", requestCtrl.AssignRequest)
		secureGroup.PATCH("/requests/:id/status", requestCtrl.UpdateRequestStatus)
		secureGroup.POST("/requests/:id/complete", requestCtrl.CompleteRequest)
		secureGroup.POST("/requests/:id/scrap", requestCtrl.ScrapRequest)
		secureGroup.GET("/requests/:id/history", requestCtrl.GetRequestHistory)
	}
}
