package servehttp

import (
	"net/http"

	"docuflow/activity"
	"docuflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterActivityHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/activities", middleWares...)

	g.GET("", handleQueryActivities)
}

func handleQueryActivities(c *gin.Context) {
	query := activity.ActivityQuery{}
	_ = c.MustBindWith(&query, binding.Query)

	records, err := activity.QueryActivitiesFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, records)
}
