package servehttp

import (
	"net/http"

	"docuflow/misc"
	"docuflow/notification"
	"docuflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterNotificationHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/notifications", middleWares...)

	g.GET("my", handleQueryMyNotifications)
	g.PUT(":notificationId/read", handleMarkNotificationRead)
}

func handleQueryMyNotifications(c *gin.Context) {
	records, err := notification.QueryMyNotificationsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, records)
}

func handleMarkNotificationRead(c *gin.Context) {
	id, err := types.ParseID(c.Param("notificationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, &misc.ErrorBody{Code: "common.bad_param", Message: "invalid id '" + c.Param("notificationId") + "'"})
		return
	}

	if err := notification.MarkNotificationReadFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}
