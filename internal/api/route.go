package api

import (
	"Nexus/internal/api/middleware"
	"Nexus/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		imGroup := apiGroup.Group("/im")
		{
			// WS 握手自带 token，不走 Header 鉴权
			imGroup.GET("", group.WsHandler.Connect)

			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/send", group.MessageHandler.SendMessage)
				authGroup.GET("/history", group.MessageHandler.GetChatHistory)
				authGroup.GET("/list", group.MessageHandler.GetConversationList)
				authGroup.GET("/unread", group.MessageHandler.GetUnreadTotal)
				authGroup.GET("/message/:id", group.MessageHandler.GetMessage)
				authGroup.PUT("/message/:id", group.MessageHandler.EditMessage)
				authGroup.DELETE("/message/:id", group.MessageHandler.DeleteMessage)
				authGroup.POST("/message/:id/reactions", group.MessageHandler.AddReaction)
				authGroup.DELETE("/message/:id/reactions", group.MessageHandler.RemoveReaction)
				authGroup.POST("/read", group.MessageHandler.MarkAsRead)
				authGroup.POST("/read/conversation", group.MessageHandler.MarkConversationRead)
			}
		}

		notifyGroup := apiGroup.Group("/notify")
		{
			notifyGroup.Use(middleware.AuthMiddleware())
			{
				notifyGroup.GET("/list", group.NotificationHandler.GetNotificationList)
				notifyGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
				notifyGroup.GET("/:id", group.NotificationHandler.GetNotification)
				notifyGroup.POST("/read", group.NotificationHandler.MarkAsRead)
				notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllAsRead)
				notifyGroup.POST("/archive", group.NotificationHandler.Archive)
				notifyGroup.DELETE("/:id", group.NotificationHandler.DeleteNotification)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := notifyGroup.Group("")
			adminGroup.Use(middleware.CheckRoles("ADMIN"))
			{
				adminGroup.POST("", group.NotificationHandler.CreateNotification)
			}
		}
	}

	return r
}
