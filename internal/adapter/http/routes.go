package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/handlers"
	"github.com/yone-k/yone-discord-bot-sub002/internal/adapter/http/middleware"
)

func RegisterRoutes(r *gin.Engine, healthHandler *handlers.HealthHandler, taskHandler *handlers.TaskHandler) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)
		api.GET("/channels/:channelId/tasks", taskHandler.ListTasks)
		api.POST("/channels/:channelId/tasks", taskHandler.CreateTask)
		api.PATCH("/channels/:channelId/tasks/:taskId", taskHandler.UpdateTask)
		api.DELETE("/channels/:channelId/tasks/:taskId", taskHandler.DeleteTask)
		api.POST("/channels/:channelId/tasks/complete", taskHandler.CompleteTask)
	}
}
