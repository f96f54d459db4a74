package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/pbit-mentor/api/handlers"
	"github.com/feichai0017/pbit-mentor/api/middleware"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	submissions := v1.Group("/submissions")
	{
		submissions.POST("", h.Submission.SubmitSubmission)
		submissions.POST("/analyze", h.Submission.AnalyzeTemplate)
		submissions.GET("/status/:taskId", h.Submission.GetStatus)
		submissions.DELETE("/:taskId", h.Submission.CancelTask)
	}
}
