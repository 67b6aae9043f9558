package app

import (
	"quiz_platform_backend/docs"
	"quiz_platform_backend/internal/config"
	"quiz_platform_backend/internal/middleware"
	"quiz_platform_backend/internal/model"
	"quiz_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的用户路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// quiz 浏览
		authGroup.GET("/user/quizzes", c.quiz.ListQuizzes)
		authGroup.GET("/user/quizzes/:id", c.quiz.GetQuiz)
		authGroup.GET("/user/quizzes/:id/questions", c.quiz.GetQuizQuestions)

		// 作答状态机
		authGroup.POST("/user/quizzes/:id/attempt", c.attempt.StartAttempt)
		authGroup.GET("/user/quizzes/:id/attempt", c.attempt.GetAttemptHistory)
		authGroup.GET("/user/quizzes/:id/attempt/active", c.attempt.GetActiveAttempt)
		authGroup.POST("/user/quizzes/:id/attempt/:attemptId/answer", c.attempt.RecordAnswer)
		authGroup.PUT("/user/quizzes/:id/attempt/:attemptId/progress", c.attempt.SaveProgress)
		authGroup.POST("/user/quizzes/:id/attempt/:attemptId/complete", c.attempt.CompleteAttempt)

		// 用户总览
		authGroup.GET("/user/dashboard/stats", c.dashboard.GetUserStats)
		authGroup.GET("/user/attempts/recent", c.dashboard.GetRecentAttempts)
	}

	// 3. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes", c.quiz.ListQuizzes)
		admin.GET("/quizzes/:id", c.quiz.GetQuizDetail)
		admin.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		admin.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)

		admin.POST("/quizzes/:id/questions", c.question.CreateQuestion)
		admin.DELETE("/questions/:id", c.question.DeleteQuestion)

		admin.GET("/dashboard/stats", c.dashboard.GetAdminStats)
		admin.GET("/activity", c.dashboard.GetActivity)

		admin.GET("/users", c.user.ListUsers)
		admin.POST("/users", c.user.CreateUser)
	}
}
