package app

import (
	"mlda_backend/docs"
	"mlda_backend/internal/config"
	"mlda_backend/internal/middleware"
	"mlda_backend/internal/model"
	"mlda_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理后台
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	courses := group.Group("/courses/:courseId")
	{
		courses.POST("/enroll", c.progress.Enroll)
		courses.GET("/progress", c.progress.GetCourseProgress)
	}

	group.POST("/lessons/:lessonId/progress", c.progress.RecordLessonProgress)

	quizzes := group.Group("/quizzes/:quizId")
	{
		quizzes.POST("/attempts", c.quiz.SubmitAttempt)
		quizzes.GET("/attempts", c.quiz.ListAttempts)
	}

	achievements := group.Group("/achievements")
	{
		achievements.GET("", c.achievement.GetUserAchievements)
		achievements.GET("/leaderboard", c.achievement.GetLeaderboard)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		// 手动发放成就：管理员和老师
		admin.POST("/users/:userId/achievements", middleware.RoleMiddleware(model.Teacher), c.achievement.AwardAchievement)

		// 成就目录维护：仅管理员
		admin.POST("/achievements", middleware.RoleMiddleware(model.Admin), c.achievement.CreateAchievement)
	}
}
