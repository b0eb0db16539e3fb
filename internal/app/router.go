package app

import (
	"lingua_edu_backend/docs"
	"lingua_edu_backend/internal/middleware"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
	router.GET("/health", c.health.HealthCheck)
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)
	group.GET("/profile", c.user.Profile)
	group.PUT("/profile", c.user.UpdateProfile)

	group.GET("/courses", c.course.List)
	group.GET("/courses/:id", c.course.Get)
	group.GET("/courses/:id/lessons", c.lesson.ListByCourse)
	group.POST("/courses/:id/enroll", c.course.Enroll)
	group.GET("/my/courses", c.course.MyCourses)

	group.GET("/lessons/:id", c.lesson.Get)
	group.POST("/lessons/:id/complete", c.lesson.Complete)

	group.GET("/words", c.word.List)
	group.GET("/words/:id", c.word.Get)

	// Timed test attempts
	group.POST("/lessons/:id/attempt", c.userTest.StartAttempt)
	group.GET("/attempts/:id", c.userTest.GetAttempt)
	group.PUT("/attempts/:id", c.userTest.UpdateAttempt)
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/users", c.user.List)
		admin.GET("/users/:id", c.user.Show)

		admin.POST("/courses", c.course.Create)
		admin.PUT("/courses/:id", c.course.Update)
		admin.DELETE("/courses/:id", c.course.Delete)
		admin.PUT("/courses/:id/enrolment", c.course.SetEnrolmentStatus)
		admin.POST("/courses/:id/cover", c.course.UploadCover)

		admin.GET("/lessons", c.lesson.List)
		admin.POST("/lessons", c.lesson.Create)
		admin.PUT("/lessons/:id", c.lesson.Update)
		admin.DELETE("/lessons/:id", c.lesson.Delete)

		admin.POST("/components", c.lesson.AddComponent)
		admin.DELETE("/components/:id", c.lesson.RemoveComponent)

		admin.POST("/words", c.word.Create)
		admin.PUT("/words/:id", c.word.Update)
		admin.DELETE("/words/:id", c.word.Delete)
		admin.POST("/words/:id/pronunciation", c.word.UploadPronunciation)

		admin.GET("/tests", c.test.List)
		admin.GET("/tests/:id", c.test.Get)
		admin.POST("/tests", c.test.Create)
		admin.PUT("/tests/:id", c.test.Update)
		admin.DELETE("/tests/:id", c.test.Delete)
		admin.POST("/tests/:id/cover", c.test.UploadCover)
	}
}
