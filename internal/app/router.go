package app

import (
	"english_admin/docs"
	"english_admin/internal/middleware"
	"english_admin/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	router.POST("/console/login", middleware.GuestOnly(a.Store), c.auth.Login)

	// 2. 需要登录的控制台接口
	console := router.Group("/console")
	console.Use(middleware.AuthMiddleware(a.Store))
	{
		console.POST("/logout", c.auth.Logout)
		console.GET("/me", c.auth.Me)
		console.GET("/dashboard", c.dashboard.GetDashboard)

		a.registerScreenRoutes(console, c)
		a.registerNavigationRoutes(console, c)
		a.registerContentRoutes(console, c)
		a.registerAssessmentRoutes(console, c)
	}
}

func (a *App) registerScreenRoutes(rg *gin.RouterGroup, c *controllers) {
	screens := rg.Group("/screens/:screen")
	{
		screens.GET("", c.screen.List)
		screens.GET("/form", c.screen.Form)
		screens.POST("/form/change", c.screen.Change)
		screens.POST("", c.screen.Create)
		screens.PUT("/:id", c.screen.Update)
		screens.DELETE("/:id", c.screen.Delete)
	}

	rg.GET("/users", c.user.GetUsers)
	rg.GET("/users/:id", c.user.GetUser)

	rg.GET("/exams/:id/sessions", c.session.ByExam)
	rg.GET("/sessions/:id/answers", c.session.Answers)
	rg.GET("/sessions/:id/report.pdf", c.session.Report)
	rg.DELETE("/sessions/:id", c.session.Delete)
}

func (a *App) registerNavigationRoutes(rg *gin.RouterGroup, c *controllers) {
	nav := rg.Group("/nav/:tree")
	{
		nav.GET("", c.navigation.Frames)
		nav.POST("/open", c.navigation.Open)
		nav.DELETE("/:depth", c.navigation.Close)
		nav.GET("/:depth/:child/form", c.navigation.ChildForm)
		nav.POST("/:depth/:child/form/change", c.navigation.ChildChange)
		nav.POST("/:depth/:child", c.navigation.CreateChild)
		nav.PUT("/:depth/:child/:id", c.navigation.UpdateChild)
		nav.DELETE("/:depth/:child/:id", c.navigation.DeleteChild)
	}
}

func (a *App) registerContentRoutes(rg *gin.RouterGroup, c *controllers) {
	content := rg.Group("/games/:id/content")
	{
		content.GET("", c.content.List)
		content.GET("/form", c.content.Form)
		content.POST("/form/change", c.content.Change)
		content.POST("/preview", c.content.Preview)
		content.POST("", c.content.Create)
		content.PUT("/:itemId", c.content.Update)
		content.DELETE("/:itemId", c.content.Delete)
	}
}

func (a *App) registerAssessmentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/assessments/users/:userId", c.assessment.ByUser)
	rg.GET("/assessments/templates", c.assessment.Templates)
	rg.POST("/assessments/templates/:name", c.assessment.ApplyTemplate)
	rg.POST("/media/audio", c.assessment.UploadAudio)
}
