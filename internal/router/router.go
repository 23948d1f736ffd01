package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-records/internal/handler"
	"github.com/noah-isme/campus-records/internal/middleware"
	"github.com/noah-isme/campus-records/pkg/config"
	"github.com/noah-isme/campus-records/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-records/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-records/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Students    *handler.StudentHandler
	Courses     *handler.CourseHandler
	Enrollments *handler.EnrollmentHandler
	Reports     *handler.ReportHandler
	Data        *handler.DataHandler
	Metrics     *handler.MetricsHandler
}

// Setup builds the gin engine with the global middleware chain and all routes.
func Setup(cfg *config.Config, h Handlers, observer middleware.RequestObserver, logr *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(observer))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	{
		students := api.Group("/students")
		{
			students.GET("", h.Students.List)
			students.POST("", h.Students.Create)
			students.GET("/regnos", h.Students.RegNos)
			students.GET("/:id", h.Students.Get)
			students.PUT("/:id", h.Students.Update)
			students.DELETE("/:id", h.Students.Delete)
			students.GET("/:id/enrollments", h.Students.Enrollments)
			students.DELETE("/:id/enrollments/:code", h.Enrollments.Drop)
			students.PUT("/:id/enrollments/:code/grade", h.Enrollments.RecordGrade)
			students.GET("/:id/gpa", h.Reports.GPA)
			students.GET("/:id/transcript", h.Reports.Transcript)
		}

		courses := api.Group("/courses")
		{
			courses.GET("", h.Courses.List)
			courses.POST("", h.Courses.Create)
			courses.GET("/:code", h.Courses.Get)
			courses.PUT("/:code", h.Courses.Update)
			courses.DELETE("/:code", h.Courses.Delete)
		}

		api.POST("/enrollments", h.Enrollments.Enroll)
		api.GET("/reports/credit-distribution", h.Reports.CreditDistribution)
		api.GET("/metrics/summary", h.Metrics.Summary)

		api.POST("/exports/students", h.Data.ExportStudents)
		api.POST("/exports/courses", h.Data.ExportCourses)
		api.POST("/exports/roster", h.Data.ExportRoster)
		api.POST("/imports/students", h.Data.ImportStudents)
		api.POST("/backups", h.Data.CreateBackup)
		api.GET("/backups/tree", h.Data.BackupTree)
	}

	return r
}
