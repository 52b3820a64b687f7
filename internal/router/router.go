package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonmw "github.com/OrangesCloud/wealist-advanced-go-pkg/middleware"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/config"
	"github.com/atanasster/pad-champions/internal/handler"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/middleware"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

// Config holds router configuration
type Config struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Logger   *zap.Logger
	Tokens   *util.TokenManager
	Metrics  *metrics.Metrics
	Blobs    client.BlobStore
	Broker   client.LiveBroker
	GenAI    client.GenAIClient
	BasePath string

	Resources   config.ResourcesConfig
	GenAIConfig config.GenAIConfig
	CORSOrigins string
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(commonmw.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis, cfg.GenAI)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)

	// Initialize repositories
	postRepo := repository.NewPostRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	resourceRepo := repository.NewResourceRepository(cfg.DB)
	eventRepo := repository.NewEventRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)
	notificationRepo := repository.NewNotificationRepository(cfg.DB)

	// Initialize services
	live := service.NewLivePublisher(cfg.Broker, cfg.Logger)
	notificationService := service.NewNotificationService(notificationRepo, cfg.Redis, cfg.Metrics, cfg.Logger)
	forumService := service.NewForumService(postRepo, commentRepo, userRepo, notificationService, live, cfg.Metrics, cfg.Logger)
	resourceService := service.NewResourceService(resourceRepo, cfg.Blobs, live, cfg.Resources.MaxUploadBytes, cfg.Metrics, cfg.Logger)
	eventService := service.NewEventService(eventRepo, cfg.Logger)
	userService := service.NewUserService(userRepo, cfg.Blobs, cfg.Tokens, cfg.Resources.MaxUploadBytes, cfg.Logger)
	screeningService := service.NewScreeningService(cfg.GenAI, cfg.GenAIConfig, cfg.Metrics, cfg.Logger)

	// Initialize handlers
	forumHandler := handler.NewForumHandler(forumService)
	resourceHandler := handler.NewResourceHandler(resourceService, cfg.Resources.MaxUploadBytes)
	eventHandler := handler.NewEventHandler(eventService)
	userHandler := handler.NewUserHandler(userService, cfg.Resources.MaxUploadBytes)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	screeningHandler := handler.NewScreeningHandler(screeningService, cfg.GenAIConfig.MaxFileBytes, cfg.Logger)
	liveHandler := handler.NewLiveHandler(cfg.Broker, cfg.Metrics, cfg.Logger)

	api := r.Group(cfg.BasePath)

	// ============================================================
	// Public routes
	// ============================================================
	api.GET("/events", eventHandler.ListEvents)
	api.POST("/screening/analyze", screeningHandler.Analyze)

	// ============================================================
	// Authenticated routes
	// ============================================================
	auth := api.Group("")
	auth.Use(middleware.Auth(cfg.Tokens, userService, cfg.Logger))
	{
		forum := auth.Group("/forum/posts")
		{
			forum.GET("", forumHandler.ListPosts)
			forum.POST("", forumHandler.CreatePost)
			forum.GET("/:postId", forumHandler.GetThread)
			forum.DELETE("/:postId", forumHandler.DeletePost)
			forum.POST("/:postId/replies", forumHandler.CreateReply)
			forum.DELETE("/:postId/replies/:replyId", forumHandler.DeleteReply)
		}

		resources := auth.Group("/resources")
		{
			resources.GET("", resourceHandler.ListChildren)
			resources.POST("/folders", resourceHandler.CreateFolder)
			resources.POST("/files", resourceHandler.UploadFile)
			resources.GET("/:id", resourceHandler.GetItem)
			resources.PATCH("/:id", resourceHandler.Rename)
			resources.DELETE("/:id", resourceHandler.Delete)
			resources.GET("/:id/breadcrumb", resourceHandler.Breadcrumb)
			resources.GET("/:id/download", resourceHandler.DownloadURL)
		}

		events := auth.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.POST("/seed", eventHandler.SeedEvents)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
		}

		users := auth.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateMe)
			users.POST("/me/photo", userHandler.UploadPhoto)
			users.POST("/me/token", userHandler.RefreshToken)
			users.PUT("/:uid/role", userHandler.SetRole)
			users.PUT("/:uid/advisory-board", userHandler.SetAdvisoryBoard)
		}
		auth.GET("/advisory-board", userHandler.ListAdvisoryBoard)

		notifications := auth.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		auth.GET("/live", liveHandler.Subscribe)
	}

	return r
}
