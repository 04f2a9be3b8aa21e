package core

import (
	"net/http"
	"time"

	"github.com/photogur/photogur/api/common"
	handlerAuth "github.com/photogur/photogur/api/handler/auth"
	handlerComments "github.com/photogur/photogur/api/handler/comments"
	handlerPictures "github.com/photogur/photogur/api/handler/pictures"
	"github.com/photogur/photogur/api/middleware"
	"github.com/photogur/photogur/config"
	"github.com/photogur/photogur/database/repo/accounts"
	commentsrepo "github.com/photogur/photogur/database/repo/comments"
	picturesrepo "github.com/photogur/photogur/database/repo/pictures"
	"github.com/photogur/photogur/internal/auth"
	"github.com/photogur/photogur/internal/pictures"
	"github.com/photogur/photogur/session/types"
	"github.com/photogur/photogur/storage"
	"github.com/photogur/photogur/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	AccountsRepo   *accounts.Repository
	PicturesRepo   *picturesrepo.Repository
	CommentsRepo   *commentsrepo.Repository
	SessionStore   types.Store
	StorageFactory *storage.Factory
	LoginService   *auth.LoginService
	PictureService *pictures.Service
}

// 启动gin
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := config.Get()
	router := gin.New()

	// 全局中间件
	// 仅在开发版本时启用 gin 日志
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 限制上传文件大小
	router.MaxMultipartMemory = int64(cfg.UploadMaxSizeMB) << 20

	// 并发限制，避免内存过载
	concurrencyLimiter := middleware.NewConcurrencyLimiter(100)
	router.Use(concurrencyLimiter.Middleware())

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 基础监控指标
	router.Use(middleware.Metrics())

	// 会话解析
	router.Use(middleware.Sessions(deps.LoginService, cfg.SessionCookieName))

	// 页面模板
	router.SetHTMLTemplate(web.Templates())

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	pageRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitPageRPS, cfg.RateLimitPageBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		pageRateLimiter.StopCleanup()
	}

	registerRoutes(router, deps, authRateLimiter, pageRateLimiter)

	return router, cleanup
}

// registerRoutes 注册所有路由
func registerRoutes(router *gin.Engine, deps *ServerDependencies, authRateLimiter, pageRateLimiter *middleware.IPRateLimiter) {
	// 创建处理器（依赖注入）
	pictureHandler := handlerPictures.NewHandler(deps.PicturesRepo, deps.CommentsRepo, deps.PictureService, deps.StorageFactory)
	commentHandler := handlerComments.NewHandler(deps.CommentsRepo)
	authHandler := handlerAuth.NewHandler(deps.LoginService, config.Get())

	// 基础路由
	router.GET("/health", healthHandler(deps))
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.GetMetrics())
	})

	// 公开页面
	router.GET("/", func(c *gin.Context) {
		common.Redirect(c, "/pictures")
	})
	router.GET("/pictures", pictureHandler.ListPictures)         // GET /pictures
	router.GET("/pictures/:id", pictureHandler.ShowPicture)      // GET /pictures/{id}
	router.GET("/search", pictureHandler.SearchPictures)         // GET /search?query=
	router.POST("/comments/new", commentHandler.CreateComment)   // POST /comments/new

	// 图片文件访问
	imagesGroup := router.Group("/images")
	imagesGroup.Use(pageRateLimiter.Middleware())
	{
		imagesGroup.GET("/:identifier", pictureHandler.GetPictureFile) // GET /images/{identifier}
	}

	// 认证页面，登录后不再展示
	router.GET("/login", middleware.RequireGuest(), authHandler.LoginForm)
	router.POST("/login", middleware.RequireGuest(), authRateLimiter.Middleware(), authHandler.Login)
	router.GET("/signup", middleware.RequireGuest(), authHandler.SignupForm)
	router.POST("/signup", middleware.RequireGuest(), authRateLimiter.Middleware(), authHandler.Signup)

	// 注销对 GET 和 POST 一视同仁
	router.GET("/logout", authHandler.Logout)
	router.POST("/logout", authHandler.Logout)

	// 登录保护页面
	authorized := router.Group("/")
	authorized.Use(middleware.RequireAuth())
	{
		authorized.GET("/add", pictureHandler.AddPictureForm)
		authorized.POST("/add", pictureHandler.AddPicture)
		authorized.GET("/edit/:id", pictureHandler.EditPictureForm)
		authorized.POST("/edit/:id", pictureHandler.EditPicture)
	}

	// 未匹配的路径渲染错误页
	router.NoRoute(func(c *gin.Context) {
		common.RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
	})
}
