package app

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/config"
	"english_admin/internal/controller"
	"english_admin/internal/service"
	"english_admin/internal/session"
	"english_admin/pkg/configwatcher"
	"english_admin/pkg/database"
	"english_admin/pkg/logger"
	"english_admin/pkg/monitoring"
	"english_admin/pkg/security"
	"english_admin/pkg/tracing"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigPath      string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Client          *api.Client
	Store           *session.Store
	services        *services
	shutdownHooks   []func(context.Context) error
	configCallbacks []func(*config.Config)
}

type services struct {
	auth       *service.AuthService
	screens    *service.ScreenService
	navigation *service.NavigationService
	content    *service.ContentService
	assessment *service.AssessmentService
	session    *service.SessionService
	dashboard  *service.DashboardService
	storage    *service.StorageService
	user       *service.UserService
}

type controllers struct {
	auth       *controller.AuthController
	dashboard  *controller.DashboardController
	screen     *controller.ScreenController
	navigation *controller.NavigationController
	content    *controller.ContentController
	assessment *controller.AssessmentController
	session    *controller.SessionController
	user       *controller.UserController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initServices(cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(a.Store)
	s.screens = service.NewScreenService(a.Client)
	s.navigation = service.NewNavigationService(a.Client)
	s.content = service.NewContentService(a.Client)
	s.assessment = service.NewAssessmentService(a.Client, s.screens)
	s.session = service.NewSessionService(a.Client)
	s.dashboard = service.NewDashboardService(a.Client)
	s.storage = service.NewStorageService(cfg, a.Client)
	s.user = service.NewUserService(a.Client)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		dashboard:  controller.NewDashboardController(s.dashboard, s.auth),
		screen:     controller.NewScreenController(s.screens),
		navigation: controller.NewNavigationController(s.navigation),
		content:    controller.NewContentController(s.content),
		assessment: controller.NewAssessmentController(s.assessment, s.storage),
		session:    controller.NewSessionController(s.session),
		user:       controller.NewUserController(s.user, s.screens),
		health:     controller.NewHealthController(a.DB, a.Redis, a.Store, a.Client),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// openSessionKV 按 session.store 选择登录态的持久化位置
func (a *App) openSessionKV(cfg *config.Config) (session.KV, error) {
	switch cfg.Session.Store {
	case "redis":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.Redis = rdb
		return session.NewRedisKV(rdb, cfg.Session.KeyPrefix), nil
	case "database":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		a.DB = db
		return session.NewDBKV(db, cfg.Session.KeyPrefix), nil
	default:
		return session.NewFileKV(cfg.Session.FilePath)
	}
}

// NewApp 初始化日志、会话存储与上游客户端，失败直接退出
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}
	kv, err := app.openSessionKV(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to open session store", zap.Error(err))
		log.Fatalf("Failed to open session store: %v", err)
	}

	client, err := api.NewClient(cfg.API)
	if err != nil {
		logger.Log.Fatal("Failed to create API client", zap.Error(err))
	}

	if err := app.Assemble(client, kv); err != nil {
		logger.Log.Fatal("Failed to assemble console", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("english-admin-console", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.shutdownHooks = append(app.shutdownHooks, tp.Shutdown)
	}

	if cfg.Storage.Type == "local" {
		router := app.Router
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// Assemble 在已有客户端与 KV 上组装登录态、服务与路由；测试直接调用
func (a *App) Assemble(client *api.Client, kv session.KV) error {
	cfg := a.Config
	a.Client = client
	a.Store = session.NewStore(kv, client)
	client.Bind(a.Store, a.Store.Expire)

	if err := a.Store.Init(context.Background()); err != nil {
		// 恢复失败按未登录处理
		logger.L().Warn("session restore failed", zap.Error(err))
	}

	s := a.initServices(cfg)
	a.services = s

	// 退出登录或 401 后各页面回到初始状态
	a.Store.Subscribe(func(st session.State) {
		if st.Authenticated() {
			return
		}
		s.screens.Reset()
		s.navigation.Reset()
		s.content.Reset()
	})

	a.RegisterConfigCallback(func(next *config.Config) {
		if err := client.Reconfigure(next.API); err != nil {
			logger.L().Error("api reconfigure failed", zap.Error(err))
		}
		logger.ApplyMode(next.Server.Mode)
	})

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	a.Router = router

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, a.initControllers(s))
	return nil
}

// Login 命令行 -login 时在启动前登录
func (a *App) Login(ctx context.Context, email, password string) error {
	_, err := a.services.auth.Login(ctx, service.LoginRequest{Email: email, Password: password})
	return err
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigPath == "" {
		return
	}
	path := filepath.Join(a.ConfigPath, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, path, func(next *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(next)
			}
		})
		if err != nil {
			logger.L().Error("config watcher stopped", zap.Error(err))
		}
	}()
}

func printStartUpBanner(cfg *config.Config) {
	fig := figure.NewFigure("EN ADMIN", "", true)
	fig.Print()

	fmt.Println("======================================================")
	fmt.Printf("English admin console on :%s -> %s\n\n", cfg.Server.Port, cfg.API.BaseURL)
}

func (a *App) Run() {
	printStartUpBanner(a.Config)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	a.watchConfig(ctx)

	// 启动服务器
	go func() {
		logger.L().Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	for _, hook := range a.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			logger.L().Error("shutdown hook failed", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.L().Info("Server exiting")
}
