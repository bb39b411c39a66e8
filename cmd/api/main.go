package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-stay-booking/internal/api"
	"github.com/sanosuguru/go-stay-booking/internal/api/handler"
	custommiddleware "github.com/sanosuguru/go-stay-booking/internal/api/middleware"
	"github.com/sanosuguru/go-stay-booking/internal/application"
	"github.com/sanosuguru/go-stay-booking/internal/config"
	"github.com/sanosuguru/go-stay-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-stay-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-stay-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-stay-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-stay-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	defer logger.Sync()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis接続（任意: 分散ロックと空き状況キャッシュに使う）
	var (
		lockManager *redisinfra.LockManager
		availCache  *redisinfra.AvailabilityCache
	)
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		// Redisなしでも稼働できる。二重予約防止はDBの排他制約が保証する
		logger.Warn("Redis接続に失敗したためロックとキャッシュを無効化", zap.Error(err))
	} else {
		defer redisClient.Close()
		lockManager = redisinfra.NewLockManager(redisClient)
		availCache = redisinfra.NewAvailabilityCache(redisClient)
	}

	// メトリクス
	m := metrics.Init()

	// リポジトリとサービス
	txManager := postgres.NewTxManager(db)
	reservationRepo := postgres.NewReservationRepository(db)
	propertyRepo := postgres.NewPropertyRepository(db)
	userRepo := postgres.NewUserRepository(db)

	reservationService := application.NewReservationService(
		txManager, reservationRepo, propertyRepo, userRepo,
		lockManager, availCache, m,
	)
	propertyService := application.NewPropertyService(propertyRepo, userRepo)
	userService := application.NewUserService(userRepo)

	// 滞在完了ワーカー
	completionWorker := worker.NewStayCompletionWorker(reservationService, cfg.Worker.CompletionInterval)
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go completionWorker.Start(workerCtx)

	// Echoサーバー
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	userHandler := handler.NewUserHandler(userService)
	propertyHandler := handler.NewPropertyHandler(propertyService, reservationService)
	reservationHandler := handler.NewReservationHandler(reservationService)

	// ルーティング
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	v1 := e.Group("/api/v1")

	v1.POST("/users", userHandler.Register)
	v1.GET("/users/:id", userHandler.GetByID)

	v1.POST("/properties", propertyHandler.Create)
	v1.GET("/properties", propertyHandler.List)
	v1.GET("/properties/:id", propertyHandler.GetByID)
	v1.PUT("/properties/:id", propertyHandler.Update)
	v1.DELETE("/properties/:id", propertyHandler.Deactivate)
	v1.GET("/properties/:id/availability", propertyHandler.CheckAvailability)
	v1.GET("/properties/:id/reservations", propertyHandler.ListReservations)

	v1.POST("/reservations", reservationHandler.Create)
	v1.GET("/reservations", reservationHandler.ListMine)
	v1.GET("/reservations/:id", reservationHandler.GetByID)
	v1.POST("/reservations/:id/confirm", reservationHandler.Confirm)
	v1.POST("/reservations/:id/cancel", reservationHandler.Cancel)

	// サーバー起動
	go func() {
		addr := ":" + cfg.Server.Port
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	// ワーカー停止
	cancelWorker()
	completionWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
