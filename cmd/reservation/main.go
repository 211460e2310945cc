package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sudhanshukawade1/Hotel-management/internal/api"
	"github.com/sudhanshukawade1/Hotel-management/internal/api/handler"
	apimiddleware "github.com/sudhanshukawade1/Hotel-management/internal/api/middleware"
	"github.com/sudhanshukawade1/Hotel-management/internal/application"
	"github.com/sudhanshukawade1/Hotel-management/internal/config"
	"github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/postgres"
	redisinfra "github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/redis"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/logger"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/metrics"
	"github.com/sudhanshukawade1/Hotel-management/internal/worker"
)

func main() {
	// .env が無ければ環境変数をそのまま使う
	_ = godotenv.Load()

	cfg := config.LoadReservation()

	log := logger.Init(os.Getenv("APP_ENV"), "reservation")
	defer logger.Sync()

	// DB接続とマイグレーション
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, "migrations/reservation"); err != nil {
		log.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis は空室検索キャッシュにのみ使う。未起動でもサービスは動く
	var cache *redisinfra.AvailabilityCache
	redisClient := redisinfra.NewClient(&cfg.Redis)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisinfra.Ping(pingCtx, redisClient); err != nil {
		log.Warn("Redis接続に失敗しました。キャッシュなしで起動します", zap.Error(err))
	} else {
		cache = redisinfra.NewAvailabilityCache(redisClient)
		defer redisClient.Close()
	}
	cancelPing()

	m := metrics.Init()

	// リポジトリとサービス
	roomRepo := postgres.NewRoomRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	txManager := postgres.NewTxManager(db)

	roomService := application.NewRoomService(roomRepo, reservationRepo, cache)
	reservationService := application.NewReservationService(txManager, reservationRepo, roomRepo, cache, m)

	roomHandler := handler.NewRoomHandler(roomService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	healthHandler := handler.NewHealthHandler("reservation")

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	// 認証不要の公開エンドポイント
	public := e.Group("/public")
	public.GET("/rooms", roomHandler.List)
	public.GET("/rooms/available", reservationHandler.FindAvailable)
	public.GET("/rooms/:id", roomHandler.GetByID)

	// 客室管理はオーナーのみ
	owner := e.Group("/owner", apimiddleware.StaffAuth("OWNER"))
	owner.POST("/rooms", roomHandler.Create)
	owner.PUT("/rooms/:id", roomHandler.Update)
	owner.DELETE("/rooms/:id", roomHandler.Delete)

	// 予約操作はスタッフ全員
	staff := e.Group("", apimiddleware.StaffAuth("OWNER", "MANAGER", "RECEPTIONIST"))
	staff.POST("/reservation/book", reservationHandler.Book)
	staff.GET("/reservation/details/:id", reservationHandler.GetDetails)
	staff.GET("/reservation/:id", reservationHandler.GetByID)
	staff.PUT("/reservation/:id", reservationHandler.Update)
	staff.DELETE("/reservation/:id", reservationHandler.Cancel)
	staff.GET("/reservations", reservationHandler.List)

	// 空室フラグ補正ワーカー
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	reconciler := worker.NewAvailabilityReconciler(reservationService, reconcileInterval())
	go reconciler.Start(workerCtx)

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています...")

	cancelWorker()
	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}

func reconcileInterval() time.Duration {
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 5 * time.Minute
}
