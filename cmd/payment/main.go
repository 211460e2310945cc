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
	"github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/reservationapi"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/logger"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/metrics"
)

func main() {
	// .env が無ければ環境変数をそのまま使う
	_ = godotenv.Load()

	cfg := config.LoadPayment()

	log := logger.Init(os.Getenv("APP_ENV"), "payment")
	defer logger.Sync()

	// DB接続とマイグレーション
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, "migrations/payment"); err != nil {
		log.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	m := metrics.Init()

	// リポジトリとサービス
	paymentRepo := postgres.NewPaymentRepository(db)
	verifier := reservationapi.NewClient(&cfg.Reservation, m)

	paymentService := application.NewPaymentService(paymentRepo, verifier, m)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	healthHandler := handler.NewHealthHandler("payment")

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	// 決済処理はスタッフ全員。参照系は認証不要
	e.POST("/payment/process", paymentHandler.Process,
		apimiddleware.StaffAuth("OWNER", "MANAGER", "RECEPTIONIST"))
	e.GET("/payment/:id", paymentHandler.GetByID)
	e.GET("/payments", paymentHandler.List)

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
