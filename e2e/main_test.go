package e2e

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/sudhanshukawade1/Hotel-management/internal/api"
	"github.com/sudhanshukawade1/Hotel-management/internal/api/handler"
	"github.com/sudhanshukawade1/Hotel-management/internal/api/middleware"
	"github.com/sudhanshukawade1/Hotel-management/internal/application"
	"github.com/sudhanshukawade1/Hotel-management/internal/config"
	"github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/postgres"
	"github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/reservationapi"
)

var (
	reservationServer *TestServer
	paymentServer     *TestServer
	reservationDB     *sqlx.DB
	paymentDB         *sqlx.DB
	reservationHTTP   *httptest.Server
)

// TestMain はE2Eテストのエントリポイント
// 予約サービスと決済サービスを両方組み立て、決済側のクライアントは
// httptest 経由で予約側の実サーバーを呼ぶ
func TestMain(m *testing.M) {
	resCfg := config.LoadReservation()

	db, err := postgres.NewConnection(&resCfg.Database)
	if err != nil {
		os.Exit(0) // DB未起動時はスキップ
	}
	reservationDB = db

	if err := postgres.RunMigrations(db.DB, "../migrations/reservation"); err != nil {
		db.Close()
		os.Exit(0)
	}

	reservationServer = newReservationServer(db)
	reservationHTTP = httptest.NewServer(reservationServer.Echo)

	payCfg := config.LoadPayment()
	pdb, err := postgres.NewConnection(&payCfg.Database)
	if err != nil {
		reservationHTTP.Close()
		db.Close()
		os.Exit(0)
	}
	paymentDB = pdb

	if err := postgres.RunMigrations(pdb.DB, "../migrations/payment"); err != nil {
		reservationHTTP.Close()
		pdb.Close()
		db.Close()
		os.Exit(0)
	}

	paymentServer = newPaymentServer(pdb, reservationHTTP.URL)

	code := m.Run()

	cleanupTables()
	reservationHTTP.Close()
	pdb.Close()
	db.Close()

	os.Exit(code)
}

func newReservationServer(db *sqlx.DB) *TestServer {
	roomRepo := postgres.NewRoomRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	txManager := postgres.NewTxManager(db)

	roomService := application.NewRoomService(roomRepo, reservationRepo, nil)
	reservationService := application.NewReservationService(txManager, reservationRepo, roomRepo, nil, nil)

	roomHandler := handler.NewRoomHandler(roomService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	healthHandler := handler.NewHealthHandler("reservation")

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)

	e.GET("/health", healthHandler.Check)

	public := e.Group("/public")
	public.GET("/rooms", roomHandler.List)
	public.GET("/rooms/available", reservationHandler.FindAvailable)
	public.GET("/rooms/:id", roomHandler.GetByID)

	owner := e.Group("/owner", middleware.StaffAuth("OWNER"))
	owner.POST("/rooms", roomHandler.Create)
	owner.PUT("/rooms/:id", roomHandler.Update)
	owner.DELETE("/rooms/:id", roomHandler.Delete)

	staff := e.Group("", middleware.StaffAuth("OWNER", "MANAGER", "RECEPTIONIST"))
	staff.POST("/reservation/book", reservationHandler.Book)
	staff.GET("/reservation/details/:id", reservationHandler.GetDetails)
	staff.GET("/reservation/:id", reservationHandler.GetByID)
	staff.PUT("/reservation/:id", reservationHandler.Update)
	staff.DELETE("/reservation/:id", reservationHandler.Cancel)
	staff.GET("/reservations", reservationHandler.List)

	return &TestServer{Echo: e}
}

func newPaymentServer(db *sqlx.DB, reservationURL string) *TestServer {
	paymentRepo := postgres.NewPaymentRepository(db)
	verifier := reservationapi.NewClient(&config.ReservationAPIConfig{
		BaseURL: reservationURL,
		Timeout: 5 * time.Second,
	}, nil)
	paymentService := application.NewPaymentService(paymentRepo, verifier, nil)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	healthHandler := handler.NewHealthHandler("payment")

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)

	e.GET("/health", healthHandler.Check)
	e.POST("/payment/process", paymentHandler.Process,
		middleware.StaffAuth("OWNER", "MANAGER", "RECEPTIONIST"))
	e.GET("/payment/:id", paymentHandler.GetByID)
	e.GET("/payments", paymentHandler.List)

	return &TestServer{Echo: e}
}

// cleanupTables はテーブルをクリーンアップ
func cleanupTables() {
	reservationDB.Exec("TRUNCATE TABLE reservations, rooms RESTART IDENTITY CASCADE")
	paymentDB.Exec("TRUNCATE TABLE payments RESTART IDENTITY")
}

// getTestServers は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServers(t *testing.T) (*TestServer, *TestServer) {
	t.Helper()
	if reservationServer == nil || paymentServer == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return reservationServer, paymentServer
}
