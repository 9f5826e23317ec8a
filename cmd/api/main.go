package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/loopwork/insights-backend-go/internal/config"
	appHTTP "github.com/loopwork/insights-backend-go/internal/handler/http"
	"github.com/loopwork/insights-backend-go/internal/pkg/cron"
	"github.com/loopwork/insights-backend-go/internal/pkg/database"
	"github.com/loopwork/insights-backend-go/internal/pkg/jwt"
	"github.com/loopwork/insights-backend-go/internal/repository/postgresql"
	attendanceService "github.com/loopwork/insights-backend-go/internal/service/attendance"
	dealService "github.com/loopwork/insights-backend-go/internal/service/deal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	defaultZone, err := time.LoadLocation(cfg.Attendance.DefaultTimezone)
	if err != nil {
		log.Fatal("Invalid ATTENDANCE_DEFAULT_TIMEZONE: ", err)
	}

	rescoreStaleAfter, err := time.ParseDuration(cfg.Deal.RescoreStaleAfter)
	if err != nil {
		log.Fatal("Invalid DEAL_RESCORE_STALE_AFTER: ", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceDayRepo := postgresql.NewAttendanceDayRepository(db)
	badgeEventRepo := postgresql.NewBadgeEventRepository(db)
	doorRepo := postgresql.NewDoorRepository(db)
	offerRepo := postgresql.NewOfferRepository(db)
	priceHistoryRepo := postgresql.NewPriceHistoryRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	complianceCalc := attendanceService.NewComplianceCalculator()
	markers := attendanceService.NewMarkerAllowlist(cfg.Attendance.MarkerAllowlist)
	attendanceSvc := attendanceService.NewAttendanceService(
		complianceCalc,
		employeeRepo,
		holidayRepo,
		attendanceDayRepo,
		badgeEventRepo,
		doorRepo,
		markers,
		defaultZone,
	)

	dealScorer := dealService.NewDealScorer()
	dealSvc := dealService.NewDealService(dealScorer, offerRepo, priceHistoryRepo, cfg.Deal.OvernightMinHours)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	dealHandler := appHTTP.NewDealHandler(dealSvc)

	router := appHTTP.NewRouter(JWTService, attendanceHandler, dealHandler)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.RebuildWindowDays, defaultZone).RegisterJobs(scheduler)
	cron.NewDealJobs(dealSvc, offerRepo, rescoreStaleAfter).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
