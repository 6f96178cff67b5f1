package app

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-portal/internal/announcement"
	"go-portal/internal/audit"
	"go-portal/internal/auth"
	"go-portal/internal/complaint"
	"go-portal/internal/employee"
	"go-portal/internal/leavebalance"
	"go-portal/internal/leaverequest"
	"go-portal/internal/leavetype"
	"go-portal/internal/messaging/kafka"
	"go-portal/internal/middleware"
	"go-portal/internal/note"
	"go-portal/internal/rbac"
	"go-portal/internal/reservation"
	"go-portal/internal/settings"
	"go-portal/internal/shared/counter"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	announcementRepo := announcement.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	complaintRepo := complaint.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveBalanceRepo := leavebalance.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	noteRepo := note.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	reservationRepo := reservation.NewRepository(gormDB)
	settingsRepo := settings.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Complaint live fan-out ---
	broker := complaint.NewBroker()
	bridge := complaint.NewBridge(rdb, broker)
	go func() {
		if err := bridge.Run(ctx); err != nil {
			zap.L().Error("complaint bridge stopped", zap.Error(err))
		}
	}()

	// --- Services ---
	settingsService := settings.NewService(settingsRepo, rdb)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	employeeService := employee.NewService(db, employeeRepo, counterRepo)
	leaveBalanceService := leavebalance.NewService(leaveBalanceRepo, leaveTypeRepo, settingsService)
	leaveRequestService := leaverequest.NewService(db, leaveRequestRepo, employeeRepo, leaveTypeRepo, settingsService, outboxRepo, rbacService)
	reservationService := reservation.NewService(db, reservationRepo, employeeRepo, settingsService, rbacService)
	complaintService := complaint.NewService(complaintRepo, settingsService, rbacService, bridge)
	announcementService := announcement.NewService(announcementRepo, rdb)
	noteService := note.NewService(noteRepo)
	authService := auth.NewService(authRepo, employeeService)

	// --- Handlers ---
	announcementHandler := announcement.NewHandler(announcementService)
	authHandler := auth.NewHandler(authService)
	complaintHandler := complaint.NewHandler(complaintService, broker)
	employeeHandler := employee.NewHandler(employeeService)
	leaveBalanceHandler := leavebalance.NewHandler(leaveBalanceService, employeeRepo)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, employeeRepo)
	noteHandler := note.NewHandler(noteService)
	reservationHandler := reservation.NewHandler(reservationService)
	settingsHandler := settings.NewHandler(settingsService)

	// --- Cross-cutting middleware ---
	auditRecorder := audit.NewOutboxRecorder(outboxRepo)
	router.Use(middleware.RequestID())
	router.Use(middleware.APILogger(auditRecorder, zap.L()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		announcement.RegisterRoutes(api, announcementHandler, rbacService)
		complaint.RegisterRoutes(api, complaintHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leavebalance.RegisterRoutes(api, leaveBalanceHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService, rdb)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		note.RegisterRoutes(api, noteHandler, rbacService)
		reservation.RegisterRoutes(api, reservationHandler, rbacService, rdb)
		settings.RegisterRoutes(api, settingsHandler, rbacService)
	}

	return nil
}
