package app

import (
	"database/sql"

	"go-leave/internal/employee"
	"go-leave/internal/group"
	"go-leave/internal/leave"
	"go-leave/internal/leavetype"
	"go-leave/internal/ledger"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	groupRepo := group.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.Reload(); err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	groupService := group.NewService(groupRepo)
	directory := group.NewDirectory(groupRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	ledgerService := ledger.NewService(db, ledgerRepo)
	leaveService := leave.NewService(db, leaveRepo, directory, leaveTypeService, ledgerService, counterRepo, outboxRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	groupHandler := group.NewHandler(groupService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	leaveHandler := leave.NewHandler(leaveService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService, employeeService, logger)
		group.RegisterRoutes(api, groupHandler, rbacService, employeeService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService, employeeService)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService, employeeService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, employeeService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, employeeService)
	}

	return nil
}
