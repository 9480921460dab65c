package ledger

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	status middleware.EmployeeStatusService,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	balances.Use(middleware.RequireActiveEmployee(status))
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetBalance)
		balances.GET("/transactions", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetHistory)
		balances.POST("/transactions", middleware.RBACAuthorize(rbacService, "balance", "adjust"), handler.Post)
	}
}
