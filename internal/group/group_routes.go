package group

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
	delegation := r.Group("/delegation-groups")
	delegation.Use(middleware.AuthMiddleware())
	delegation.Use(middleware.RequireActiveEmployee(status))
	{
		delegation.GET("", middleware.RBACAuthorize(rbacService, "group", "read"), handler.GetDelegationGroups)
		delegation.GET("/:id", middleware.RBACAuthorize(rbacService, "group", "read"), handler.GetDelegationGroup)
		delegation.POST("", middleware.RBACAuthorize(rbacService, "group", "manage"), handler.CreateDelegationGroup)
		delegation.PUT("/:id", middleware.RBACAuthorize(rbacService, "group", "manage"), handler.UpdateDelegationGroup)
		delegation.PUT("/:id/members", middleware.RBACAuthorize(rbacService, "group", "manage"), handler.ReplaceDelegationMembers)
	}

	department := r.Group("/department-groups")
	department.Use(middleware.AuthMiddleware())
	department.Use(middleware.RequireActiveEmployee(status))
	{
		department.GET("", middleware.RBACAuthorize(rbacService, "group", "read"), handler.GetDepartmentGroups)
		department.GET("/:id", middleware.RBACAuthorize(rbacService, "group", "read"), handler.GetDepartmentGroup)
		department.POST("", middleware.RBACAuthorize(rbacService, "group", "manage"), handler.CreateDepartmentGroup)
		department.PUT("/:id", middleware.RBACAuthorize(rbacService, "group", "manage"), handler.UpdateDepartmentGroup)
		department.PUT("/:id/members", middleware.RBACAuthorize(rbacService, "group", "manage"), handler.ReplaceDepartmentMembers)
	}
}
