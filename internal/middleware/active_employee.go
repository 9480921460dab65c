package middleware

import (
	"context"
	"net/http"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// EmployeeStatusService is a local interface so this package does not depend
// on the employee package itself.
type EmployeeStatusService interface {
	IsActive(ctx context.Context, employeeID string) (bool, error)
}

// RequireActiveEmployee rejects requests whose authenticated employee has
// been deactivated. Must run after AuthMiddleware so employee_id is set.
func RequireActiveEmployee(status EmployeeStatusService) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString(string(ContextEmployeeID))
		if employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		active, err := status.IsActive(c.Request.Context(), employeeID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not verify employee status", nil)
			c.Abort()
			return
		}
		if !active {
			response.Error(c, http.StatusForbidden, "EMPLOYEE_DEACTIVATED", "Employee account is deactivated", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
