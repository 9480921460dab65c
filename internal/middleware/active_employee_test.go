package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeStatus struct {
	isActiveFn func(ctx context.Context, employeeID string) (bool, error)
}

func (f *fakeEmployeeStatus) IsActive(ctx context.Context, employeeID string) (bool, error) {
	return f.isActiveFn(ctx, employeeID)
}

func newActiveEmployeeRouter(status middleware.EmployeeStatusService, employeeID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected",
		func(c *gin.Context) {
			if employeeID != "" {
				c.Set(string(middleware.ContextEmployeeID), employeeID)
			}
		},
		middleware.RequireActiveEmployee(status),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func TestRequireActiveEmployee(t *testing.T) {
	t.Run("active employee passes through", func(t *testing.T) {
		status := &fakeEmployeeStatus{
			isActiveFn: func(ctx context.Context, employeeID string) (bool, error) {
				return true, nil
			},
		}
		r := newActiveEmployeeRouter(status, "emp-1")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("deactivated employee is rejected despite a valid token", func(t *testing.T) {
		status := &fakeEmployeeStatus{
			isActiveFn: func(ctx context.Context, employeeID string) (bool, error) {
				return false, nil
			},
		}
		r := newActiveEmployeeRouter(status, "emp-1")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "EMPLOYEE_DEACTIVATED")
	})

	t.Run("missing auth context", func(t *testing.T) {
		status := &fakeEmployeeStatus{
			isActiveFn: func(ctx context.Context, employeeID string) (bool, error) {
				t.Fatal("status must not be consulted without an employee id")
				return false, nil
			},
		}
		r := newActiveEmployeeRouter(status, "")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lookup failure is a server error, not a pass", func(t *testing.T) {
		status := &fakeEmployeeStatus{
			isActiveFn: func(ctx context.Context, employeeID string) (bool, error) {
				return false, errors.New("connection reset")
			},
		}
		r := newActiveEmployeeRouter(status, "emp-1")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
