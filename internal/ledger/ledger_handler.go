package ledger

import (
	"net/http"
	"strconv"

	ledgererrors "go-leave/internal/ledger/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("ledger.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("ledger request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) parseKey(c *gin.Context) (uuid.UUID, uuid.UUID, int, error) {
	employeeID, err := uuid.Parse(c.Query("employee_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, 0, ledgererrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(c.Query("leave_type_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, 0, ledgererrors.ErrInvalidLeaveTypeID
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return uuid.Nil, uuid.Nil, 0, ledgererrors.ErrInvalidYear
	}
	return employeeID, leaveTypeID, year, nil
}

func (h *Handler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID, leaveTypeID, year, err := h.parseKey(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	balance, err := h.service.TotalBalance(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	taken, err := h.service.TakenAmount(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, BalanceResponse{
		EmployeeID:  employeeID.String(),
		LeaveTypeID: leaveTypeID.String(),
		Year:        year,
		Balance:     balance.StringFixed(2),
		Taken:       taken.StringFixed(2),
	}, nil)
}

func (h *Handler) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID, leaveTypeID, year, err := h.parseKey(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.History(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Post(c *gin.Context) {
	actorID := getActorID(c)

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http ledger post validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	resp, err := h.service.Post(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}
