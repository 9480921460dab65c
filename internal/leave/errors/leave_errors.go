package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidApplicationID = apperror.New(apperror.CodeInvalidInput, "invalid application id", http.StatusBadRequest)
	ErrInvalidEmployeeID    = apperror.New(apperror.CodeInvalidInput, "invalid employee id", http.StatusBadRequest)
	ErrInvalidActorID       = apperror.New(apperror.CodeInvalidInput, "invalid actor id", http.StatusBadRequest)
	ErrInvalidDateFormat    = apperror.New(apperror.CodeInvalidInput, "invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrInvalidDateRange     = apperror.New(apperror.CodeInvalidInput, "end date must not be before start date", http.StatusBadRequest)
	ErrInvalidDays          = apperror.New(apperror.CodeInvalidInput, "days must be a positive amount", http.StatusBadRequest)
	ErrReasonRequired       = apperror.New(apperror.CodeInvalidInput, "reason is required", http.StatusBadRequest)

	ErrApplicationNotFound = apperror.New(apperror.CodeNotFound, "leave application not found", http.StatusNotFound)

	ErrNotAuthorizedActor  = apperror.New(apperror.CodeForbidden, "not authorized to act on the current stage", http.StatusForbidden)
	ErrNotAuthorizedViewer = apperror.New(apperror.CodeForbidden, "not authorized to view this application", http.StatusForbidden)
	ErrNotCancelRequester  = apperror.New(apperror.CodeForbidden, "only the applicant may request cancellation", http.StatusForbidden)

	ErrNotPending          = apperror.New(apperror.CodeInvalidState, "application is not pending", http.StatusConflict)
	ErrOriginalNotApproved = apperror.New(apperror.CodeInvalidState, "original application is not approved", http.StatusConflict)
	ErrNotCancellable      = apperror.New(apperror.CodeInvalidState, "a cancellation request cannot itself be cancelled", http.StatusConflict)
	ErrCancellationPending = apperror.New(apperror.CodeConflict, "a cancellation request for this application is already pending", http.StatusConflict)
	ErrOverlappingLeave    = apperror.New(apperror.CodeConflict, "employee already has leave overlapping this period", http.StatusConflict)

	ErrAlreadyProcessed = apperror.New(apperror.CodeAlreadyProcessed, "stage was already completed by another actor", http.StatusConflict)
)
